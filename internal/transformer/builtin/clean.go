// Package builtin contains the reusable table transformations that make up
// the cleaning and validation pipeline: deduplication, imputation, coercion,
// categorical normalization, outlier capping, value mapping, range
// validation, and the enrichment join.
//
// Design goals:
//
//   - Each transformation is a pure function of its input table and
//     configuration; no cross-call state, so every step can be tested in
//     isolation and re-applied safely.
//   - Bad values never abort a run. Unparseable dates and numbers are
//     replaced by fixed sentinels, absent columns make a step a uniform
//     no-op, and every substitution is counted and reported to the caller.
//   - Input records are cloned, never mutated, so callers can chain steps
//     explicitly and keep intermediate tables around.
package builtin

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// epoch is the sentinel substituted for missing or unparseable dates.
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Epoch returns the sentinel date used for unparseable date values.
func Epoch() time.Time { return epoch }

// defaultDateLayouts are tried in order when coercing date columns.
var defaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// Clean applies the generalized cleaning sequence to a table:
//
//	dedup → impute numeric (median) → impute categorical ("Unknown") →
//	coerce dates (epoch sentinel) → trim+title-case categoricals →
//	coerce numerics to integers (0 fallback)
//
// The order is load-bearing: medians are computed over the raw values before
// any coercion, and the "Unknown" fallback passes through title-casing
// unchanged. Numeric coercion runs last so it also sweeps up any non-numeric
// leftovers.
type Clean struct {
	Spec ColumnSpec

	// Layouts overrides the date layouts tried during coercion.
	Layouts []string
}

// CleanStats reports what Clean changed, one counter per cleaning step.
type CleanStats struct {
	DuplicatesRemoved  int
	NumericImputed     int
	CategoricalImputed int
	DatesCoerced       int // missing or unparseable dates replaced by the sentinel
	NumericCoerced     int // non-numeric leftovers forced to 0
}

// Apply runs the cleaning sequence and returns the cleaned table along with
// per-step counts. The input is not modified.
func (c Clean) Apply(in []records.Record) ([]records.Record, CleanStats) {
	var st CleanStats

	out, removed := DropExactDuplicates(in)
	st.DuplicatesRemoved = removed

	layouts := c.Layouts
	if len(layouts) == 0 {
		layouts = defaultDateLayouts
	}

	// Numeric imputation. The median is computed over the values that parse
	// numerically at this point: unparseable text contributes nothing here
	// and is swept to 0 by the final coercion instead.
	for _, col := range c.Spec.Numeric {
		if !columnPresent(out, col) {
			continue
		}
		var vals []float64
		for _, r := range out {
			if f, ok := records.AsFloat(r[col]); ok {
				vals = append(vals, f)
			}
		}
		med := Median(vals) // 0 for an entirely missing column
		for _, r := range out {
			if r[col] == nil {
				r[col] = med
				st.NumericImputed++
			}
		}
	}

	// Categorical imputation.
	for _, col := range c.Spec.Categorical {
		if !columnPresent(out, col) {
			continue
		}
		for _, r := range out {
			if r[col] == nil {
				r[col] = "Unknown"
				st.CategoricalImputed++
			}
		}
	}

	// Date coercion. Parsing never errors out of the pipeline: anything that
	// fails every layout becomes the epoch sentinel.
	for _, col := range c.Spec.Date {
		if !columnPresent(out, col) {
			continue
		}
		for _, r := range out {
			if _, ok := r[col].(time.Time); ok {
				continue
			}
			if s, ok := r[col].(string); ok {
				if ts, ok := parseDate(s, layouts); ok {
					r[col] = ts
					continue
				}
			}
			r[col] = epoch
			st.DatesCoerced++
		}
	}

	// Categorical normalization: trim and title-case. Runs after imputation
	// so the "Unknown" fallback normalizes to itself.
	caser := cases.Title(language.Und)
	for _, col := range c.Spec.Categorical {
		if !columnPresent(out, col) {
			continue
		}
		for _, r := range out {
			if s, ok := r[col].(string); ok {
				r[col] = caser.String(strings.TrimSpace(s))
			}
		}
	}

	// Numeric coercion: force integer form, 0 on failure. Fractional medians
	// truncate here rather than round.
	for _, col := range c.Spec.Numeric {
		if !columnPresent(out, col) {
			continue
		}
		for _, r := range out {
			if i, ok := asInt(r[col]); ok {
				r[col] = i
			} else {
				r[col] = int64(0)
				st.NumericCoerced++
			}
		}
	}

	return out, st
}

func parseDate(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// asInt forces a value into integer form, truncating fractional parts.
func asInt(v any) (int64, bool) {
	if i, ok := v.(int64); ok {
		return i, true
	}
	if i, ok := v.(int); ok {
		return int64(i), true
	}
	f, ok := records.AsFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
