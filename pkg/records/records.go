// Package records defines the in-memory row model shared by the parser,
// transformers, and storage backends. A Record is a flat mapping from column
// name to value; nil marks a missing value. After cleaning, every record in a
// table carries the same column set.
package records

import (
	"fmt"
	"strconv"
	"time"
)

// Record is a single table row keyed by column name. Values are nil (missing),
// string, int64, float64, or time.Time once the pipeline has run; raw parsed
// records carry only strings and nils.
type Record map[string]any

// Clone returns a shallow copy of the record. Values themselves are never
// mutated by the pipeline, so a shallow copy is sufficient for join fan-out.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Float extracts a numeric value from the record, parsing strings when
// necessary. The second return reports whether a usable number was found;
// nil and unparseable values report false.
func (r Record) Float(col string) (float64, bool) {
	return AsFloat(r[col])
}

// AsFloat converts a single value to float64 where possible.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsString renders a value for keying and serialization. nil becomes the
// empty string; dates use the date-only form the output files carry.
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}
