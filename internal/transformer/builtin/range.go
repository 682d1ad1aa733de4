package builtin

import (
	"math"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// RangeValidate replaces numeric values strictly outside the inclusive range
// [Min, Max] with Min. Absent columns make it a no-op; non-numeric values are
// left for the cleaning coercion to deal with.
type RangeValidate struct {
	Column   string
	Min, Max float64
}

// Apply returns a new table with out-of-range values replaced, along with the
// replacement count.
func (v RangeValidate) Apply(in []records.Record) ([]records.Record, int) {
	out := make([]records.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	if !columnPresent(out, v.Column) {
		return out, 0
	}

	// An integral Min keeps the column in integer form after substitution.
	var fallback any = v.Min
	if v.Min == math.Trunc(v.Min) {
		fallback = int64(v.Min)
	}

	replaced := 0
	for _, r := range out {
		f, ok := r.Float(v.Column)
		if !ok {
			continue
		}
		if f < v.Min || f > v.Max {
			r[v.Column] = fallback
			replaced++
		}
	}
	return out, replaced
}
