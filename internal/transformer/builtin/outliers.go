package builtin

import (
	"math"
	"sort"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// IQRCap detects and clips numeric outliers in a single column using the
// interquartile-range rule: values outside [Q1 − k·IQR, Q3 + k·IQR] are
// clipped to the nearest bound. It expects an already-cleaned numeric column;
// non-numeric values are left untouched. Absent columns make it a no-op.
type IQRCap struct {
	Column string

	// Whisker is the IQR multiplier; 1.5 when zero.
	Whisker float64
}

// CapStats reports the computed bounds and how many values fell outside them
// before clipping.
type CapStats struct {
	Outliers     int
	Lower, Upper float64
}

// Apply returns a new table with the column clipped into the IQR bounds,
// along with the bounds and the pre-clip outlier count.
func (c IQRCap) Apply(in []records.Record) ([]records.Record, CapStats) {
	out := make([]records.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}

	if !columnPresent(out, c.Column) {
		return out, CapStats{}
	}

	var vals []float64
	for _, r := range out {
		if f, ok := r.Float(c.Column); ok {
			vals = append(vals, f)
		}
	}
	if len(vals) == 0 {
		return out, CapStats{}
	}
	sort.Float64s(vals)

	k := c.Whisker
	if k == 0 {
		k = 1.5
	}
	q1 := Quantile(vals, 0.25)
	q3 := Quantile(vals, 0.75)
	iqr := q3 - q1
	st := CapStats{Lower: q1 - k*iqr, Upper: q3 + k*iqr}

	for _, r := range out {
		f, ok := r.Float(c.Column)
		if !ok {
			continue
		}
		switch {
		case f < st.Lower:
			st.Outliers++
			r[c.Column] = st.Lower
		case f > st.Upper:
			st.Outliers++
			r[c.Column] = st.Upper
		}
	}
	return out, st
}

// Quantile returns the q-th quantile (q in [0,1]) of an ascending-sorted
// sample using linear interpolation between closest ranks. An empty sample
// yields 0.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Median returns the middle quantile of vals, or 0 for an empty slice. The
// input is left unsorted.
func Median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	return Quantile(s, 0.5)
}
