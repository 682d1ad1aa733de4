package builtin

import "github.com/h0157/supply-chain-risk-dashboard/pkg/records"

// MapValues rewrites values of a categorical column through an explicit
// raw-to-canonical mapping. Matching is exact and case-sensitive on the
// normalized text produced by Clean; unmapped values pass through unchanged.
// Absent columns make it a no-op.
//
// As long as the mapping's canonical values are not themselves mapping keys,
// applying MapValues twice equals applying it once.
type MapValues struct {
	Column  string
	Mapping map[string]string
}

// Apply returns a new table with mapped values substituted.
func (m MapValues) Apply(in []records.Record) []records.Record {
	out := make([]records.Record, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	if len(m.Mapping) == 0 || !columnPresent(out, m.Column) {
		return out
	}
	for _, r := range out {
		s, ok := r[m.Column].(string)
		if !ok {
			continue
		}
		if canonical, ok := m.Mapping[s]; ok {
			r[m.Column] = canonical
		}
	}
	return out
}
