package builtin

import (
	"sort"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// LeftJoin merges enrichment records into a base table on a shared key
// column. Every base row is retained: rows with a matching enrichment record
// gain that record's fields, rows without one gain the same fields as nil so
// the column set stays consistent. The enrichment side's key column is never
// copied, leaving the base table's single instance of the join key.
//
// The join is many-to-one in spirit. If the enrichment table carries several
// records for one key the join fans out, emitting one output row per match;
// it does not silently deduplicate. Sources built by the enrichment collector
// produce one record per distinct key, so fan-out only occurs with externally
// supplied tables.
type LeftJoin struct {
	// Key is the shared join column, present in both tables.
	Key string

	// Fields is the ordered list of enrichment columns to append. When
	// empty, all non-key columns of the enrichment table are appended in
	// sorted order.
	Fields []string
}

// Apply joins side into base and returns the merged table. base and side are
// not modified.
func (j LeftJoin) Apply(base, side []records.Record) []records.Record {
	fields := j.Fields
	if len(fields) == 0 {
		fields = sideFields(side, j.Key)
	}

	idx := make(map[string][]records.Record, len(side))
	for _, s := range side {
		k := records.AsString(s[j.Key])
		idx[k] = append(idx[k], s)
	}

	out := make([]records.Record, 0, len(base))
	for _, b := range base {
		matches := idx[records.AsString(b[j.Key])]
		if len(matches) == 0 {
			r := b.Clone()
			for _, f := range fields {
				r[f] = nil
			}
			out = append(out, r)
			continue
		}
		for _, m := range matches {
			r := b.Clone()
			for _, f := range fields {
				r[f] = m[f]
			}
			out = append(out, r)
		}
	}
	return out
}

func sideFields(side []records.Record, key string) []string {
	set := map[string]struct{}{}
	for _, s := range side {
		for k := range s {
			if k != key {
				set[k] = struct{}{}
			}
		}
	}
	fields := make([]string, 0, len(set))
	for k := range set {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
