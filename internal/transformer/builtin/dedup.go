package builtin

import (
	"sort"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// DropExactDuplicates removes rows that are exact duplicates of an earlier
// row, comparing across every column. The first occurrence wins; input order
// is otherwise preserved. It returns a fresh slice of cloned records and the
// number of rows removed.
//
// Rows are keyed by an xxh3 hash of a field-ordered serialization; the
// serialized form is retained per hash bucket so a hash collision can never
// merge two genuinely different rows.
func DropExactDuplicates(in []records.Record) ([]records.Record, int) {
	out := make([]records.Record, 0, len(in))
	seen := make(map[uint64][]string, len(in))
	removed := 0

	for _, r := range in {
		key := rowKey(r)
		h := xxh3.HashString(key)
		dup := false
		for _, prev := range seen[h] {
			if prev == key {
				dup = true
				break
			}
		}
		if dup {
			removed++
			continue
		}
		seen[h] = append(seen[h], key)
		out = append(out, r.Clone())
	}
	return out, removed
}

// rowKey serializes a record with its columns in sorted order so that two
// records with equal contents always produce the same key regardless of map
// iteration order. nil is encoded distinctly from the empty string.
func rowKey(r records.Record) string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	var b strings.Builder
	for i, k := range cols {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(k)
		b.WriteByte(0x1e)
		if r[k] == nil {
			b.WriteByte(0x00)
		} else {
			b.WriteString(records.AsString(r[k]))
		}
	}
	return b.String()
}
