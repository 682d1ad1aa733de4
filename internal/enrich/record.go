// Package enrich fetches per-key risk signals from external sources (weather
// conditions, news sentiment) and assembles them into enrichment tables the
// pipeline joins onto the logistics data.
//
// Fetch failures never abort a batch: every source defines a neutral fallback
// record, and results carry an explicit Fallback flag so callers can tell a
// substituted record from a fetched one (and, later, attach retry policies
// without changing the data model).
package enrich

import (
	"context"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// EnrichmentRecord is one fetched (or substituted) record for a join key.
type EnrichmentRecord struct {
	// Key is the join key the record belongs to (e.g. a country name).
	Key string

	// Fields are the named values this source contributes, excluding the key.
	Fields records.Record
}

// Result pairs an EnrichmentRecord with its provenance: Fallback reports that
// the record is the source's neutral substitute rather than fetched data, and
// Err carries the cause when the substitution came from a failure. A neutral
// record that reflects real quiet data (e.g. no news articles found) has
// Fallback=false and a nil Err.
type Result struct {
	Record   EnrichmentRecord
	Fallback bool
	Err      error
}

// Source produces one enrichment record per key. Implementations must return
// a usable Result even on failure (Fallback=true), never an absent record.
type Source interface {
	// Name identifies the source in logs, metrics, and collector output.
	Name() string

	// Fields returns the ordered column names this source contributes.
	Fields() []string

	// Fetch retrieves the record for one key.
	Fetch(ctx context.Context, key string) Result
}

// Table flattens results into join-ready records: each record carries the
// join key under keyColumn plus the source's fields.
func Table(keyColumn string, results []Result) []records.Record {
	out := make([]records.Record, 0, len(results))
	for _, res := range results {
		r := records.Record{keyColumn: res.Record.Key}
		for k, v := range res.Record.Fields {
			r[k] = v
		}
		out = append(out, r)
	}
	return out
}
