// Package pipeline wires the stages of a risk run together: parse the two
// input CSVs, clean each one, fetch external enrichment, merge it onto the
// logistics table, and persist the results.
//
// The package owns sequencing, logging, and metrics. The stages themselves
// live in their own packages and stay pure; all I/O happens here and in the
// storage layer.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"github.com/h0157/supply-chain-risk-dashboard/internal/config"
	"github.com/h0157/supply-chain-risk-dashboard/internal/datasource/file"
	"github.com/h0157/supply-chain-risk-dashboard/internal/datasource/httpds"
	"github.com/h0157/supply-chain-risk-dashboard/internal/enrich"
	"github.com/h0157/supply-chain-risk-dashboard/internal/metrics"
	"github.com/h0157/supply-chain-risk-dashboard/internal/parser/csv"
	"github.com/h0157/supply-chain-risk-dashboard/internal/storage"
	"github.com/h0157/supply-chain-risk-dashboard/internal/transformer/builtin"
	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// Output table names.
const (
	TableCleanedSupplier  = "cleaned_supplier_data"
	TableCleanedLogistics = "cleaned_logistics_data"
	TableMerged           = "logistics_with_realtime"
)

// DatasetSummary reports what cleaning did to one dataset.
type DatasetSummary struct {
	RowsIn         int
	RowsOut        int
	RowsSkipped    int
	Clean          builtin.CleanStats
	OutliersCapped int
	RangeReplaced  int
}

// EnrichmentSummary reports the external fetch and merge stage.
type EnrichmentSummary struct {
	Keys             int
	WeatherFallbacks int
	NewsFallbacks    int
	MergedRows       int
}

// Summary is the run report returned by Run and rendered by the web UI.
type Summary struct {
	Job        string
	Supplier   DatasetSummary
	Logistics  DatasetSummary
	Enrichment EnrichmentSummary

	// Tables lists the dataset names persisted, in write order.
	Tables []string

	Started  time.Time
	Duration time.Duration
}

// Run executes one full pipeline run. Cleaning is fail-soft and enrichment
// degrades to fallback values, so the errors Run returns are the fatal ones:
// unreadable inputs, persistence failures, and context cancellation.
func Run(ctx context.Context, cfg *config.Config) (*Summary, error) {
	started := time.Now()
	sum := &Summary{Job: cfg.Job, Started: started}

	repo, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("pipeline: storage: %w", err)
	}
	defer repo.Close()

	supplier, err := processDataset(ctx, cfg.Job, "supplier", cfg.Supplier, &sum.Supplier)
	if err != nil {
		return nil, err
	}
	if err := persist(ctx, cfg.Job, repo, TableCleanedSupplier, supplier.Columns, supplier.Rows); err != nil {
		return nil, err
	}
	sum.Tables = append(sum.Tables, TableCleanedSupplier)

	logistics, err := processDataset(ctx, cfg.Job, "logistics", cfg.Logistics, &sum.Logistics)
	if err != nil {
		return nil, err
	}
	if err := persist(ctx, cfg.Job, repo, TableCleanedLogistics, logistics.Columns, logistics.Rows); err != nil {
		return nil, err
	}
	sum.Tables = append(sum.Tables, TableCleanedLogistics)

	if enrichmentEnabled(cfg.Enrichment) {
		merged, cols, err := enrichAndMerge(ctx, cfg, logistics, &sum.Enrichment)
		if err != nil {
			return nil, err
		}
		if err := persist(ctx, cfg.Job, repo, TableMerged, cols, merged); err != nil {
			return nil, err
		}
		sum.Tables = append(sum.Tables, TableMerged)
		sum.Enrichment.MergedRows = len(merged)
	}

	sum.Duration = time.Since(started)
	log.Printf("[%s] run finished in %s: tables=%v", cfg.Job, sum.Duration.Round(time.Millisecond), sum.Tables)
	return sum, nil
}

func enrichmentEnabled(e config.Enrichment) bool {
	return e.Weather.URL != "" || e.News.URL != ""
}

// processDataset parses and cleans one input CSV.
func processDataset(ctx context.Context, job, name string, d config.Dataset, out *DatasetSummary) (*csv.Table, error) {
	start := time.Now()
	table, err := parseDataset(ctx, d)
	metrics.RecordStep(job, name+"_parse", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("pipeline: parse %s: %w", name, err)
	}
	out.RowsIn = len(table.Rows)
	out.RowsSkipped = table.Skipped
	metrics.RecordRow(job, name+"_parsed", int64(len(table.Rows)))
	log.Printf("[%s] %s: parsed %d rows (%d skipped) from %s", job, name, len(table.Rows), table.Skipped, d.Path)

	start = time.Now()

	clean := builtin.Clean{Spec: d.Columns, Layouts: d.DateLayouts}
	rows, stats := clean.Apply(table.Rows)
	out.Clean = stats
	log.Printf("[%s] %s: clean removed %d duplicates, imputed %d numeric / %d categorical, coerced %d dates / %d ints",
		job, name, stats.DuplicatesRemoved, stats.NumericImputed, stats.CategoricalImputed, stats.DatesCoerced, stats.NumericCoerced)
	metrics.RecordRow(job, name+"_duplicates_removed", int64(stats.DuplicatesRemoved))
	metrics.RecordRow(job, name+"_imputed", int64(stats.NumericImputed+stats.CategoricalImputed))

	for _, col := range d.OutlierColumns {
		var cs builtin.CapStats
		rows, cs = builtin.IQRCap{Column: col}.Apply(rows)
		out.OutliersCapped += cs.Outliers
		if cs.Outliers > 0 {
			log.Printf("[%s] %s: capped %d outliers in %s to [%g, %g]", job, name, cs.Outliers, col, cs.Lower, cs.Upper)
		}
	}
	metrics.RecordRow(job, name+"_outliers_capped", int64(out.OutliersCapped))

	for _, m := range d.Mappings {
		rows = builtin.MapValues{Column: m.Column, Mapping: m.Values}.Apply(rows)
	}

	for _, r := range d.Ranges {
		var replaced int
		rows, replaced = builtin.RangeValidate{Column: r.Column, Min: r.Min, Max: r.Max}.Apply(rows)
		out.RangeReplaced += replaced
		if replaced > 0 {
			log.Printf("[%s] %s: replaced %d out-of-range values in %s", job, name, replaced, r.Column)
		}
	}
	metrics.RecordRow(job, name+"_range_replaced", int64(out.RangeReplaced))

	metrics.RecordStep(job, name+"_clean", nil, time.Since(start))
	out.RowsOut = len(rows)
	table.Rows = rows
	return table, nil
}

func parseDataset(ctx context.Context, d config.Dataset) (*csv.Table, error) {
	rc, err := file.NewLocal(d.Path).Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return csv.NewParser(csv.Options{TrimSpace: true}).Parse(rc)
}

// enrichAndMerge fetches external signals for the distinct join keys of the
// logistics table and left-joins them on. The merged column order is the
// logistics columns followed by each source's fields in fetch order.
func enrichAndMerge(ctx context.Context, cfg *config.Config, logistics *csv.Table, out *EnrichmentSummary) ([]records.Record, []string, error) {
	e := cfg.Enrichment
	client := httpds.NewClient(httpds.Config{})

	var sources []enrich.Source
	if e.Weather.URL != "" {
		sources = append(sources, &enrich.WeatherSource{
			Client:  client,
			BaseURL: e.Weather.URL,
			APIKey:  e.Weather.APIKey,
		})
	}
	if e.News.URL != "" {
		sources = append(sources, &enrich.NewsSource{
			Client:   client,
			BaseURL:  e.News.URL,
			APIKey:   e.News.APIKey,
			Scorer:   enrich.NewVaderScorer(),
			PageSize: e.News.PageSize,
		})
	}

	keys := make([]string, 0, len(logistics.Rows))
	for _, rec := range logistics.Rows {
		keys = append(keys, records.AsString(rec[e.JoinColumn]))
	}

	rps := cfg.Runtime.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Runtime.Burst
	if burst <= 0 {
		burst = 1
	}
	collector := &enrich.Collector{
		Sources: sources,
		Workers: cfg.Runtime.FetchWorkers,
		Limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}

	start := time.Now()
	results, err := collector.Collect(ctx, keys)
	metrics.RecordStep(cfg.Job, "enrich_fetch", err, time.Since(start))
	if err != nil {
		return nil, nil, fmt.Errorf("pipeline: enrichment: %w", err)
	}

	merged := logistics.Rows
	cols := append([]string(nil), logistics.Columns...)
	for _, src := range sources {
		srcResults := results[src.Name()]
		fallbacks := 0
		for _, res := range srcResults {
			metrics.RecordFetch(src.Name(), res.Fallback)
			if res.Fallback {
				fallbacks++
			}
		}
		switch src.Name() {
		case "weather":
			out.WeatherFallbacks = fallbacks
		case "news":
			out.NewsFallbacks = fallbacks
		}
		out.Keys = len(srcResults)
		log.Printf("[%s] enrich: %s returned %d keys (%d fallbacks)", cfg.Job, src.Name(), len(srcResults), fallbacks)

		join := builtin.LeftJoin{Key: e.JoinColumn, Fields: src.Fields()}
		merged = join.Apply(merged, enrich.Table(e.JoinColumn, srcResults))
		cols = append(cols, src.Fields()...)
	}

	return merged, cols, nil
}

// persist writes one finished table through the repository.
func persist(ctx context.Context, job string, repo storage.Repository, name string, columns []string, rows []records.Record) error {
	start := time.Now()
	err := repo.Save(ctx, name, columns, rows)
	metrics.RecordStep(job, "persist_"+name, err, time.Since(start))
	if err != nil {
		return fmt.Errorf("pipeline: persist %s: %w", name, err)
	}
	metrics.RecordRow(job, name+"_persisted", int64(len(rows)))
	log.Printf("[%s] persisted %s: %d rows, %d columns", job, name, len(rows), len(columns))
	return nil
}
