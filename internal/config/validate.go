// This file adds a lightweight linter/validator for Config values. It
// performs static checks over a decoded Config and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Config.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "supplier.ranges[1].column"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static validation / linting of a Config.
//
// It does not mutate the config. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func Validate(cfg Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(cfg.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	issues = append(issues, validateDataset("supplier", cfg.Supplier)...)
	issues = append(issues, validateDataset("logistics", cfg.Logistics)...)
	issues = append(issues, validateEnrichment(cfg.Enrichment)...)
	issues = append(issues, validateStorage(cfg)...)
	issues = append(issues, validateRuntime(cfg.Runtime)...)

	return issues
}

// validateDataset checks one dataset block under the given path prefix.
func validateDataset(path string, d Dataset) []Issue {
	var issues []Issue

	if strings.TrimSpace(d.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".path",
			Message:  "dataset requires a non-empty input path",
		})
	}

	numeric := map[string]struct{}{}
	for _, c := range d.Columns.Numeric {
		numeric[c] = struct{}{}
	}

	// Outlier capping and range checks operate on imputed numeric columns.
	for i, c := range d.OutlierColumns {
		if _, ok := numeric[c]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("%s.outlier_columns[%d]", path, i),
				Message:  fmt.Sprintf("column %q is not declared numeric; missing values will not have been imputed", c),
			})
		}
	}
	for i, r := range d.Ranges {
		p := fmt.Sprintf("%s.ranges[%d]", path, i)
		if strings.TrimSpace(r.Column) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     p + ".column",
				Message:  "range check requires a column name",
			})
			continue
		}
		if r.Min > r.Max {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     p,
				Message:  fmt.Sprintf("min %v exceeds max %v", r.Min, r.Max),
			})
		}
	}
	for i, m := range d.Mappings {
		if strings.TrimSpace(m.Column) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("%s.mappings[%d].column", path, i),
				Message:  "mapping requires a column name",
			})
		}
	}

	return issues
}

// validateEnrichment checks the external source configuration. Enrichment is
// optional; an empty block disables it.
func validateEnrichment(e Enrichment) []Issue {
	var issues []Issue

	if e.Weather.URL == "" && e.News.URL == "" {
		return issues
	}

	if strings.TrimSpace(e.JoinColumn) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "enrichment.join_column",
			Message:  "enrichment sources are configured but no join column is set",
		})
	}
	if e.Weather.URL != "" && strings.TrimSpace(e.Weather.APIKey) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "enrichment.weather.api_key",
			Message:  "no API key configured; set WEATHER_API_KEY or expect fallback values",
		})
	}
	if e.News.URL != "" && strings.TrimSpace(e.News.APIKey) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "enrichment.news.api_key",
			Message:  "no API key configured; set NEWS_API_KEY or expect fallback values",
		})
	}
	if e.News.PageSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "enrichment.news.page_size",
			Message:  "page_size must not be negative",
		})
	}

	return issues
}

// validateStorage checks the storage selector and its backend options.
func validateStorage(cfg Config) []Issue {
	var issues []Issue
	s := cfg.Storage

	known := map[string]struct{}{
		"":         {}, // defaults to csv
		"csv":      {},
		"sqlite":   {},
		"postgres": {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	switch s.Kind {
	case "sqlite":
		if strings.TrimSpace(s.SQLite.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.sqlite.dsn",
				Message:  "sqlite storage requires a DSN",
			})
		}
	case "postgres":
		if strings.TrimSpace(s.Postgres.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.postgres.dsn",
				Message:  "postgres storage requires a DSN",
			})
		}
	}

	return issues
}

// validateRuntime checks Runtime for obvious misconfigurations.
func validateRuntime(r Runtime) []Issue {
	var issues []Issue

	if r.FetchWorkers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.fetch_workers",
			Message:  "fetch_workers must not be negative",
		})
	}
	if r.RequestsPerSecond < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.requests_per_second",
			Message:  "requests_per_second must not be negative",
		})
	}
	if r.Burst < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.burst",
			Message:  "burst must not be negative",
		})
	}

	return issues
}
