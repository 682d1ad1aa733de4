// Package config defines the canonical, JSON-serializable configuration model
// for a risk pipeline run. A run file describes the two input datasets, the
// cleaning rules applied to each, the enrichment sources, and where outputs
// go.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in run files
//     under configs/*.json.
//  3. Secrets stay out of run files: API keys are read from the environment
//     (WEATHER_API_KEY, NEWS_API_KEY) and merged in by Load.
//
// Example (trimmed):
//
//	{
//	  "job": "supply-chain",
//	  "supplier": {
//	    "path": "data/supplier_data.csv",
//	    "columns": { "numeric": ["on_time_delivery"], "categorical": ["supplier_name"] },
//	    "outlier_columns": ["on_time_delivery"]
//	  },
//	  "storage": { "kind": "csv", "csv": { "dir": "out" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/h0157/supply-chain-risk-dashboard/internal/storage"
	"github.com/h0157/supply-chain-risk-dashboard/internal/transformer/builtin"
)

// Config is the top-level object decoded from a run file.
type Config struct {
	// Job names the run; it is used for metrics labeling and log prefixes.
	Job string `json:"job"`

	// Supplier and Logistics describe the two input datasets and their
	// cleaning rules.
	Supplier  Dataset `json:"supplier"`
	Logistics Dataset `json:"logistics"`

	// Enrichment configures the external weather and news sources joined onto
	// the logistics table.
	Enrichment Enrichment `json:"enrichment"`

	// Storage selects where cleaned and merged tables are written.
	Storage storage.Config `json:"storage"`

	Runtime Runtime `json:"runtime"`
	Metrics Metrics `json:"metrics"`
}

// Dataset describes one input CSV and the cleaning applied to it.
type Dataset struct {
	// Path is the local filesystem path to the input CSV.
	Path string `json:"path"`

	// Columns classifies columns for imputation and coercion.
	Columns builtin.ColumnSpec `json:"columns"`

	// DateLayouts optionally overrides the accepted date formats.
	DateLayouts []string `json:"date_layouts"`

	// OutlierColumns lists numeric columns subject to IQR capping.
	OutlierColumns []string `json:"outlier_columns"`

	// Mappings lists categorical value replacements applied after cleaning.
	Mappings []Mapping `json:"mappings"`

	// Ranges lists numeric range checks; out-of-range values are replaced
	// with the range minimum.
	Ranges []Range `json:"ranges"`
}

// Mapping replaces exact values in one column.
type Mapping struct {
	Column string            `json:"column"`
	Values map[string]string `json:"values"`
}

// Range bounds a numeric column inclusively.
type Range struct {
	Column string  `json:"column"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Enrichment configures the external data sources.
type Enrichment struct {
	// JoinColumn is the column whose distinct values drive fetches and key
	// the merge, e.g. "origin_country".
	JoinColumn string `json:"join_column"`

	Weather WeatherAPI `json:"weather"`
	News    NewsAPI    `json:"news"`
}

// WeatherAPI configures the current-conditions endpoint.
type WeatherAPI struct {
	// URL is the endpoint base, e.g. "https://api.weatherapi.com/v1/current.json".
	URL string `json:"url"`

	// APIKey is filled from WEATHER_API_KEY when unset in the run file.
	APIKey string `json:"api_key"`
}

// NewsAPI configures the headline-search endpoint.
type NewsAPI struct {
	// URL is the endpoint base, e.g. "https://newsapi.org/v2/everything".
	URL string `json:"url"`

	// APIKey is filled from NEWS_API_KEY when unset in the run file.
	APIKey string `json:"api_key"`

	// PageSize is the number of headlines scored per key (default 3).
	PageSize int `json:"page_size"`
}

// Runtime controls concurrency and request pacing for enrichment fetches.
type Runtime struct {
	// FetchWorkers bounds concurrent key fetches (default 4).
	FetchWorkers int `json:"fetch_workers"`

	// RequestsPerSecond paces outbound API calls (default 1).
	RequestsPerSecond float64 `json:"requests_per_second"`

	// Burst is the rate limiter burst size (default 1).
	Burst int `json:"burst"`
}

// Metrics configures the optional Pushgateway backend. An empty URL disables
// metric pushing.
type Metrics struct {
	PushgatewayURL string `json:"pushgateway_url"`
	Job            string `json:"job"`
}

// Secrets holds credentials read from the environment rather than run files.
type Secrets struct {
	WeatherAPIKey string `envconfig:"WEATHER_API_KEY"`
	NewsAPIKey    string `envconfig:"NEWS_API_KEY"`
}

// Load reads a run file, decodes it strictly, and merges environment secrets.
// Environment keys win over keys embedded in the run file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	var sec Secrets
	if err := envconfig.Process("", &sec); err != nil {
		return nil, fmt.Errorf("config: read environment: %w", err)
	}
	if sec.WeatherAPIKey != "" {
		cfg.Enrichment.Weather.APIKey = sec.WeatherAPIKey
	}
	if sec.NewsAPIKey != "" {
		cfg.Enrichment.News.APIKey = sec.NewsAPIKey
	}

	return &cfg, nil
}
