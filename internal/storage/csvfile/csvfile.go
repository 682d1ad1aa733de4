// Package csvfile persists tables as CSV files with stable column headers,
// one file per dataset name. This is the pipeline's default output format.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// Config holds CSV sink configuration.
type Config struct {
	// Dir is the directory output files are written into. It is created if
	// absent.
	Dir string `json:"dir"`
}

// Repository writes each saved table to <dir>/<name>.csv.
type Repository struct {
	dir string
}

// NewRepository validates the configuration and ensures the output directory
// exists.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("csvfile: output dir must not be empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("csvfile: create output dir: %w", err)
	}
	return &Repository{dir: cfg.Dir}, nil
}

// Save writes rows under the given column order. Missing values render as
// empty cells; dates render in date-only form.
func (r *Repository) Save(ctx context.Context, name string, columns []string, rows []records.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(columns) == 0 {
		return fmt.Errorf("csvfile: no columns for table %q", name)
	}

	path := filepath.Join(r.dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csvfile: create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		f.Close()
		return fmt.Errorf("csvfile: write header: %w", err)
	}

	cells := make([]string, len(columns))
	for _, rec := range rows {
		for i, col := range columns {
			cells[i] = records.AsString(rec[col])
		}
		if err := w.Write(cells); err != nil {
			f.Close()
			return fmt.Errorf("csvfile: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("csvfile: flush %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csvfile: close %s: %w", path, err)
	}
	return nil
}

// Close implements storage.Repository; the CSV sink holds no resources
// between saves.
func (r *Repository) Close() error { return nil }
