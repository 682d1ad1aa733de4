// Package storage defines the persistence boundary of the pipeline and a
// factory over its concrete backends. The core never writes files or talks
// to databases directly; it hands finished tables to a Repository. Unlike
// the fail-soft transformations, persistence errors are fatal: a run that
// cannot write its outputs stops.
package storage

import (
	"context"
	"fmt"

	"github.com/h0157/supply-chain-risk-dashboard/internal/storage/csvfile"
	"github.com/h0157/supply-chain-risk-dashboard/internal/storage/postgres"
	"github.com/h0157/supply-chain-risk-dashboard/internal/storage/sqlite"
	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// Repository persists finished tables under a dataset name with a stable
// column order.
type Repository interface {
	Save(ctx context.Context, name string, columns []string, rows []records.Record) error
	Close() error
}

// Config selects and configures a storage backend.
type Config struct {
	// Kind selects the backend: "csv" (default), "sqlite", or "postgres".
	Kind string `json:"kind"`

	CSV      csvfile.Config  `json:"csv"`
	SQLite   sqlite.Config   `json:"sqlite"`
	Postgres postgres.Config `json:"postgres"`
}

// New constructs the configured Repository.
func New(ctx context.Context, cfg Config) (Repository, error) {
	switch cfg.Kind {
	case "", "csv":
		return csvfile.NewRepository(cfg.CSV)
	case "sqlite":
		return sqlite.NewRepository(ctx, cfg.SQLite)
	case "postgres":
		return postgres.NewRepository(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Kind)
	}
}
