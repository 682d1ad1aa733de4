// Package datasource abstracts where raw input bytes come from, so the
// pipeline can read local CSV files today and other locations later without
// touching parsing code.
package datasource

import (
	"context"
	"io"
)

// Source yields a readable stream of raw input data.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
