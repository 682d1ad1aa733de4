// Package csv parses the pipeline's tabular inputs into records. It keeps
// whole tables in memory (inputs are small, and the cleaning steps operate on
// full tables), normalizes headers into canonical snake_case column names,
// and soft-fails malformed rows rather than aborting the run.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

// Options configures the CSV parser. All fields are optional; sensible
// defaults are applied when a field is zero.
type Options struct {
	// Comma specifies the field delimiter. When zero, ',' is used.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each field value.
	TrimSpace bool

	// HeaderMap maps source header names to canonical keys before the
	// default normalization applies (e.g. localized headers to snake_case).
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs, but Parser itself is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Table is a parsed input: rows keyed by canonical column name, plus the
// column order the source declared. The order is what the output writers use
// for stable headers.
type Table struct {
	Columns []string
	Rows    []records.Record

	// Skipped counts body rows dropped for parse errors or width mismatches.
	Skipped int
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// maximum number of skipped rows to log individually
const skipLogLimit = 50

// Parse consumes CSV records from r. The first row is the header; body rows
// whose width does not match the header, or which fail to parse, are skipped
// softly and counted. Empty cells become nil (missing).
func (p *Parser) Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // width is enforced below, softly

	h, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	headers := normalizeHeaders(h, p.opt)

	t := &Table{Columns: headers}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if t.Skipped < skipLogLimit {
				log.Printf("csv: skipping row %d: %v", line, err)
			}
			t.Skipped++
			continue
		}
		if len(row) != len(headers) {
			if t.Skipped < skipLogLimit {
				log.Printf("csv: skipping row %d: expected %d fields, got %d", line, len(headers), len(row))
			}
			t.Skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			rec[headers[i]] = emptyToNil(val)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// emptyToNil converts an empty string to nil; all other values pass through.
func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// normalizeHeaders produces canonical header keys using HeaderMap (when
// provided) and simple normalization (lowercase, spaces to underscores). It
// also strips a UTF-8 BOM from the first cell if present.
func normalizeHeaders(h []string, opt Options) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if opt.HeaderMap != nil {
			if m, ok := opt.HeaderMap[c]; ok {
				res[i] = m
				continue
			}
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
