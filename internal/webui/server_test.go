package webui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/h0157/supply-chain-risk-dashboard/internal/pipeline"
)

func testSummary() *pipeline.Summary {
	return &pipeline.Summary{
		Job: "test-run",
		Supplier: pipeline.DatasetSummary{
			RowsIn:  3,
			RowsOut: 2,
		},
		Tables:   []string{"cleaned_supplier_data"},
		Started:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Duration: 90 * time.Millisecond,
	}
}

func TestIndexRendersSummary(t *testing.T) {
	srv := NewServer(Config{}, testSummary())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"test-run", "cleaned_supplier_data", "/api/summary"} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
}

func TestAPISummary(t *testing.T) {
	srv := NewServer(Config{}, testSummary())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got pipeline.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Job != "test-run" || got.Supplier.RowsIn != 3 {
		t.Errorf("summary = %+v", got)
	}
}

func TestTableServing(t *testing.T) {
	dir := t.TempDir()
	content := "a,b\n1,2\n"
	if err := os.WriteFile(filepath.Join(dir, "cleaned_supplier_data.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	srv := NewServer(Config{TableDir: dir}, testSummary())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tables/cleaned_supplier_data", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != content {
		t.Errorf("body = %q, want %q", rec.Body.String(), content)
	}

	// Only tables the run produced are served.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tables/unknown_table", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown table status = %d, want 404", rec.Code)
	}
}
