package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewRepository(context.Background(), Config{DSN: dsn})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	cols := []string{"supplier_name", "on_time_delivery", "order_date"}
	rows := []records.Record{
		{"supplier_name": "Acme Corp", "on_time_delivery": int64(91), "order_date": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"supplier_name": "Bolt Ltd", "on_time_delivery": int64(14), "order_date": nil},
	}
	if err := repo.Save(context.Background(), "cleaned_supplier_data", cols, rows); err != nil {
		t.Fatalf("Save: %v", err)
	}

	var count int
	if err := repo.db.QueryRow("SELECT COUNT(*) FROM cleaned_supplier_data").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("row count = %d, want 2", count)
	}

	var name string
	var delivery int64
	var date sql.NullString
	err := repo.db.QueryRow(
		"SELECT supplier_name, on_time_delivery, order_date FROM cleaned_supplier_data WHERE supplier_name = 'Acme Corp'",
	).Scan(&name, &delivery, &date)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if delivery != 91 {
		t.Errorf("on_time_delivery = %d, want 91", delivery)
	}
	if !date.Valid || date.String != "2024-01-02" {
		t.Errorf("order_date = %+v, want 2024-01-02", date)
	}
}

func TestSaveReplacesExistingTable(t *testing.T) {
	repo := newTestRepo(t)

	cols := []string{"origin_country", "weather_risk"}
	first := []records.Record{
		{"origin_country": "United States", "weather_risk": 0.2},
		{"origin_country": "Germany", "weather_risk": 0.8},
	}
	if err := repo.Save(context.Background(), "enrichment", cols, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second := []records.Record{{"origin_country": "India", "weather_risk": 0.7}}
	if err := repo.Save(context.Background(), "enrichment", cols, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	var count int
	if err := repo.db.QueryRow("SELECT COUNT(*) FROM enrichment").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("row count after replace = %d, want 1", count)
	}
}

func TestNewRepositoryEmptyDSN(t *testing.T) {
	if _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
