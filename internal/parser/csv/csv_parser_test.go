package csv

import (
	"reflect"
	"strings"
	"testing"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

func TestParseBasic(t *testing.T) {
	t.Parallel()

	in := "\ufeffSupplier Name,On Time Delivery,Order Date\nAcme,91,2024-01-02\nBolt,,2024-01-03\n"
	tbl, err := NewParser(Options{TrimSpace: true}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	wantCols := []string{"supplier_name", "on_time_delivery", "order_date"}
	if !reflect.DeepEqual(tbl.Columns, wantCols) {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, wantCols)
	}
	wantRows := []records.Record{
		{"supplier_name": "Acme", "on_time_delivery": "91", "order_date": "2024-01-02"},
		{"supplier_name": "Bolt", "on_time_delivery": nil, "order_date": "2024-01-03"},
	}
	if !reflect.DeepEqual(tbl.Rows, wantRows) {
		t.Fatalf("Rows = %#v, want %#v", tbl.Rows, wantRows)
	}
}

func TestParseSkipsBadWidthRows(t *testing.T) {
	t.Parallel()

	in := "a,b\n1,2\nonly-one-field\n3,4\n"
	tbl, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Skipped != 1 {
		t.Fatalf("rows = %d, skipped = %d, want 2 and 1", len(tbl.Rows), tbl.Skipped)
	}
}

func TestParseHeaderMap(t *testing.T) {
	t.Parallel()

	in := "Ursprungsland,Tage\nDE,4\n"
	tbl, err := NewParser(Options{HeaderMap: map[string]string{
		"Ursprungsland": "origin_country",
		"Tage":          "transit_time_days",
	}}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"origin_country", "transit_time_days"}
	if !reflect.DeepEqual(tbl.Columns, want) {
		t.Fatalf("Columns = %v, want %v", tbl.Columns, want)
	}
}

func TestParseHeaderError(t *testing.T) {
	t.Parallel()

	if _, err := NewParser(Options{}).Parse(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty input")
	}
}
