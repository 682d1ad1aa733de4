package builtin

import (
	"reflect"
	"testing"

	"github.com/h0157/supply-chain-risk-dashboard/pkg/records"
)

func TestDropExactDuplicatesKeepsFirst(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"supplier_name": "Acme", "on_time_delivery": "91"},
		{"supplier_name": "Bolt", "on_time_delivery": "88"},
		{"supplier_name": "Acme", "on_time_delivery": "91"},
		{"supplier_name": "Acme", "on_time_delivery": "90"},
	}
	out, removed := DropExactDuplicates(in)

	want := []records.Record{
		{"supplier_name": "Acme", "on_time_delivery": "91"},
		{"supplier_name": "Bolt", "on_time_delivery": "88"},
		{"supplier_name": "Acme", "on_time_delivery": "90"},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("got %#v, want %#v", out, want)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
}

func TestDropExactDuplicatesNilVsEmpty(t *testing.T) {
	t.Parallel()

	// A missing value and an empty string are different rows.
	in := []records.Record{{"a": nil}, {"a": ""}}
	out, removed := DropExactDuplicates(in)
	if len(out) != 2 || removed != 0 {
		t.Fatalf("len = %d, removed = %d, want 2 and 0", len(out), removed)
	}
}

func TestDropExactDuplicatesEmptyInput(t *testing.T) {
	t.Parallel()

	out, removed := DropExactDuplicates(nil)
	if len(out) != 0 || removed != 0 {
		t.Fatalf("len = %d, removed = %d, want 0 and 0", len(out), removed)
	}
}
