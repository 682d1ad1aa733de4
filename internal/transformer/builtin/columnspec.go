package builtin

import "github.com/h0157/supply-chain-risk-dashboard/pkg/records"

// ColumnSpec declares which columns of a table the cleaning steps treat as
// numeric, categorical, or date-valued. It is pure configuration; columns
// named here but absent from the table are skipped uniformly by every step.
type ColumnSpec struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
	Date        []string `json:"date"`
}

// columnPresent reports whether any record in the table carries the column.
// A table parsed from CSV has a uniform column set, so checking the first
// record would suffice, but transformers should not assume their input came
// from the parser.
func columnPresent(in []records.Record, col string) bool {
	for _, r := range in {
		if _, ok := r[col]; ok {
			return true
		}
	}
	return false
}
