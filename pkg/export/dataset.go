// Package export renders tabular datasets as CSV, PDF or XLSX documents.
package export

import "errors"

// ErrNoHeaders is returned when a dataset has no columns.
var ErrNoHeaders = errors.New("export: dataset has no headers")

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Record returns row i in header order.
func (d Dataset) Record(i int) []string {
	record := make([]string, len(d.Headers))
	for j, h := range d.Headers {
		record[j] = d.Rows[i][h]
	}
	return record
}

func (d Dataset) validate() error {
	if len(d.Headers) == 0 {
		return ErrNoHeaders
	}
	return nil
}
