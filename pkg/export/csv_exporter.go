package export

import (
	"fmt"
	"reflect"

	"github.com/gocarina/gocsv"
)

// CSVExporter renders slices of csv-tagged structs into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for rows, which must be a slice of structs (or pointers to
// structs) carrying `csv` tags. The header row is emitted even when rows is empty.
func (e *CSVExporter) Render(rows interface{}) ([]byte, error) {
	if rows == nil {
		return nil, fmt.Errorf("csv requires a slice of rows")
	}
	if kind := reflect.TypeOf(rows).Kind(); kind != reflect.Slice && kind != reflect.Ptr {
		return nil, fmt.Errorf("csv requires a slice of rows, got %s", kind)
	}
	out, err := gocsv.MarshalBytes(rows)
	if err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return out, nil
}
