package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Dataset defines tabular export content. When Muted is set, cells whose value is listed
// are shaded; Footer is printed under the table.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Muted   map[string]bool
	Footer  string
}

const (
	leadColumnWidth = 18.0
	rowHeight       = 9.0
)

// PDFExporter renders a dataset as a grid: the first header is a narrow label column and
// the remaining headers share the page width.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	orientation, width := "P", 190.0
	if len(data.Headers) > 6 {
		orientation, width = "L", 277.0
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	widths := columnWidths(len(data.Headers), width)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	for i, header := range data.Headers {
		pdf.CellFormat(widths[i], rowHeight, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetFillColor(240, 240, 240)
	for _, row := range data.Rows {
		for i, header := range data.Headers {
			value := row[header]
			align := "L"
			if i == 0 {
				align = "C"
			}
			pdf.CellFormat(widths[i], rowHeight, value, "1", 0, align, data.Muted[value], 0, "")
		}
		pdf.Ln(-1)
	}

	if data.Footer != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, data.Footer, "", 1, "R", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(columns int, total float64) []float64 {
	widths := make([]float64, columns)
	if columns == 1 {
		widths[0] = total
		return widths
	}
	widths[0] = leadColumnWidth
	rest := (total - leadColumnWidth) / float64(columns-1)
	for i := 1; i < columns; i++ {
		widths[i] = rest
	}
	return widths
}
