package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/export"
)

// ExportFormat selects the rendered representation of a timetable.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(rows interface{}) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportResult is a rendered timetable.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders class timetables into CSV and PDF files.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService constructs an ExportService. storage may be nil when results are only
// streamed back to the caller.
func NewExportService(storage fileStorage, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{storage: storage, csv: csv, pdf: pdf, logger: logger, now: time.Now}
}

// Render builds the export of one class timetable.
func (s *ExportService) Render(class *scheduler.Class, format ExportFormat) (*ExportResult, error) {
	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		rows := exportRows(class)
		payload, err = s.csv.Render(&rows)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(gridDataset(class), fmt.Sprintf("%s timetable", displayName(class)))
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export for class %s: %w", format, class.ID, err)
	}
	return &ExportResult{Filename: s.buildFilename(class, format), ContentType: contentType, Payload: payload}, nil
}

// Store writes a rendered export through the configured storage and returns its path.
func (s *ExportService) Store(result *ExportResult) (string, error) {
	if s.storage == nil {
		return "", appErrors.Clone(appErrors.ErrPreconditionFailed, "export storage is not configured")
	}
	path, err := s.storage.Save(result.Filename, result.Payload)
	if err != nil {
		return "", err
	}
	s.logger.Info("timetable exported", zap.String("file", path), zap.Int("bytes", len(result.Payload)))
	return path, nil
}

func (s *ExportService) buildFilename(class *scheduler.Class, format ExportFormat) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	return fmt.Sprintf("timetable_%s_%s.%s", sanitizeFilename(class.ID), timestamp, format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func displayName(class *scheduler.Class) string {
	if class.Name != "" {
		return class.Name
	}
	return class.ID
}

func exportRows(class *scheduler.Class) []dto.ExportRow {
	tt := class.Timetable()
	var rows []dto.ExportRow
	for day, entries := range tt.Table {
		start := 0
		for _, e := range entries {
			rows = append(rows, dto.ExportRow{
				Class:   class.ID,
				Day:     tt.WeekInfo[day].Name,
				Period:  start + 1,
				Width:   e.Total,
				Subject: e.Name,
				Teacher: teacherID(e),
				Locked:  e.Locked(),
			})
			start += e.Total
		}
	}
	return rows
}

// gridDataset lays the week out with one row per period and one column per weekday.
func gridDataset(class *scheduler.Class) export.Dataset {
	tt := class.Timetable()
	headers := []string{"Period"}
	longest := 0
	for _, info := range tt.WeekInfo {
		headers = append(headers, info.Name)
		longest = max(longest, info.Periods)
	}
	data := export.Dataset{
		Headers: headers,
		Muted:   map[string]bool{scheduler.BreakName: true, scheduler.FreeName: true},
		Footer:  fmt.Sprintf("%s - %d unplaced", class.ID, len(tt.Remainder)),
	}
	for period := 0; period < longest; period++ {
		row := map[string]string{"Period": strconv.Itoa(period + 1)}
		for day, info := range tt.WeekInfo {
			entry, _ := tt.EntryAt(day, period)
			if entry == nil {
				continue
			}
			cell := entry.Name
			if id := teacherID(entry); id != "" {
				cell = fmt.Sprintf("%s (%s)", cell, id)
			}
			row[info.Name] = cell
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}
