package service

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/storage"
)

func generatedClass(t *testing.T, id string) *scheduler.Class {
	t.Helper()
	school, err := BuildSchool(sampleProject())
	require.NoError(t, err)
	class, ok := school.Class(id)
	require.True(t, ok)
	school.GenerateTimetable(class, rand.New(rand.NewSource(21)))
	return class
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	svc := NewExportService(store, zap.NewNop(), nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 7, 15, 8, 30, 0, 0, time.UTC) }
	return svc, store
}

func TestExportServiceRenderCSV(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	class := generatedClass(t, "7A")

	result, err := svc.Render(class, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "timetable_7A_20240715_083000.csv", result.Filename)

	var rows []dto.ExportRow
	require.NoError(t, gocsv.Unmarshal(bytes.NewReader(result.Payload), &rows))
	require.NotEmpty(t, rows)
	assert.Equal(t, dto.ExportRow{Class: "7A", Day: "Mon", Period: 1, Width: 2, Subject: "Science", Teacher: "T3", Locked: true}, rows[0])

	widths := map[string]int{}
	for _, row := range rows {
		widths[row.Day] += row.Width
	}
	for _, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri"} {
		assert.Equal(t, 6, widths[day], day)
	}
}

func TestExportServiceRenderPDFAndStore(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	class := generatedClass(t, "7B")

	result, err := svc.Render(class, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Payload, []byte("%PDF")))

	name, err := svc.Store(result)
	require.NoError(t, err)
	written, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, result.Payload, written)
}

func TestExportServiceGridDataset(t *testing.T) {
	class := generatedClass(t, "7A")
	data := gridDataset(class)

	assert.Equal(t, []string{"Period", "Mon", "Tue", "Wed", "Thu", "Fri"}, data.Headers)
	require.Len(t, data.Rows, 6)
	assert.Equal(t, "Science (T3)", data.Rows[0]["Mon"])
	assert.Equal(t, "Science (T3)", data.Rows[1]["Mon"])
	assert.Equal(t, "Break", data.Rows[2]["Tue"])
	assert.True(t, data.Muted["Break"])
	assert.Equal(t, fmt.Sprintf("7A - %d unplaced", len(class.Timetable().Remainder)), data.Footer)
}

func TestExportServiceStoreWithoutStorage(t *testing.T) {
	svc := NewExportService(nil, nil, nil, nil)
	_, err := svc.Store(&ExportResult{Filename: "x.csv"})
	requireAppErrorCode(t, err, appErrors.ErrPreconditionFailed.Code)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "na", sanitizeFilename(""))
	assert.Equal(t, "X_IPA-1", sanitizeFilename("X IPA/1"))
}
