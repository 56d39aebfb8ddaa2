package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func newProjectMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProjectRepositorySaveAndGet(t *testing.T) {
	db, mock, cleanup := newProjectMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectExec("INSERT INTO timetable_projects").
		WithArgs(sqlmock.AnyArg(), "Term 1", sqlmock.AnyArg(), 0, sqlmock.AnyArg(), sqlmock.AnyArg(), 0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.ProjectRecord{Name: "Term 1", Document: types.JSONText(`{"name":"Term 1"}`)}
	require.NoError(t, repo.Save(context.Background(), record))
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, 1, record.Version)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "document", "version", "created_at", "updated_at"}).
		AddRow(record.ID, "Term 1", `{"name":"Term 1"}`, 1, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, document, version, created_at, updated_at FROM timetable_projects WHERE id = $1")).
		WithArgs(record.ID).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Term 1", got.Name)
	assert.JSONEq(t, `{"name":"Term 1"}`, string(got.Document))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositorySaveVersionConflict(t *testing.T) {
	db, mock, cleanup := newProjectMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectExec("INSERT INTO timetable_projects").
		WillReturnResult(sqlmock.NewResult(0, 0))

	record := &models.ProjectRecord{ID: "p-1", Name: "Term 1", Version: 3}
	err := repo.Save(context.Background(), record)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 3, record.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepositoryGetNotFound(t *testing.T) {
	db, mock, cleanup := newProjectMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectQuery("SELECT id, name, document").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), "missing")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestProjectRepositoryListAndDelete(t *testing.T) {
	db, mock, cleanup := newProjectMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)
	var labels []string
	repo.SetQueryObserver(func(label string, _ time.Duration) { labels = append(labels, label) })

	now := time.Now()
	mock.ExpectQuery("SELECT id, name, version, updated_at FROM timetable_projects").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "version", "updated_at"}).
			AddRow("p-2", "Term 2", 4, now).
			AddRow("p-1", "Term 1", 1, now.Add(-time.Hour)))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p-2", list[0].ID)

	mock.ExpectExec("DELETE FROM timetable_projects").
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "p-1"))

	mock.ExpectExec("DELETE FROM timetable_projects").
		WithArgs("p-9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.Error(t, repo.Delete(context.Background(), "p-9"))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, []string{"project_list", "project_delete", "project_delete"}, labels)
}

func TestProjectRepositoryEnsureSchema(t *testing.T) {
	db, mock, cleanup := newProjectMock(t)
	defer cleanup()
	repo := NewProjectRepository(db)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS timetable_projects").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, repo.EnsureSchema(context.Background()))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS timetable_projects").
		WillReturnError(errors.New("permission denied"))
	err := repo.EnsureSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
