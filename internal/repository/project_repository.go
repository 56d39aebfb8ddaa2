package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable/internal/models"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// ProjectRepository persists timetable projects as JSONB documents.
type ProjectRepository struct {
	db       *sqlx.DB
	observer func(label string, duration time.Duration)
}

// NewProjectRepository constructs the repository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// SetQueryObserver registers a callback receiving the duration of every query.
func (r *ProjectRepository) SetQueryObserver(observer func(label string, duration time.Duration)) {
	r.observer = observer
}

func (r *ProjectRepository) observe(label string, start time.Time) {
	if r.observer != nil {
		r.observer(label, time.Since(start))
	}
}

const projectSchema = `CREATE TABLE IF NOT EXISTS timetable_projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	document    JSONB NOT NULL DEFAULT '{}'::jsonb,
	version     INTEGER NOT NULL DEFAULT 1,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_timetable_projects_updated_at ON timetable_projects (updated_at DESC)`

// EnsureSchema creates the projects table when it does not exist yet.
func (r *ProjectRepository) EnsureSchema(ctx context.Context) error {
	defer r.observe("project_schema", time.Now())
	if _, err := r.db.ExecContext(ctx, projectSchema); err != nil {
		return fmt.Errorf("ensure project schema: %w", err)
	}
	return nil
}

// Get returns a stored project by id.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*models.ProjectRecord, error) {
	defer r.observe("project_get", time.Now())
	const query = `SELECT id, name, document, version, created_at, updated_at FROM timetable_projects WHERE id = $1`
	var record models.ProjectRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &record, nil
}

// List returns summaries of every stored project, most recently updated first.
func (r *ProjectRepository) List(ctx context.Context) ([]models.ProjectSummary, error) {
	defer r.observe("project_list", time.Now())
	const query = `SELECT id, name, version, updated_at FROM timetable_projects ORDER BY updated_at DESC, id`
	var summaries []models.ProjectSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return summaries, nil
}

// Save inserts the project or replaces the stored document. The stored version must equal
// record.Version for an update to apply; on success record.Version is incremented.
func (r *ProjectRepository) Save(ctx context.Context, record *models.ProjectRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if len(record.Document) == 0 {
		record.Document = []byte("{}")
	}

	defer r.observe("project_save", time.Now())
	const query = `INSERT INTO timetable_projects (id, name, document, version, created_at, updated_at)
		VALUES (:id, :name, :document, :version + 1, :created_at, :updated_at)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    document = EXCLUDED.document,
		    version = timetable_projects.version + 1,
		    updated_at = EXCLUDED.updated_at
		WHERE timetable_projects.version = :version`
	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save project rows affected: %w", err)
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrConflict, "project was modified concurrently")
	}
	record.Version++
	return nil
}

// Delete removes a stored project.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	defer r.observe("project_delete", time.Now())
	const query = `DELETE FROM timetable_projects WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "project not found")
	}
	return nil
}
