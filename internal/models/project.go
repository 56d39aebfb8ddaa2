package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ProjectRecord is a persisted timetable project. Document holds the JSON encoded project.
type ProjectRecord struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Document  types.JSONText `db:"document" json:"document"`
	Version   int            `db:"version" json:"version"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// ProjectSummary is the list view of a persisted project.
type ProjectSummary struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Version   int       `db:"version" json:"version"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
