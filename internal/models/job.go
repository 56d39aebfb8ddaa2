package models

import "time"

// JobStatus tracks the lifecycle of a generation job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// JobScope distinguishes single-class from whole-school generation.
type JobScope string

const (
	JobScopeClass  JobScope = "CLASS"
	JobScopeSchool JobScope = "SCHOOL"
)

// GenerationJob is the externally visible state of a generation job.
type GenerationJob struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	ClassID    string     `json:"class_id,omitempty"`
	Scope      JobScope   `json:"scope"`
	Status     JobStatus  `json:"status"`
	Placed     int        `json:"placed"`
	Total      int        `json:"total"`
	Error      string     `json:"error,omitempty"`
	RequestID  string     `json:"request_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
