package models

import "time"

// SystemMetrics is a point-in-time summary of service instrumentation.
type SystemMetrics struct {
	QueuePending             int       `json:"queue_pending"`
	QueueRunning             int64     `json:"queue_running"`
	JobsProcessed            uint64    `json:"jobs_processed"`
	JobsFailed               uint64    `json:"jobs_failed"`
	Generations              uint64    `json:"generations"`
	BestEffortGenerations    uint64    `json:"best_effort_generations"`
	TeacherClashes           int       `json:"teacher_clashes"`
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
