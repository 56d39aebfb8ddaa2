package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
	"github.com/noah-isme/sma-timetable/pkg/jobs"
	"github.com/noah-isme/sma-timetable/pkg/middleware/requestid"
)

const (
	jobTypeGenerateClass  = "timetable.generate_class"
	jobTypeGenerateSchool = "timetable.generate_school"
)

// ProjectStore persists project documents.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*models.ProjectRecord, error)
	List(ctx context.Context) ([]models.ProjectSummary, error)
	Save(ctx context.Context, record *models.ProjectRecord) error
}

// TimetableConfig tunes generation.
type TimetableConfig struct {
	MaxAttempts int
	// Seed makes job random sources deterministic when non-zero.
	Seed      int64
	Workers   int
	QueueSize int
	CacheTTL  time.Duration
}

type projectState struct {
	mu      sync.RWMutex
	base    dto.Project
	school  *scheduler.School
	version int

	jobsMu    sync.Mutex
	schoolJob string
	classJobs map[string]string
}

// busy reports whether classID (or, with an empty id, any class) has a job queued or running.
func (p *projectState) busy(classID string) bool {
	p.jobsMu.Lock()
	defer p.jobsMu.Unlock()
	if p.schoolJob != "" {
		return true
	}
	if classID == "" {
		return len(p.classJobs) > 0
	}
	_, ok := p.classJobs[classID]
	return ok
}

type jobState struct {
	mu         sync.RWMutex
	job        models.GenerationJob
	timetables []*scheduler.Timetable
}

func (j *jobState) snapshot() models.GenerationJob {
	j.mu.RLock()
	defer j.mu.RUnlock()
	job := j.job
	if job.Status == models.JobStatusRunning {
		job.Placed, job.Total = 0, 0
		for _, tt := range j.timetables {
			placed, total := tt.Progress()
			job.Placed += placed
			job.Total += total
		}
	}
	return job
}

type generationPayload struct {
	ProjectID string
	ClassID   string
}

// TimetableService owns the in-memory schools of imported projects, runs generation jobs on a
// worker queue and applies manual edits.
type TimetableService struct {
	store     ProjectStore
	cache     *CacheService
	metrics   *MetricsService
	exporter  *ExportService
	validator *validator.Validate
	logger    *zap.Logger
	queue     *jobs.Queue
	cfg       TimetableConfig

	mu       sync.Mutex
	projects map[string]*projectState
	jobs     map[string]*jobState
	seq      atomic.Int64
	now      func() time.Time
}

// NewTimetableService constructs the service. store, cache and metrics may be nil.
func NewTimetableService(store ProjectStore, cache *CacheService, metrics *MetricsService, exporter *ExportService, validate *validator.Validate, logger *zap.Logger, cfg TimetableConfig) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = NewExportService(nil, logger, nil, nil)
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = scheduler.MaxAttempts
	}
	s := &TimetableService{
		store:     store,
		cache:     cache,
		metrics:   metrics,
		exporter:  exporter,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		projects:  make(map[string]*projectState),
		jobs:      make(map[string]*jobState),
		now:       time.Now,
	}
	s.queue = jobs.NewQueue("timetable-generation", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.QueueSize,
		MaxRetries: 1,
		Logger:     logger,
	})
	metrics.TrackQueue("timetable-generation", s.queue.Stats)
	return s
}

// Start launches the generation workers.
func (s *TimetableService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop waits for the generation workers to exit.
func (s *TimetableService) Stop() {
	s.queue.Stop()
}

// Import builds a school from a project document and registers it.
func (s *TimetableService) Import(ctx context.Context, project dto.Project) (*dto.Project, error) {
	if err := s.validator.Struct(project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid project payload")
	}
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	school, err := BuildSchool(project, scheduler.WithMaxAttempts(s.cfg.MaxAttempts))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, exists := s.projects[project.ID]; exists {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrConflict, "project already loaded")
	}
	state := &projectState{base: project, school: school, classJobs: make(map[string]string)}
	s.projects[project.ID] = state
	s.mu.Unlock()

	s.logger.Info("project imported",
		zap.String("project_id", project.ID),
		zap.Int("classes", len(school.Classes())),
		zap.Int("teachers", len(school.Teachers())),
	)
	snapshot := s.snapshot(state)
	return &snapshot, nil
}

// Project returns the current state of a project as a document.
func (s *TimetableService) Project(ctx context.Context, id string) (*dto.Project, error) {
	state, err := s.state(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot := s.snapshot(state)
	return &snapshot, nil
}

func (s *TimetableService) snapshot(state *projectState) dto.Project {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return SnapshotProject(state.school, state.base)
}

// List returns stored projects, or the loaded ones when persistence is disabled.
func (s *TimetableService) List(ctx context.Context) ([]models.ProjectSummary, error) {
	if s.store != nil {
		return s.store.List(ctx)
	}
	s.mu.Lock()
	summaries := make([]models.ProjectSummary, 0, len(s.projects))
	for id, state := range s.projects {
		state.mu.RLock()
		summaries = append(summaries, models.ProjectSummary{ID: id, Name: state.base.Name, Version: state.version})
		state.mu.RUnlock()
	}
	s.mu.Unlock()
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// Save persists the current snapshot of a project.
func (s *TimetableService) Save(ctx context.Context, id string) (*dto.ProjectSaved, error) {
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "project persistence is disabled")
	}
	state, err := s.state(ctx, id)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	document, err := json.Marshal(SnapshotProject(state.school, state.base))
	if err != nil {
		return nil, fmt.Errorf("marshal project %s: %w", id, err)
	}
	record := &models.ProjectRecord{ID: id, Name: state.base.Name, Document: document, Version: state.version}
	if err := s.store.Save(ctx, record); err != nil {
		return nil, err
	}
	state.version = record.Version
	s.logger.Info("project saved", zap.String("project_id", id), zap.Int("version", record.Version))
	return &dto.ProjectSaved{ID: id, Version: record.Version}, nil
}

// state returns a loaded project, loading it from the store on first use.
func (s *TimetableService) state(ctx context.Context, id string) (*projectState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.projects[id]; ok {
		return state, nil
	}
	if s.store == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
	}
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var project dto.Project
	if err := json.Unmarshal(record.Document, &project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored project is corrupt")
	}
	project.ID = record.ID
	school, err := BuildSchool(project, scheduler.WithMaxAttempts(s.cfg.MaxAttempts))
	if err != nil {
		return nil, err
	}
	state := &projectState{base: project, school: school, version: record.Version, classJobs: make(map[string]string)}
	s.projects[id] = state
	return state, nil
}

func (s *TimetableService) class(state *projectState, classID string) (*scheduler.Class, error) {
	class, ok := state.school.Class(classID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return class, nil
}

// Timetable returns the placed grid of a class.
func (s *TimetableService) Timetable(ctx context.Context, projectID, classID string) (*dto.TimetableView, bool, error) {
	key := TimetableCacheKey(projectID, classID)
	var cached dto.TimetableView
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	state, err := s.state(ctx, projectID)
	if err != nil {
		return nil, false, err
	}
	state.mu.RLock()
	class, err := s.class(state, classID)
	if err != nil {
		state.mu.RUnlock()
		return nil, false, err
	}
	view := buildTimetableView(projectID, state.school, class)
	// Cached before the read lock is released so a concurrent edit or job invalidates it.
	_ = s.cache.Set(ctx, key, view, s.cfg.CacheTTL)
	state.mu.RUnlock()
	return &view, false, nil
}

// Remainder lists the unplaced periods of a class.
func (s *TimetableService) Remainder(ctx context.Context, projectID, classID string) ([]dto.RemainderItem, error) {
	state, err := s.state(ctx, projectID)
	if err != nil {
		return nil, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()
	class, err := s.class(state, classID)
	if err != nil {
		return nil, err
	}
	return buildRemainder(class), nil
}

// Clashes reports every teacher clash across the committed timetables of a project.
func (s *TimetableService) Clashes(ctx context.Context, projectID string) ([]dto.ClashItem, error) {
	state, err := s.state(ctx, projectID)
	if err != nil {
		return nil, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()
	return buildClashes(state.school), nil
}

// GenerateClass queues generation of one class.
func (s *TimetableService) GenerateClass(ctx context.Context, projectID, classID string) (*models.GenerationJob, error) {
	state, err := s.state(ctx, projectID)
	if err != nil {
		return nil, err
	}
	class, ok := state.school.Class(classID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return s.enqueue(ctx, state, projectID, models.JobScopeClass, []*scheduler.Class{class})
}

// GenerateSchool queues regeneration of every class of a project.
func (s *TimetableService) GenerateSchool(ctx context.Context, projectID string) (*models.GenerationJob, error) {
	state, err := s.state(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return s.enqueue(ctx, state, projectID, models.JobScopeSchool, state.school.Classes())
}

func (s *TimetableService) enqueue(ctx context.Context, state *projectState, projectID string, scope models.JobScope, classes []*scheduler.Class) (*models.GenerationJob, error) {
	job := &jobState{job: models.GenerationJob{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Scope:     scope,
		Status:    models.JobStatusQueued,
		RequestID: requestid.FromContext(ctx),
		CreatedAt: s.now().UTC(),
	}}
	for _, c := range classes {
		job.timetables = append(job.timetables, c.Timetable())
		job.job.Total += c.Timetable().TotalPeriods()
	}
	if scope == models.JobScopeClass {
		job.job.ClassID = classes[0].ID
	}

	state.jobsMu.Lock()
	inFlight := state.schoolJob != ""
	if scope == models.JobScopeSchool {
		inFlight = inFlight || len(state.classJobs) > 0
	} else if _, ok := state.classJobs[job.job.ClassID]; ok {
		inFlight = true
	}
	if inFlight {
		state.jobsMu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrJobInFlight, "")
	}
	if scope == models.JobScopeSchool {
		state.schoolJob = job.job.ID
	} else {
		state.classJobs[job.job.ClassID] = job.job.ID
	}
	state.jobsMu.Unlock()

	s.mu.Lock()
	s.jobs[job.job.ID] = job
	s.mu.Unlock()

	payload := generationPayload{ProjectID: projectID, ClassID: job.job.ClassID}
	if err := s.queue.Enqueue(jobs.Job{ID: job.job.ID, Type: jobTypeFor(scope), Payload: payload}); err != nil {
		s.release(state, job.job)
		s.mu.Lock()
		delete(s.jobs, job.job.ID)
		s.mu.Unlock()
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrQueueFull.Code, appErrors.ErrQueueFull.Status, appErrors.ErrQueueFull.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue generation job")
	}
	if s.metrics != nil {
		s.metrics.JobsInFlight(1)
	}
	s.logger.Info("generation job queued",
		zap.String("job_id", job.job.ID),
		zap.String("project_id", projectID),
		zap.String("scope", string(scope)),
		zap.String("request_id", job.job.RequestID),
	)
	snapshot := job.snapshot()
	return &snapshot, nil
}

func jobTypeFor(scope models.JobScope) string {
	if scope == models.JobScopeSchool {
		return jobTypeGenerateSchool
	}
	return jobTypeGenerateClass
}

func (s *TimetableService) release(state *projectState, job models.GenerationJob) {
	state.jobsMu.Lock()
	defer state.jobsMu.Unlock()
	if job.Scope == models.JobScopeSchool {
		state.schoolJob = ""
		return
	}
	delete(state.classJobs, job.ClassID)
}

// Job reports the status and progress of a generation job.
func (s *TimetableService) Job(ctx context.Context, id string) (*models.GenerationJob, error) {
	s.mu.Lock()
	job, ok := s.jobs[id]
	s.mu.Unlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "job not found")
	}
	snapshot := job.snapshot()
	return &snapshot, nil
}

func (s *TimetableService) rng() *rand.Rand {
	n := s.seq.Add(1)
	if s.cfg.Seed != 0 {
		return rand.New(rand.NewSource(s.cfg.Seed + n))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano() + n))
}

// process is the queue handler. Generation outcomes are recorded on the job, so it only
// returns an error for jobs it cannot identify.
func (s *TimetableService) process(ctx context.Context, queued jobs.Job) error {
	payload, ok := queued.Payload.(generationPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", queued.Payload, queued.ID)
	}
	s.mu.Lock()
	job, jobOK := s.jobs[queued.ID]
	state, stateOK := s.projects[payload.ProjectID]
	s.mu.Unlock()
	if !jobOK || !stateOK {
		return fmt.Errorf("job %s references unknown project %s", queued.ID, payload.ProjectID)
	}

	started := s.now().UTC()
	job.mu.Lock()
	job.job.Status = models.JobStatusRunning
	job.job.StartedAt = &started
	job.mu.Unlock()

	err := s.run(state, job, s.rng())
	finished := s.now().UTC()

	// Release the slot and drop stale views before the job reports completion.
	s.release(state, job.job)
	if cacheErr := s.cache.InvalidateProject(ctx, payload.ProjectID); cacheErr != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.String("project_id", payload.ProjectID), zap.Error(cacheErr))
	}
	if s.metrics != nil {
		s.metrics.JobsInFlight(-1)
		s.metrics.ObserveJob(string(job.job.Scope), finished.Sub(started))
	}

	job.mu.Lock()
	job.job.FinishedAt = &finished
	job.job.Placed, job.job.Total = 0, 0
	for _, tt := range job.timetables {
		placed, total := tt.Progress()
		job.job.Placed += placed
		job.job.Total += total
	}
	if err != nil {
		job.job.Status = models.JobStatusFailed
		job.job.Error = err.Error()
	} else {
		job.job.Status = models.JobStatusCompleted
	}
	snapshot := job.job
	job.mu.Unlock()

	if err != nil {
		s.logger.Error("generation job failed", zap.String("job_id", snapshot.ID), zap.String("request_id", snapshot.RequestID), zap.Error(err))
		return nil
	}
	s.logger.Info("generation job completed",
		zap.String("job_id", snapshot.ID),
		zap.String("request_id", snapshot.RequestID),
		zap.Int("placed", snapshot.Placed),
		zap.Int("total", snapshot.Total),
		zap.Duration("duration", finished.Sub(started)),
	)
	return nil
}

// run generates into a scratch school built from a snapshot of the project, so readers are
// only blocked while the result is copied back.
func (s *TimetableService) run(state *projectState, job *jobState, rng *rand.Rand) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation aborted: %v", r)
		}
	}()

	job.mu.RLock()
	current := job.job
	job.mu.RUnlock()

	draft := func() dto.Project {
		state.mu.RLock()
		defer state.mu.RUnlock()
		return SnapshotProject(state.school, state.base)
	}()
	scratch, err := BuildSchool(draft, scheduler.WithMaxAttempts(s.cfg.MaxAttempts))
	if err != nil {
		return fmt.Errorf("prepare generation: %w", err)
	}

	var targets []*scheduler.Class
	if current.Scope == models.JobScopeSchool {
		targets = scratch.Classes()
	} else {
		class, ok := scratch.Class(current.ClassID)
		if !ok {
			return fmt.Errorf("class %s: %w", current.ClassID, scheduler.ErrNotFound)
		}
		targets = []*scheduler.Class{class}
	}
	timetables := make([]*scheduler.Timetable, 0, len(targets))
	for _, class := range targets {
		class.Timetable().Reset()
		timetables = append(timetables, class.Timetable())
	}
	job.mu.Lock()
	job.timetables = timetables
	job.mu.Unlock()

	var results []scheduler.ClassResult
	if current.Scope == models.JobScopeSchool {
		results = scratch.GenerateAll(rng)
	} else {
		results = []scheduler.ClassResult{{Class: targets[0], Result: scratch.GenerateTimetable(targets[0], rng)}}
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	for _, r := range results {
		if err := restoreClass(state.school, snapshotClass(scratch, r.Class)); err != nil {
			return fmt.Errorf("commit class %s: %w", r.Class.ID, err)
		}
		if s.metrics != nil {
			s.metrics.ObserveGeneration(r.Result.Attempts, r.Result.Perfect)
		}
		if !r.Result.Perfect {
			s.logger.Warn("best effort timetable accepted",
				zap.String("job_id", current.ID),
				zap.String("class_id", r.Class.ID),
				zap.Int("attempts", r.Result.Attempts),
				zap.Int("remainder", r.Result.Remainder),
				zap.Int("expected", r.Result.Expected),
			)
		}
	}
	if s.metrics != nil {
		s.metrics.SetClashes(len(state.school.Clashes()))
	}
	return nil
}

// Lock pins the entry at (day, index) to its current window.
func (s *TimetableService) Lock(ctx context.Context, projectID, classID string, req dto.EntryRequest) (*dto.TimetableView, error) {
	return s.edit(ctx, projectID, classID, req, func(tt *scheduler.Timetable) error {
		return tt.Lock(req.Day, req.Index)
	})
}

// Unlock releases the lock carried by the entry at (day, index).
func (s *TimetableService) Unlock(ctx context.Context, projectID, classID string, req dto.EntryRequest) (*dto.TimetableView, error) {
	return s.edit(ctx, projectID, classID, req, func(tt *scheduler.Timetable) error {
		return tt.Unlock(req.Day, req.Index)
	})
}

// Swap exchanges two entries of equal width.
func (s *TimetableService) Swap(ctx context.Context, projectID, classID string, req dto.SwapRequest) (*dto.TimetableView, error) {
	return s.edit(ctx, projectID, classID, req, func(tt *scheduler.Timetable) error {
		return tt.Swap(req.DayA, req.IndexA, req.DayB, req.IndexB)
	})
}

// Delete moves an entry into the remainder and frees its window.
func (s *TimetableService) Delete(ctx context.Context, projectID, classID string, req dto.EntryRequest) (*dto.TimetableView, error) {
	return s.edit(ctx, projectID, classID, req, func(tt *scheduler.Timetable) error {
		return tt.Delete(req.Day, req.Index)
	})
}

// Place moves one remainder period onto a Free entry.
func (s *TimetableService) Place(ctx context.Context, projectID, classID string, req dto.PlaceRequest) (*dto.TimetableView, error) {
	return s.edit(ctx, projectID, classID, req, func(tt *scheduler.Timetable) error {
		return tt.PlaceRemainder(req.RemainderIndex, req.Day, req.Index)
	})
}

func (s *TimetableService) edit(ctx context.Context, projectID, classID string, req interface{}, apply func(*scheduler.Timetable) error) (*dto.TimetableView, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid edit payload")
	}
	state, err := s.state(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if state.busy(classID) {
		return nil, appErrors.Clone(appErrors.ErrJobInFlight, "")
	}

	state.mu.Lock()
	class, err := s.class(state, classID)
	if err != nil {
		state.mu.Unlock()
		return nil, err
	}
	if err := apply(class.Timetable()); err != nil {
		state.mu.Unlock()
		return nil, mapSchedulerError(err)
	}
	view := buildTimetableView(projectID, state.school, class)
	state.mu.Unlock()

	if err := s.cache.InvalidateClass(ctx, projectID, classID); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.String("project_id", projectID), zap.Error(err))
	}
	return &view, nil
}

// Export renders the timetable of a class.
func (s *TimetableService) Export(ctx context.Context, projectID, classID string, format ExportFormat) (*ExportResult, error) {
	state, err := s.state(ctx, projectID)
	if err != nil {
		return nil, err
	}
	state.mu.RLock()
	defer state.mu.RUnlock()
	class, err := s.class(state, classID)
	if err != nil {
		return nil, err
	}
	return s.exporter.Render(class, format)
}

func mapSchedulerError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrNotFound):
		return appErrors.Clone(appErrors.ErrNotFound, err.Error())
	case errors.Is(err, scheduler.ErrQuotaViolation):
		return appErrors.Clone(appErrors.ErrQuotaViolation, err.Error())
	default:
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
}
