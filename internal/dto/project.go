package dto

// Project is the hierarchical project document exchanged with clients and persisted as JSON:
// levels hold classes and the subjects taught to them, each subject carrying one timing per
// class it is taught in.
type Project struct {
	ID       string    `json:"id"`
	Name     string    `json:"name" validate:"required"`
	Days     []string  `json:"days" validate:"required,min=1,dive,required"`
	Teachers []Teacher `json:"teachers" validate:"dive"`
	Levels   []Level   `json:"levels" validate:"required,min=1,dive"`
}

// Teacher identifies a teacher referenced by subject timings.
type Teacher struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// Level groups classes of one grade with the subjects they share.
type Level struct {
	Index    int       `json:"index" validate:"min=0"`
	Name     string    `json:"name"`
	Classes  []Class   `json:"classes" validate:"required,min=1,dive"`
	Subjects []Subject `json:"subjects" validate:"dive"`
}

// Class carries the weekly shape and, once generated, the placed timetable.
type Class struct {
	ID            string           `json:"id" validate:"required"`
	Name          string           `json:"name"`
	PeriodsPerDay []int            `json:"periodsPerDay" validate:"required,dive,min=1"`
	BreakPeriods  []int            `json:"breakPeriods" validate:"required,dive,min=0"`
	Generated     bool             `json:"generated"`
	Placements    []Placement      `json:"placements,omitempty" validate:"dive"`
	Remainder     []RemainderEntry `json:"remainder,omitempty" validate:"dive"`
}

// Subject is taught to one or more classes of a level.
type Subject struct {
	Name    string          `json:"name" validate:"required"`
	Timings []SubjectTiming `json:"timings" validate:"required,min=1,dive"`
}

// SubjectTiming is the per-class quota and teacher of a subject.
type SubjectTiming struct {
	ClassID     string `json:"classId" validate:"required"`
	TeacherID   string `json:"teacherId"`
	DailyQuota  int    `json:"dailyQuota" validate:"min=1"`
	WeeklyQuota int    `json:"weeklyQuota" validate:"min=0"`
	Lock        *Lock  `json:"lock,omitempty"`
}

// Lock pins a subject to a window on one weekday.
type Lock struct {
	Day    int `json:"day" validate:"min=0"`
	Start  int `json:"start" validate:"min=0"`
	Length int `json:"length" validate:"min=1"`
}

// Placement is one placed entry. Subject is a subject name or one of "Free" and "Break".
type Placement struct {
	Day     int    `json:"day" validate:"min=0"`
	Start   int    `json:"start" validate:"min=0"`
	Width   int    `json:"width" validate:"min=1"`
	Subject string `json:"subject" validate:"required"`
	Locked  bool   `json:"locked,omitempty"`
}

// RemainderEntry counts the unplaced periods of a subject.
type RemainderEntry struct {
	Subject string `json:"subject" validate:"required"`
	Periods int    `json:"periods" validate:"min=1"`
}
