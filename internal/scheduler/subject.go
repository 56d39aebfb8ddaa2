package scheduler

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// Sentinel errors returned by the scheduling model.
var (
	ErrQuotaViolation = errors.New("quota violation")
	ErrInvalidSubject = errors.New("invalid subject")
	ErrInvalidLock    = errors.New("invalid lock")
	ErrInvalidShape   = errors.New("invalid weekday shape")
	ErrInvalidEdit    = errors.New("invalid timetable edit")
	ErrNotFound       = errors.New("not found")
	ErrDuplicate      = errors.New("duplicate identifier")
)

// SubjectKind distinguishes real subjects from the Free and Break pseudo-subjects.
type SubjectKind int

const (
	KindRegular SubjectKind = iota
	KindFree
	KindBreak
)

// Names and identifiers reserved for pseudo-subjects.
const (
	FreeName  = "Free"
	BreakName = "Break"

	BreakID = -1
	FreeID  = -2
)

// LockedPeriod pins a subject to a window on one weekday.
type LockedPeriod struct {
	Day    int `json:"day"`
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the last period covered by the lock.
func (l LockedPeriod) End() int {
	return l.Start + l.Length - 1
}

// Subject is a schedulable occurrence template. DailyQuota and WeeklyQuota never change
// after construction; Total and PerWeek are consumed while a timetable is generated.
type Subject struct {
	ID          int
	Name        string
	Kind        SubjectKind
	DailyQuota  int
	WeeklyQuota int
	Total       int
	PerWeek     int
	Teacher     *Teacher
	Lock        *LockedPeriod
}

func newSubject(id int, name string, daily, weekly int, teacher *Teacher) (*Subject, error) {
	if name == "" {
		return nil, fmt.Errorf("subject name is required: %w", ErrInvalidSubject)
	}
	if name == FreeName || name == BreakName {
		return nil, fmt.Errorf("subject name %q is reserved: %w", name, ErrDuplicate)
	}
	if daily < 1 {
		return nil, fmt.Errorf("subject %s daily quota must be >= 1, got %d: %w", name, daily, ErrQuotaViolation)
	}
	if weekly < 0 {
		return nil, fmt.Errorf("subject %s weekly quota must be >= 0, got %d: %w", name, weekly, ErrQuotaViolation)
	}
	s := &Subject{
		ID:          id,
		Name:        name,
		Kind:        KindRegular,
		DailyQuota:  daily,
		WeeklyQuota: weekly,
		Teacher:     teacher,
	}
	s.resetWeek()
	return s, nil
}

func newBreak() *Subject {
	return &Subject{ID: BreakID, Name: BreakName, Kind: KindBreak, DailyQuota: 1, WeeklyQuota: 1, Total: 1, PerWeek: 1}
}

func newFree(width int) *Subject {
	return &Subject{ID: FreeID, Name: FreeName, Kind: KindFree, DailyQuota: width, WeeklyQuota: width, Total: width, PerWeek: width}
}

// IsPseudo reports whether the subject is the Free or Break placeholder.
func (s *Subject) IsPseudo() bool {
	return s.Kind != KindRegular
}

// Locked reports whether the subject carries a lock.
func (s *Subject) Locked() bool {
	return s.Lock != nil
}

// LockedOn reports whether the subject is pinned on the given weekday.
func (s *Subject) LockedOn(day int) bool {
	return s.Lock != nil && s.Lock.Day == day
}

// Remove consumes amount periods from both the daily and weekly counters. It never clamps.
func (s *Subject) Remove(amount int) error {
	if amount < 0 {
		return fmt.Errorf("remove %d periods from %s: %w", amount, s.Name, ErrQuotaViolation)
	}
	if amount > s.Total || amount > s.PerWeek {
		return fmt.Errorf("remove %d periods from %s (total %d, per week %d): %w", amount, s.Name, s.Total, s.PerWeek, ErrQuotaViolation)
	}
	s.Total -= amount
	s.PerWeek -= amount
	return nil
}

// Copy returns an independent mutable instance sharing the templates, teacher and lock.
func (s *Subject) Copy() *Subject {
	c := *s
	return &c
}

// Sized returns a copy whose Total is n periods wide.
func (s *Subject) Sized(n int) *Subject {
	c := s.Copy()
	c.Total = n
	if c.PerWeek < n {
		c.PerWeek = n
	}
	return c
}

func (s *Subject) resetWeek() {
	s.PerWeek = s.WeeklyQuota
	s.Total = min(s.DailyQuota, s.PerWeek)
}

// shiftWeekly moves weekly demand in or out of the subject while keeping Total <= PerWeek.
func (s *Subject) shiftWeekly(delta int) error {
	next := s.PerWeek + delta
	if next < 0 {
		return fmt.Errorf("shift %s weekly demand by %d: %w", s.Name, delta, ErrQuotaViolation)
	}
	s.PerWeek = next
	if s.Total > s.PerWeek {
		s.Total = s.PerWeek
	}
	return nil
}

// IDAllocator hands out subject identifiers scoped to one School. Identifiers are never reused.
type IDAllocator struct {
	next atomic.Int64
}

// Next returns the next identifier, starting at 1.
func (a *IDAllocator) Next() int {
	return int(a.next.Add(1))
}
