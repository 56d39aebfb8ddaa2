package scheduler

import "fmt"

// Class is a cohort with a weekly shape and the subjects it has to schedule.
type Class struct {
	ID            string
	Name          string
	Level         int
	PeriodsPerDay []int
	BreakPeriods  []int
	Subjects      []*Subject

	timetable *Timetable
}

func newClass(id, name string, level int, days []string, periods, breaks []int) (*Class, error) {
	if id == "" {
		return nil, fmt.Errorf("class id is required: %w", ErrInvalidShape)
	}
	if len(periods) != len(days) || len(breaks) != len(days) {
		return nil, fmt.Errorf("class %s needs %d period counts and break indexes, got %d and %d: %w",
			id, len(days), len(periods), len(breaks), ErrInvalidShape)
	}
	for d := range days {
		if periods[d] < 1 {
			return nil, fmt.Errorf("class %s has %d periods on %s: %w", id, periods[d], days[d], ErrInvalidShape)
		}
		if breaks[d] < 0 || breaks[d] >= periods[d] {
			return nil, fmt.Errorf("class %s break %d on %s outside [0,%d): %w", id, breaks[d], days[d], periods[d], ErrInvalidShape)
		}
	}
	c := &Class{
		ID:            id,
		Name:          name,
		Level:         level,
		PeriodsPerDay: append([]int(nil), periods...),
		BreakPeriods:  append([]int(nil), breaks...),
	}
	c.timetable = newTimetable(c, days)
	return c, nil
}

// Timetable returns the class's single timetable.
func (c *Class) Timetable() *Timetable {
	return c.timetable
}

// SubjectByID looks up a subject of the class.
func (c *Class) SubjectByID(id int) *Subject {
	for _, s := range c.Subjects {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// SubjectByName looks up a subject of the class by its name.
func (c *Class) SubjectByName(name string) *Subject {
	for _, s := range c.Subjects {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// WeeklyDemand sums the weekly quotas of every subject.
func (c *Class) WeeklyDemand() int {
	total := 0
	for _, s := range c.Subjects {
		total += s.WeeklyQuota
	}
	return total
}

// SetLock validates and applies a lock to one of the class's subjects. A nil lock unlocks it.
func (c *Class) SetLock(subjectID int, lock *LockedPeriod) error {
	subject := c.SubjectByID(subjectID)
	if subject == nil {
		return fmt.Errorf("subject %d in class %s: %w", subjectID, c.ID, ErrNotFound)
	}
	if lock == nil {
		subject.Lock = nil
		return nil
	}
	if err := c.validateLock(subject, *lock); err != nil {
		return err
	}
	l := *lock
	subject.Lock = &l
	return nil
}

func (c *Class) validateLock(subject *Subject, lock LockedPeriod) error {
	if lock.Day < 0 || lock.Day >= len(c.PeriodsPerDay) {
		return fmt.Errorf("lock day %d out of range for class %s: %w", lock.Day, c.ID, ErrInvalidLock)
	}
	periods := c.PeriodsPerDay[lock.Day]
	if lock.Length < 1 || lock.Start < 0 || lock.End() >= periods {
		return fmt.Errorf("lock window [%d,%d] outside %d periods: %w", lock.Start, lock.End(), periods, ErrInvalidLock)
	}
	if brk := c.BreakPeriods[lock.Day]; lock.Start <= brk && brk <= lock.End() {
		return fmt.Errorf("lock window [%d,%d] covers the break at %d: %w", lock.Start, lock.End(), brk, ErrInvalidLock)
	}
	if lock.Length > subject.WeeklyQuota || lock.Length > subject.DailyQuota {
		return fmt.Errorf("lock length %d exceeds quotas of %s: %w", lock.Length, subject.Name, ErrInvalidLock)
	}
	for _, other := range c.Subjects {
		if other.ID == subject.ID || !other.LockedOn(lock.Day) {
			continue
		}
		if lock.Start <= other.Lock.End() && other.Lock.Start <= lock.End() {
			return fmt.Errorf("lock window overlaps lock of %s: %w", other.Name, ErrInvalidLock)
		}
	}
	return nil
}
