package scheduler

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// DayInfo describes one weekday of a class grid.
type DayInfo struct {
	Name    string
	Periods int
	Break   int
}

// Timetable is the weekly grid of one class together with its generation state.
type Timetable struct {
	class    *Class
	WeekInfo []DayInfo
	// Table holds the placed entries per weekday; widths add up to the day's period count.
	Table [][]*Subject
	// Remainder holds one width-1 entry per period that could not be placed.
	Remainder []*Subject

	pool    []*Subject
	free    *Subject
	resting map[int]int
	placed  atomic.Int64
}

func newTimetable(c *Class, days []string) *Timetable {
	info := make([]DayInfo, len(days))
	for d, name := range days {
		info[d] = DayInfo{Name: name, Periods: c.PeriodsPerDay[d], Break: c.BreakPeriods[d]}
	}
	t := &Timetable{class: c, WeekInfo: info}
	t.Reset()
	return t
}

// Class returns the owning class.
func (t *Timetable) Class() *Class {
	return t.class
}

// Reset restores the pristine quotas and clears the table and remainder.
func (t *Timetable) Reset() {
	t.Table = make([][]*Subject, len(t.WeekInfo))
	t.Remainder = nil
	t.resting = make(map[int]int)
	t.pool = make([]*Subject, 0, len(t.class.Subjects)+1)
	for _, template := range t.class.Subjects {
		working := template.Copy()
		working.resetWeek()
		t.pool = append(t.pool, working)
	}
	t.free = nil
	if capacity := t.freeCapacity(); capacity > 0 {
		days := len(t.WeekInfo)
		t.free = &Subject{
			ID:          FreeID,
			Name:        FreeName,
			Kind:        KindFree,
			DailyQuota:  (capacity + days - 1) / days,
			WeeklyQuota: capacity,
		}
		t.free.resetWeek()
		t.pool = append(t.pool, t.free)
	}
	t.placed.Store(0)
}

// TotalPeriods is the number of periods in the weekly grid, breaks included.
func (t *Timetable) TotalPeriods() int {
	total := 0
	for _, day := range t.WeekInfo {
		total += day.Periods
	}
	return total
}

// ExpectedLeftover is the theoretically unavoidable number of remainder periods.
func (t *Timetable) ExpectedLeftover() int {
	return max(t.class.WeeklyDemand()+len(t.WeekInfo)-t.TotalPeriods(), 0)
}

func (t *Timetable) freeCapacity() int {
	return t.TotalPeriods() - len(t.WeekInfo) - t.class.WeeklyDemand()
}

// Progress reports periods placed so far against the weekly total. Safe for concurrent use.
func (t *Timetable) Progress() (placed, total int) {
	return int(t.placed.Load()), t.TotalPeriods()
}

// StartOf returns the first period of the entry at index on day.
func (t *Timetable) StartOf(day, index int) int {
	start := 0
	for i := 0; i < index && i < len(t.Table[day]); i++ {
		start += t.Table[day][i].Total
	}
	return start
}

// EntryAt returns the entry covering period on day and its index.
func (t *Timetable) EntryAt(day, period int) (*Subject, int) {
	if day < 0 || day >= len(t.Table) {
		return nil, -1
	}
	start := 0
	for i, entry := range t.Table[day] {
		if period >= start && period < start+entry.Total {
			return entry, i
		}
		start += entry.Total
	}
	return nil, -1
}

// Width returns the summed width of the entries placed on day.
func (t *Timetable) Width(day int) int {
	width := 0
	for _, entry := range t.Table[day] {
		width += entry.Total
	}
	return width
}

func (t *Timetable) widthOf(day, subjectID int) int {
	width := 0
	for _, entry := range t.Table[day] {
		if entry.ID == subjectID {
			width += entry.Total
		}
	}
	return width
}

func (t *Timetable) poolMember(id int) *Subject {
	for _, s := range t.pool {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Placement describes one placed entry when a timetable is restored from an external snapshot.
type Placement struct {
	Day       int
	Start     int
	Width     int
	SubjectID int
	Locked    bool
}

// Restore rebuilds the table from placements and the remainder from per-subject period counts.
// Every weekday must be covered exactly, breaks included.
func (t *Timetable) Restore(placements []Placement, remainder map[int]int) error {
	t.Reset()
	byDay := make([][]Placement, len(t.WeekInfo))
	for _, p := range placements {
		if p.Day < 0 || p.Day >= len(t.WeekInfo) {
			return fmt.Errorf("placement day %d out of range: %w", p.Day, ErrInvalidShape)
		}
		byDay[p.Day] = append(byDay[p.Day], p)
	}
	for day, list := range byDay {
		sort.Slice(list, func(i, j int) bool { return list[i].Start < list[j].Start })
		cursor := 0
		for _, p := range list {
			if p.Start != cursor || p.Width < 1 {
				return fmt.Errorf("placement at %s period %d leaves a gap or overlaps: %w", t.WeekInfo[day].Name, p.Start, ErrInvalidShape)
			}
			entry, err := t.restoreEntry(p)
			if err != nil {
				return err
			}
			t.Table[day] = append(t.Table[day], entry)
			cursor += p.Width
		}
		if cursor != t.WeekInfo[day].Periods {
			return fmt.Errorf("%s covers %d of %d periods: %w", t.WeekInfo[day].Name, cursor, t.WeekInfo[day].Periods, ErrInvalidShape)
		}
		if err := t.checkDay(day); err != nil {
			return err
		}
	}
	ids := make([]int, 0, len(remainder))
	for id := range remainder {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		template := t.class.SubjectByID(id)
		if template == nil {
			return fmt.Errorf("remainder subject %d: %w", id, ErrNotFound)
		}
		for i := 0; i < remainder[id]; i++ {
			t.Remainder = append(t.Remainder, template.Sized(1))
		}
	}
	t.placed.Store(int64(t.TotalPeriods()))
	return nil
}

// checkDay verifies a restored day keeps its break and every daily quota.
func (t *Timetable) checkDay(day int) error {
	info := t.WeekInfo[day]
	if entry, _ := t.EntryAt(day, info.Break); entry == nil || entry.Kind != KindBreak {
		return fmt.Errorf("%s has no break at period %d: %w", info.Name, info.Break, ErrInvalidShape)
	}
	for _, s := range t.class.Subjects {
		if width := t.widthOf(day, s.ID); width > s.DailyQuota {
			return fmt.Errorf("%s placed %d periods on %s, daily quota is %d: %w", s.Name, width, info.Name, s.DailyQuota, ErrQuotaViolation)
		}
	}
	return nil
}

func (t *Timetable) restoreEntry(p Placement) (*Subject, error) {
	switch p.SubjectID {
	case BreakID:
		if p.Width != 1 || p.Start != t.WeekInfo[p.Day].Break {
			return nil, fmt.Errorf("break on %s must be one period at %d: %w", t.WeekInfo[p.Day].Name, t.WeekInfo[p.Day].Break, ErrInvalidShape)
		}
		return newBreak(), nil
	case FreeID:
		return newFree(p.Width), nil
	}
	working := t.poolMember(p.SubjectID)
	if working == nil {
		return nil, fmt.Errorf("placed subject %d: %w", p.SubjectID, ErrNotFound)
	}
	if p.Width > working.PerWeek {
		return nil, fmt.Errorf("%s placed %d periods beyond its weekly quota: %w", working.Name, p.Width, ErrQuotaViolation)
	}
	if err := working.shiftWeekly(-p.Width); err != nil {
		return nil, err
	}
	entry := working.Sized(p.Width)
	entry.Lock = nil
	if p.Locked {
		lock := &LockedPeriod{Day: p.Day, Start: p.Start, Length: p.Width}
		if err := t.class.SetLock(p.SubjectID, lock); err != nil {
			return nil, err
		}
		entry.Lock = t.class.SubjectByID(p.SubjectID).Lock
	}
	return entry, nil
}
