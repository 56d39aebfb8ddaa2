package service

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

func invalidProject(err error, format string, args ...interface{}) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf(format, args...))
}

// BuildSchool constructs a School from a project document. Classes carrying placements are
// restored; classes flagged as generated are committed so they take part in clash detection.
func BuildSchool(project dto.Project, opts ...scheduler.Option) (*scheduler.School, error) {
	school, err := scheduler.NewSchool(project.Days, opts...)
	if err != nil {
		return nil, invalidProject(err, "invalid project days")
	}

	for _, t := range project.Teachers {
		if _, err := school.AddTeacher(t.ID, t.Name); err != nil {
			return nil, invalidProject(err, "invalid teacher %q", t.ID)
		}
	}

	for _, level := range project.Levels {
		for _, c := range level.Classes {
			if _, err := school.AddClass(c.ID, c.Name, level.Index, c.PeriodsPerDay, c.BreakPeriods); err != nil {
				return nil, invalidProject(err, "invalid class %q", c.ID)
			}
		}
	}

	for _, level := range project.Levels {
		for _, subject := range level.Subjects {
			for _, timing := range subject.Timings {
				if err := addTiming(school, level, subject.Name, timing); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, level := range project.Levels {
		for _, c := range level.Classes {
			if err := restoreClass(school, c); err != nil {
				return nil, err
			}
		}
	}
	return school, nil
}

func addTiming(school *scheduler.School, level dto.Level, subject string, timing dto.SubjectTiming) error {
	class, ok := school.Class(timing.ClassID)
	if !ok || class.Level != level.Index {
		return invalidProject(scheduler.ErrNotFound, "subject %q references class %q outside level %d", subject, timing.ClassID, level.Index)
	}
	var teacher *scheduler.Teacher
	if timing.TeacherID != "" {
		if teacher, ok = school.Teacher(timing.TeacherID); !ok {
			return invalidProject(scheduler.ErrNotFound, "subject %q references unknown teacher %q", subject, timing.TeacherID)
		}
	}
	s, err := school.AddSubject(class, subject, timing.DailyQuota, timing.WeeklyQuota, teacher)
	if err != nil {
		return invalidProject(err, "invalid subject %q in class %q", subject, class.ID)
	}
	if timing.Lock != nil {
		lock := &scheduler.LockedPeriod{Day: timing.Lock.Day, Start: timing.Lock.Start, Length: timing.Lock.Length}
		if err := class.SetLock(s.ID, lock); err != nil {
			return invalidProject(err, "invalid lock for %q in class %q", subject, class.ID)
		}
	}
	return nil
}

func restoreClass(school *scheduler.School, c dto.Class) error {
	if len(c.Placements) == 0 && len(c.Remainder) == 0 {
		if c.Generated {
			return invalidProject(scheduler.ErrInvalidShape, "class %q is marked generated without placements", c.ID)
		}
		return nil
	}
	class, _ := school.Class(c.ID)
	placements := make([]scheduler.Placement, 0, len(c.Placements))
	for _, p := range c.Placements {
		id, err := subjectID(class, p.Subject)
		if err != nil {
			return err
		}
		placements = append(placements, scheduler.Placement{Day: p.Day, Start: p.Start, Width: p.Width, SubjectID: id, Locked: p.Locked})
	}
	remainder := make(map[int]int, len(c.Remainder))
	for _, r := range c.Remainder {
		id, err := subjectID(class, r.Subject)
		if err != nil {
			return err
		}
		if id < 0 {
			return invalidProject(scheduler.ErrInvalidEdit, "remainder of class %q cannot hold %q", c.ID, r.Subject)
		}
		remainder[id] += r.Periods
	}
	if err := class.Timetable().Restore(placements, remainder); err != nil {
		return invalidProject(err, "invalid placements for class %q", c.ID)
	}
	if c.Generated {
		school.Commit(class)
	}
	return nil
}

func subjectID(class *scheduler.Class, name string) (int, error) {
	switch name {
	case scheduler.BreakName:
		return scheduler.BreakID, nil
	case scheduler.FreeName:
		return scheduler.FreeID, nil
	}
	s := class.SubjectByName(name)
	if s == nil {
		return 0, invalidProject(scheduler.ErrNotFound, "class %q has no subject %q", class.ID, name)
	}
	return s.ID, nil
}

// SnapshotProject rebuilds the project document from the current school state. Output order
// is stable: levels by index, classes by id, subjects and remainder by name, placements by day
// and start.
func SnapshotProject(school *scheduler.School, base dto.Project) dto.Project {
	out := dto.Project{ID: base.ID, Name: base.Name, Days: append([]string(nil), school.Days...)}

	for _, t := range school.Teachers() {
		out.Teachers = append(out.Teachers, dto.Teacher{ID: t.ID, Name: t.Name})
	}

	levelNames := make(map[int]string, len(base.Levels))
	for _, l := range base.Levels {
		levelNames[l.Index] = l.Name
	}

	levels := make(map[int]*dto.Level)
	var order []int
	subjects := make(map[int]map[string]*dto.Subject)
	for _, class := range school.Classes() {
		level, ok := levels[class.Level]
		if !ok {
			level = &dto.Level{Index: class.Level, Name: levelNames[class.Level]}
			levels[class.Level] = level
			subjects[class.Level] = make(map[string]*dto.Subject)
			order = append(order, class.Level)
		}
		level.Classes = append(level.Classes, snapshotClass(school, class))

		for _, s := range class.Subjects {
			entry, ok := subjects[class.Level][s.Name]
			if !ok {
				entry = &dto.Subject{Name: s.Name}
				subjects[class.Level][s.Name] = entry
			}
			timing := dto.SubjectTiming{ClassID: class.ID, DailyQuota: s.DailyQuota, WeeklyQuota: s.WeeklyQuota}
			if s.Teacher != nil {
				timing.TeacherID = s.Teacher.ID
			}
			if s.Lock != nil {
				timing.Lock = &dto.Lock{Day: s.Lock.Day, Start: s.Lock.Start, Length: s.Lock.Length}
			}
			entry.Timings = append(entry.Timings, timing)
		}
	}

	sort.Ints(order)
	for _, index := range order {
		level := levels[index]
		names := make([]string, 0, len(subjects[index]))
		for name := range subjects[index] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			level.Subjects = append(level.Subjects, *subjects[index][name])
		}
		out.Levels = append(out.Levels, *level)
	}
	return out
}

func snapshotClass(school *scheduler.School, class *scheduler.Class) dto.Class {
	out := dto.Class{
		ID:            class.ID,
		Name:          class.Name,
		PeriodsPerDay: append([]int(nil), class.PeriodsPerDay...),
		BreakPeriods:  append([]int(nil), class.BreakPeriods...),
		Generated:     school.Committed(class),
	}
	tt := class.Timetable()
	for day, entries := range tt.Table {
		start := 0
		for _, e := range entries {
			out.Placements = append(out.Placements, dto.Placement{Day: day, Start: start, Width: e.Total, Subject: e.Name, Locked: e.Locked()})
			start += e.Total
		}
	}

	counts := make(map[string]int)
	var names []string
	for _, r := range tt.Remainder {
		if _, seen := counts[r.Name]; !seen {
			names = append(names, r.Name)
		}
		counts[r.Name] += r.Total
	}
	sort.Strings(names)
	for _, name := range names {
		out.Remainder = append(out.Remainder, dto.RemainderEntry{Subject: name, Periods: counts[name]})
	}
	return out
}
