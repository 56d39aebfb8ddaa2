package scheduler

import "sort"

// ClashFinder reports placed entries of other committed classes that overlap a candidate window.
type ClashFinder interface {
	FindClashes(subject *Subject, day, start int, owner *Class) []ClashPair
}

// ClashPair identifies a placed entry of another class that shares the teacher in an
// overlapping window.
type ClashPair struct {
	Subject *Subject
	Class   *Class
	Day     int
	Start   int
}

// Clash groups every pair reported against one placed entry.
type Clash struct {
	Class   *Class
	Subject *Subject
	Day     int
	Start   int
	With    []ClashPair
}

type noClashes struct{}

func (noClashes) FindClashes(*Subject, int, int, *Class) []ClashPair { return nil }

// FindClashes walks the committed timetables of every other class the subject's teacher is
// assigned to and returns the entries whose window on day overlaps
// [start, start+subject.Total-1]. It never mutates state.
func (s *School) FindClashes(subject *Subject, day, start int, owner *Class) []ClashPair {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findClashes(subject, day, start, owner)
}

func (s *School) findClashes(subject *Subject, day, start int, owner *Class) []ClashPair {
	if subject == nil || subject.Teacher == nil || subject.Total < 1 {
		return nil
	}
	end := start + subject.Total - 1
	var pairs []ClashPair
	for _, class := range subject.Teacher.Classes() {
		if owner != nil && class.ID == owner.ID {
			continue
		}
		committed, ok := s.committed[class.ID]
		if !ok || day < 0 || day >= len(committed.Table) {
			continue
		}
		otherStart := 0
		for _, other := range committed.Table[day] {
			otherEnd := otherStart + other.Total - 1
			if sameTeacher(other.Teacher, subject.Teacher) && start <= otherEnd && otherStart <= end {
				pairs = append(pairs, ClashPair{Subject: other, Class: class, Day: day, Start: otherStart})
			}
			otherStart += other.Total
		}
	}
	return pairs
}

// Clashes re-derives every committed entry's starting period and reports all teacher clashes
// across the school, ordered by class, day and period.
func (s *School) Clashes() []Clash {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.committed))
	for id := range s.committed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var clashes []Clash
	for _, id := range ids {
		tt := s.committed[id]
		for day, entries := range tt.Table {
			start := 0
			for _, entry := range entries {
				if entry.Teacher != nil {
					if pairs := s.findClashes(entry, day, start, tt.class); len(pairs) > 0 {
						clashes = append(clashes, Clash{Class: tt.class, Subject: entry, Day: day, Start: start, With: pairs})
					}
				}
				start += entry.Total
			}
		}
	}
	return clashes
}
