package scheduler

import "sort"

// Teacher owns the subject → class pairings used for clash lookups.
type Teacher struct {
	ID          string
	Name        string
	Assignments map[int]*Class
}

func newTeacher(id, name string) *Teacher {
	return &Teacher{ID: id, Name: name, Assignments: make(map[int]*Class)}
}

// Assign records that subject is taught by the teacher in class.
func (t *Teacher) Assign(subject *Subject, class *Class) {
	t.Assignments[subject.ID] = class
}

// Classes returns the distinct classes the teacher is assigned to, ordered by id.
func (t *Teacher) Classes() []*Class {
	seen := make(map[string]bool, len(t.Assignments))
	classes := make([]*Class, 0, len(t.Assignments))
	for _, class := range t.Assignments {
		if class == nil || seen[class.ID] {
			continue
		}
		seen[class.ID] = true
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	return classes
}

func sameTeacher(a, b *Teacher) bool {
	return a != nil && b != nil && a.ID == b.ID
}
