package scheduler

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// School aggregates classes and teachers and holds the committed timetables.
type School struct {
	Days []string

	classes     map[string]*Class
	teachers    map[string]*Teacher
	committed   map[string]*Timetable
	ids         IDAllocator
	maxAttempts int
	mu          sync.RWMutex
}

// Option customises a School.
type Option func(*School)

// WithMaxAttempts overrides the retry cap used by generation.
func WithMaxAttempts(n int) Option {
	return func(s *School) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewSchool creates an empty school for the given weekday names.
func NewSchool(days []string, opts ...Option) (*School, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("school needs at least one weekday: %w", ErrInvalidShape)
	}
	s := &School{
		Days:        append([]string(nil), days...),
		classes:     make(map[string]*Class),
		teachers:    make(map[string]*Teacher),
		committed:   make(map[string]*Timetable),
		maxAttempts: MaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddTeacher registers a teacher.
func (s *School) AddTeacher(id, name string) (*Teacher, error) {
	if id == "" {
		return nil, fmt.Errorf("teacher id is required: %w", ErrInvalidShape)
	}
	if _, exists := s.teachers[id]; exists {
		return nil, fmt.Errorf("teacher %s: %w", id, ErrDuplicate)
	}
	t := newTeacher(id, name)
	s.teachers[id] = t
	return t, nil
}

// AddClass registers a class with its weekday shape.
func (s *School) AddClass(id, name string, level int, periods, breaks []int) (*Class, error) {
	if _, exists := s.classes[id]; exists {
		return nil, fmt.Errorf("class %s: %w", id, ErrDuplicate)
	}
	c, err := newClass(id, name, level, s.Days, periods, breaks)
	if err != nil {
		return nil, err
	}
	s.classes[id] = c
	return c, nil
}

// AddSubject creates a subject for class, allocating its id from the school counter.
func (s *School) AddSubject(class *Class, name string, daily, weekly int, teacher *Teacher) (*Subject, error) {
	if class == nil {
		return nil, fmt.Errorf("subject %s without class: %w", name, ErrNotFound)
	}
	if class.SubjectByName(name) != nil {
		return nil, fmt.Errorf("subject %s in class %s: %w", name, class.ID, ErrDuplicate)
	}
	subject, err := newSubject(s.ids.Next(), name, daily, weekly, teacher)
	if err != nil {
		return nil, err
	}
	class.Subjects = append(class.Subjects, subject)
	if teacher != nil {
		teacher.Assign(subject, class)
	}
	class.timetable.Reset()
	return subject, nil
}

// Class returns the class with id.
func (s *School) Class(id string) (*Class, bool) {
	c, ok := s.classes[id]
	return c, ok
}

// Teacher returns the teacher with id.
func (s *School) Teacher(id string) (*Teacher, bool) {
	t, ok := s.teachers[id]
	return t, ok
}

// Classes returns every class in generation order: level first, then id.
func (s *School) Classes() []*Class {
	classes := make([]*Class, 0, len(s.classes))
	for _, c := range s.classes {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].Level == classes[j].Level {
			return classes[i].ID < classes[j].ID
		}
		return classes[i].Level < classes[j].Level
	})
	return classes
}

// Teachers returns every teacher ordered by id.
func (s *School) Teachers() []*Teacher {
	teachers := make([]*Teacher, 0, len(s.teachers))
	for _, t := range s.teachers {
		teachers = append(teachers, t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers
}

// Commit adds the class's timetable to the committed set.
func (s *School) Commit(class *Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed[class.ID] = class.timetable
}

// Uncommit removes the class's timetable from the committed set.
func (s *School) Uncommit(class *Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.committed, class.ID)
}

// Committed reports whether the class has an accepted timetable.
func (s *School) Committed(class *Class) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.committed[class.ID]
	return ok
}

// GenerateTimetable regenerates one class against the currently committed classes and
// commits the result, perfect or best effort.
func (s *School) GenerateTimetable(class *Class, rng *rand.Rand) GenerationResult {
	s.Uncommit(class)
	class.timetable.Reset()
	result := class.timetable.Generate(rng, s, s.maxAttempts)
	s.Commit(class)
	return result
}

// ClassResult pairs a class with the outcome of its generation.
type ClassResult struct {
	Class  *Class
	Result GenerationResult
}

// GenerateAll clears the committed set and regenerates every class sequentially so each class
// only observes the classes committed before it.
func (s *School) GenerateAll(rng *rand.Rand) []ClassResult {
	s.mu.Lock()
	s.committed = make(map[string]*Timetable)
	s.mu.Unlock()

	classes := s.Classes()
	results := make([]ClassResult, 0, len(classes))
	for _, class := range classes {
		results = append(results, ClassResult{Class: class, Result: s.GenerateTimetable(class, rng)})
	}
	return results
}
