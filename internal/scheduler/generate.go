package scheduler

import "math/rand"

// MaxAttempts bounds the number of generation attempts per class.
const MaxAttempts = 30

// GenerationResult summarises the accepted attempt of one generation run.
type GenerationResult struct {
	Attempts  int  `json:"attempts"`
	Perfect   bool `json:"perfect"`
	Remainder int  `json:"remainder"`
	Expected  int  `json:"expected"`
}

// Generate fills the timetable. Each attempt starts from pristine quotas; an attempt whose
// remainder equals the unavoidable leftover is accepted, otherwise the class is retried up to
// limit attempts and the last attempt is kept as a best-effort result.
func (t *Timetable) Generate(rng *rand.Rand, clashes ClashFinder, limit int) GenerationResult {
	if clashes == nil {
		clashes = noClashes{}
	}
	if limit <= 0 {
		limit = MaxAttempts
	}
	expected := t.ExpectedLeftover()
	var result GenerationResult
	for attempt := 1; attempt <= limit; attempt++ {
		t.Reset()
		t.attempt(rng, clashes)
		result = GenerationResult{Attempts: attempt, Remainder: len(t.Remainder), Expected: expected}
		if result.Remainder == expected {
			result.Perfect = true
			return result
		}
	}
	return result
}

func (t *Timetable) attempt(rng *rand.Rand, clashes ClashFinder) {
	last := len(t.WeekInfo) - 1
	for day := range t.WeekInfo {
		rng.Shuffle(len(t.pool), func(i, j int) { t.pool[i], t.pool[j] = t.pool[j], t.pool[i] })
		for _, s := range t.pool {
			t.restoreDaily(s, day)
		}
		queue := t.competing(day)
		if day == last && day > 0 {
			queue = t.switchExtras(day, queue, rng, clashes)
		}
		slots := t.classSort(queue, day, rng, clashes)
		for _, s := range t.placeDay(day, slots, queue, clashes) {
			t.resting[s.ID] = day + 1
		}
	}
	t.collectRemainder()
}

// restoreDaily sets today's allowance. Periods a locked subject needs on a later lock day are
// held back until that day.
func (t *Timetable) restoreDaily(s *Subject, day int) {
	total := s.DailyQuota
	if s.Lock != nil {
		switch {
		case s.Lock.Day == day:
			total = s.Lock.Length
		case s.Lock.Day > day:
			total = min(total, s.PerWeek-s.Lock.Length)
		}
	}
	s.Total = max(min(total, s.PerWeek), 0)
}

// competing returns the pool members that take part today: subjects with weekly demand left
// that were not split the day before. A subject locked on day always competes.
func (t *Timetable) competing(day int) []*Subject {
	queue := make([]*Subject, 0, len(t.pool))
	for _, s := range t.pool {
		if s.PerWeek == 0 || s.Total == 0 {
			continue
		}
		if rest, ok := t.resting[s.ID]; ok && rest == day && !s.LockedOn(day) {
			continue
		}
		queue = append(queue, s)
	}
	return queue
}

func (t *Timetable) collectRemainder() {
	t.Remainder = nil
	for _, s := range t.pool {
		if s.IsPseudo() {
			continue
		}
		for i := 0; i < s.PerWeek; i++ {
			t.Remainder = append(t.Remainder, s.Sized(1))
		}
	}
}
