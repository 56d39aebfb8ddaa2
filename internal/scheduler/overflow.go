package scheduler

import "math/rand"

type swapTarget struct {
	day   int
	index int
	start int
}

// switchExtras runs on the last weekday. A subject whose weekly remainder exceeds what it may
// place today trades its spillover with an equally wide entry placed earlier in the week; the
// displaced subject joins today's queue instead. The scan for each subject is first-fit and
// stops with probability one half after every valid candidate, so the last candidate seen wins.
func (t *Timetable) switchExtras(day int, queue []*Subject, rng *rand.Rand, clashes ClashFinder) []*Subject {
	spilling := append([]*Subject(nil), queue...)
	for _, s := range spilling {
		if s.IsPseudo() || s.Locked() {
			continue
		}
		spill := s.PerWeek - s.Total
		if spill <= 0 {
			continue
		}
		target, ok := t.findSwap(s, spill, day, rng, clashes)
		if !ok {
			continue
		}
		queue = t.applySwap(s, spill, target, queue)
	}
	return queue
}

func (t *Timetable) findSwap(s *Subject, spill, today int, rng *rand.Rand, clashes ClashFinder) (swapTarget, bool) {
	var chosen swapTarget
	found := false
	for _, day := range rng.Perm(today) {
		if t.widthOf(day, s.ID)+spill > s.DailyQuota {
			continue
		}
		start := 0
		for index, other := range t.Table[day] {
			otherStart := start
			start += other.Total
			if other.Kind == KindBreak || other.Name == s.Name || other.Locked() || other.Total != spill {
				continue
			}
			if len(clashes.FindClashes(s.Sized(spill), day, otherStart, t.class)) > 0 {
				continue
			}
			if !other.IsPseudo() && !t.canAbsorb(other.ID, spill, today, clashes) {
				continue
			}
			chosen = swapTarget{day: day, index: index, start: otherStart}
			found = true
			if rng.Intn(2) == 0 {
				return chosen, true
			}
		}
	}
	return chosen, found
}

// canAbsorb reports whether the displaced subject can take spill more periods today without
// exceeding its daily quota and still has a clash-free window.
func (t *Timetable) canAbsorb(subjectID, spill, today int, clashes ClashFinder) bool {
	displaced := t.poolMember(subjectID)
	if displaced == nil || displaced.Locked() || displaced.PerWeek+spill > displaced.DailyQuota {
		return false
	}
	return len(t.candidateWindows(displaced.Sized(displaced.PerWeek+spill), today, clashes)) > 0
}

func (t *Timetable) applySwap(s *Subject, spill int, target swapTarget, queue []*Subject) []*Subject {
	if err := s.shiftWeekly(-spill); err != nil {
		return queue
	}
	displacedEntry := t.Table[target.day][target.index]
	entry := s.Sized(spill)
	entry.PerWeek = spill
	entry.Lock = nil
	t.Table[target.day][target.index] = entry

	if displacedEntry.IsPseudo() {
		return queue
	}
	displaced := t.poolMember(displacedEntry.ID)
	if err := displaced.shiftWeekly(spill); err != nil {
		return queue
	}
	displaced.Total = min(displaced.DailyQuota, displaced.PerWeek)
	delete(t.resting, displaced.ID)
	for _, q := range queue {
		if q == displaced {
			return queue
		}
	}
	return append(queue, displaced)
}
