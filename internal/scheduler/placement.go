package scheduler

import (
	"fmt"
	"math/rand"
	"sort"
)

// slotSet is a set of period indexes within one weekday.
type slotSet map[int]struct{}

func (s slotSet) has(slot int) bool {
	_, ok := s[slot]
	return ok
}

type window struct {
	start int
	width int
}

func (w window) covers(set slotSet) bool {
	for slot := w.start; slot < w.start+w.width; slot++ {
		if !set.has(slot) {
			return false
		}
	}
	return true
}

func (w window) overlaps(set slotSet) bool {
	for slot := w.start; slot < w.start+w.width; slot++ {
		if set.has(slot) {
			return true
		}
	}
	return false
}

type contender struct {
	subject   *Subject
	windows   []window
	footprint slotSet
}

// classSort assigns the day's queue to period slots. The returned slice has one element per
// period; every slot of an assigned window points at the subject occupying it and unassigned
// slots are nil. Subjects left without a window are placed afterwards as gap fillers. The Free
// subject never competes for slots; placeDay uses it for gaps only.
func (t *Timetable) classSort(queue []*Subject, day int, rng *rand.Rand, clashes ClashFinder) []*Subject {
	info := t.WeekInfo[day]
	slots := make([]*Subject, info.Periods)
	claimed := slotSet{info.Break: {}}

	var locked, open []*contender
	for _, s := range queue {
		if s.IsPseudo() || s.PerWeek == 0 || s.Total == 0 {
			continue
		}
		c := &contender{subject: s, windows: t.candidateWindows(s.Copy(), day, clashes)}
		c.footprint = make(slotSet)
		for _, w := range c.windows {
			for slot := w.start; slot < w.start+w.width; slot++ {
				c.footprint[slot] = struct{}{}
			}
		}
		if s.LockedOn(day) {
			locked = append(locked, c)
		} else {
			open = append(open, c)
		}
	}

	// Locks win unconditionally, even over a clash.
	for _, c := range locked {
		w := window{start: c.subject.Lock.Start, width: c.subject.Total}
		if w.start+w.width > info.Periods || w.overlaps(claimed) {
			continue
		}
		assign(slots, claimed, c.subject, w)
	}

	// Widest footprint first; equal footprints are ordered at random.
	rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	sort.SliceStable(open, func(i, j int) bool { return len(open[i].footprint) > len(open[j].footprint) })

	for _, c := range open {
		remaining := make(slotSet, len(c.footprint))
		for slot := range c.footprint {
			if !claimed.has(slot) {
				remaining[slot] = struct{}{}
			}
		}
		var options []window
		for _, w := range c.windows {
			if w.covers(remaining) {
				options = append(options, w)
			}
		}
		if len(options) > 0 {
			assign(slots, claimed, c.subject, options[rng.Intn(len(options))])
			continue
		}
		if w, ok := firstOpenRun(claimed, info.Periods, c.subject.Total); ok {
			assign(slots, claimed, c.subject, w)
		}
	}
	return slots
}

// candidateWindows lists the windows a subject may start at on day without a teacher clash.
func (t *Timetable) candidateWindows(s *Subject, day int, clashes ClashFinder) []window {
	info := t.WeekInfo[day]
	if s.LockedOn(day) {
		return []window{{start: s.Lock.Start, width: s.Total}}
	}
	var windows []window
	for start := 0; start+s.Total <= info.Periods; start++ {
		if start <= info.Break && info.Break < start+s.Total {
			continue
		}
		if len(clashes.FindClashes(s, day, start, t.class)) > 0 {
			continue
		}
		windows = append(windows, window{start: start, width: s.Total})
	}
	return windows
}

func assign(slots []*Subject, claimed slotSet, s *Subject, w window) {
	for slot := w.start; slot < w.start+w.width; slot++ {
		slots[slot] = s
		claimed[slot] = struct{}{}
	}
}

func firstOpenRun(claimed slotSet, periods, width int) (window, bool) {
	for start := 0; start+width <= periods; start++ {
		w := window{start: start, width: width}
		if !w.overlaps(claimed) {
			return w, true
		}
	}
	return window{}, false
}

// placeDay walks the day period by period, writing the break, the windows chosen by
// classSort and gap fillers into the table. It returns the subjects that were split.
func (t *Timetable) placeDay(day int, slots []*Subject, queue []*Subject, clashes ClashFinder) []*Subject {
	info := t.WeekInfo[day]
	assigned := make(map[*Subject]bool)
	for _, s := range slots {
		if s != nil {
			assigned[s] = true
		}
	}
	var pending []*Subject
	for _, s := range queue {
		if !assigned[s] && s.PerWeek > 0 && s.Total > 0 {
			pending = append(pending, s)
		}
	}

	var split []*Subject
	for p := 0; p < info.Periods; {
		if p == info.Break {
			t.Table[day] = append(t.Table[day], newBreak())
			t.placed.Add(1)
			p++
			continue
		}
		if s := slots[p]; s != nil {
			width := 0
			for q := p; q < info.Periods && slots[q] == s; q++ {
				width++
			}
			amount := min(width, s.Total, s.PerWeek, info.Periods-p)
			t.place(day, p, s, amount)
			for q := p + amount; q < p+width; q++ {
				slots[q] = nil
			}
			p += amount
			continue
		}

		gapEnd := p
		for gapEnd < info.Periods && gapEnd != info.Break && slots[gapEnd] == nil {
			gapEnd++
		}
		idx := pickFiller(pending, day, p, gapEnd-p, t.class, clashes)
		if idx < 0 {
			t.Table[day] = append(t.Table[day], newFree(gapEnd-p))
			t.placed.Add(int64(gapEnd - p))
			p = gapEnd
			continue
		}
		s := pending[idx]
		pending = append(pending[:idx], pending[idx+1:]...)
		amount := min(s.Total, s.PerWeek, gapEnd-p)
		if amount < s.Total && !s.IsPseudo() {
			split = append(split, s)
		}
		t.place(day, p, s, amount)
		p += amount
	}
	return split
}

// pickFiller prefers a real subject that fits without a clash, then the Free subject, then any
// real subject.
func pickFiller(pending []*Subject, day, start, gap int, owner *Class, clashes ClashFinder) int {
	fallback, free := -1, -1
	for i, s := range pending {
		if s.IsPseudo() {
			if free < 0 {
				free = i
			}
			continue
		}
		if fallback < 0 {
			fallback = i
		}
		if len(clashes.FindClashes(s.Sized(min(s.Total, gap)), day, start, owner)) == 0 {
			return i
		}
	}
	if free >= 0 {
		return free
	}
	return fallback
}

func (t *Timetable) place(day, start int, s *Subject, amount int) {
	if err := s.Remove(amount); err != nil {
		panic(fmt.Sprintf("scheduler: placing %s on %s: %v", s.Name, t.WeekInfo[day].Name, err))
	}
	entry := s.Sized(amount)
	entry.PerWeek = amount
	if !(s.LockedOn(day) && s.Lock.Start == start) {
		entry.Lock = nil
	}
	t.Table[day] = append(t.Table[day], entry)
	t.placed.Add(int64(amount))
}
