package scheduler

import "fmt"

// Manual edits write straight into the table and remainder, bypassing generation. Each one
// keeps every weekday's width equal to its period count or leaves the timetable untouched.

func (t *Timetable) entry(day, index int) (*Subject, error) {
	if day < 0 || day >= len(t.Table) {
		return nil, fmt.Errorf("day %d out of range: %w", day, ErrInvalidEdit)
	}
	if index < 0 || index >= len(t.Table[day]) {
		return nil, fmt.Errorf("entry %d on %s out of range: %w", index, t.WeekInfo[day].Name, ErrInvalidEdit)
	}
	return t.Table[day][index], nil
}

// Lock pins the subject at (day, index) to its current window.
func (t *Timetable) Lock(day, index int) error {
	entry, err := t.entry(day, index)
	if err != nil {
		return err
	}
	if entry.IsPseudo() {
		return fmt.Errorf("cannot lock %s: %w", entry.Name, ErrInvalidEdit)
	}
	lock := &LockedPeriod{Day: day, Start: t.StartOf(day, index), Length: entry.Total}
	if err := t.class.SetLock(entry.ID, lock); err != nil {
		return err
	}
	t.relabelLocks(entry.ID, nil)
	entry.Lock = t.class.SubjectByID(entry.ID).Lock
	return nil
}

// Unlock removes the lock of the subject at (day, index).
func (t *Timetable) Unlock(day, index int) error {
	entry, err := t.entry(day, index)
	if err != nil {
		return err
	}
	if !entry.Locked() {
		return fmt.Errorf("%s on %s is not locked: %w", entry.Name, t.WeekInfo[day].Name, ErrInvalidEdit)
	}
	if err := t.class.SetLock(entry.ID, nil); err != nil {
		return err
	}
	t.relabelLocks(entry.ID, nil)
	return nil
}

func (t *Timetable) relabelLocks(subjectID int, lock *LockedPeriod) {
	for _, entries := range t.Table {
		for _, e := range entries {
			if e.ID == subjectID {
				e.Lock = lock
			}
		}
	}
}

// Swap exchanges two placed entries of equal width. Breaks and locked entries never move.
func (t *Timetable) Swap(dayA, indexA, dayB, indexB int) error {
	a, err := t.entry(dayA, indexA)
	if err != nil {
		return err
	}
	b, err := t.entry(dayB, indexB)
	if err != nil {
		return err
	}
	if a.Kind == KindBreak || b.Kind == KindBreak {
		return fmt.Errorf("breaks cannot be moved: %w", ErrInvalidEdit)
	}
	if a.Locked() || b.Locked() {
		return fmt.Errorf("locked entries cannot be moved: %w", ErrInvalidEdit)
	}
	if a.Total != b.Total {
		return fmt.Errorf("cannot swap %s (%d periods) with %s (%d periods): %w", a.Name, a.Total, b.Name, b.Total, ErrInvalidEdit)
	}
	if dayA != dayB {
		if err := t.fitsDaily(a, dayB, b); err != nil {
			return err
		}
		if err := t.fitsDaily(b, dayA, a); err != nil {
			return err
		}
	}
	t.Table[dayA][indexA], t.Table[dayB][indexB] = b, a
	return nil
}

// fitsDaily reports whether incoming can replace outgoing on day within its daily quota.
func (t *Timetable) fitsDaily(incoming *Subject, day int, outgoing *Subject) error {
	if incoming.IsPseudo() {
		return nil
	}
	width := t.widthOf(day, incoming.ID) + incoming.Total
	if outgoing.ID == incoming.ID {
		width -= outgoing.Total
	}
	if width > incoming.DailyQuota {
		return fmt.Errorf("%s would occupy %d periods on %s, daily quota is %d: %w",
			incoming.Name, width, t.WeekInfo[day].Name, incoming.DailyQuota, ErrQuotaViolation)
	}
	return nil
}

// Delete moves the entry at (day, index) to the remainder and leaves a Free slot behind.
func (t *Timetable) Delete(day, index int) error {
	entry, err := t.entry(day, index)
	if err != nil {
		return err
	}
	if entry.IsPseudo() {
		return fmt.Errorf("cannot delete %s: %w", entry.Name, ErrInvalidEdit)
	}
	if entry.Locked() {
		if err := t.class.SetLock(entry.ID, nil); err != nil {
			return err
		}
		t.relabelLocks(entry.ID, nil)
	}
	for i := 0; i < entry.Total; i++ {
		unit := entry.Sized(1)
		unit.PerWeek = 1
		t.Remainder = append(t.Remainder, unit)
	}
	t.Table[day][index] = newFree(entry.Total)
	return nil
}

// PlaceRemainder moves one remainder period onto the first period of the Free entry at
// (day, index). A wider Free entry keeps its leftover periods.
func (t *Timetable) PlaceRemainder(remIndex, day, index int) error {
	if remIndex < 0 || remIndex >= len(t.Remainder) {
		return fmt.Errorf("remainder entry %d out of range: %w", remIndex, ErrInvalidEdit)
	}
	target, err := t.entry(day, index)
	if err != nil {
		return err
	}
	if target.Kind != KindFree {
		return fmt.Errorf("%s on %s is not a free slot: %w", target.Name, t.WeekInfo[day].Name, ErrInvalidEdit)
	}
	unit := t.Remainder[remIndex]
	if err := t.fitsDaily(unit, day, target); err != nil {
		return err
	}

	placed := unit.Sized(1)
	placed.PerWeek = 1
	placed.Lock = nil
	entries := make([]*Subject, 0, len(t.Table[day])+1)
	entries = append(entries, t.Table[day][:index]...)
	entries = append(entries, placed)
	if rest := target.Total - 1; rest > 0 {
		entries = append(entries, newFree(rest))
	}
	entries = append(entries, t.Table[day][index+1:]...)
	t.Table[day] = entries
	t.Remainder = append(t.Remainder[:remIndex], t.Remainder[remIndex+1:]...)
	return nil
}
