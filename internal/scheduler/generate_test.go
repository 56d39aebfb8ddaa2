package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFullWeekHasNoRemainder(t *testing.T) {
	school := newTestSchool(t)
	class := addUniformClass(t, school, "X-1", 1, 5, 2)
	for _, name := range []string{"Math", "Physics", "History", "English"} {
		addSubject(t, school, class, name, 1, 5, nil)
	}

	result := school.GenerateTimetable(class, seeded(42))

	tt := class.Timetable()
	assert.True(t, result.Perfect)
	assert.Equal(t, 0, result.Expected)
	assert.Empty(t, tt.Remainder)
	requireDayWidths(t, tt)
	for _, s := range class.Subjects {
		assert.Equal(t, 5, placedPeriods(tt)[s.ID], s.Name)
	}
	assert.True(t, school.Committed(class))

	placed, total := tt.Progress()
	assert.Equal(t, 25, total)
	assert.Equal(t, 25, placed)
}

func TestGenerateKeepsDayWidthsAcrossSeeds(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		school := newTestSchool(t)
		class, err := school.AddClass("X-2", "X-2", 1, []int{8, 8, 7, 8, 6}, []int{4, 3, 4, 0, 5})
		require.NoError(t, err)
		addSubject(t, school, class, "Math", 2, 6, nil)
		addSubject(t, school, class, "Physics", 2, 4, nil)
		addSubject(t, school, class, "Chemistry", 3, 5, nil)
		addSubject(t, school, class, "History", 1, 3, nil)
		addSubject(t, school, class, "Sport", 2, 2, nil)

		result := school.GenerateTimetable(class, seeded(seed))

		tt := class.Timetable()
		requireDayWidths(t, tt)
		assert.GreaterOrEqual(t, result.Attempts, 1)
		assert.LessOrEqual(t, result.Attempts, MaxAttempts)
		assert.Equal(t, result.Remainder, len(tt.Remainder))
		for _, s := range class.Subjects {
			placed := placedPeriods(tt)[s.ID]
			left := 0
			for _, r := range tt.Remainder {
				if r.ID == s.ID {
					left += r.Total
				}
			}
			assert.Equal(t, s.WeeklyQuota, placed+left, "seed %d subject %s", seed, s.Name)
		}
		for day := range tt.Table {
			for _, s := range class.Subjects {
				assert.LessOrEqual(t, tt.widthOf(day, s.ID), s.DailyQuota, "seed %d daily quota of %s", seed, s.Name)
			}
		}
	}
}

func TestGenerateOverdemandReportsRemainder(t *testing.T) {
	school := newTestSchool(t, WithMaxAttempts(5))
	class := addUniformClass(t, school, "X-3", 1, 3, 1)
	addSubject(t, school, class, "Math", 2, 8, nil)
	addSubject(t, school, class, "Physics", 2, 8, nil)

	result := school.GenerateTimetable(class, seeded(3))

	tt := class.Timetable()
	requireDayWidths(t, tt)
	assert.Equal(t, 16+5-15, result.Expected)
	assert.GreaterOrEqual(t, len(tt.Remainder), result.Expected)
	assert.LessOrEqual(t, result.Attempts, 5)
	for _, r := range tt.Remainder {
		assert.Equal(t, 1, r.Total)
	}
}

func TestGenerateHonoursLocks(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		school := newTestSchool(t)
		class := addUniformClass(t, school, "X-4", 1, 6, 2)
		math := addSubject(t, school, class, "Math", 2, 5, nil)
		addSubject(t, school, class, "Physics", 2, 5, nil)
		addSubject(t, school, class, "Art", 1, 4, nil)
		require.NoError(t, class.SetLock(math.ID, &LockedPeriod{Day: 2, Start: 4, Length: 2}))

		school.GenerateTimetable(class, seeded(seed))

		tt := class.Timetable()
		requireDayWidths(t, tt)
		entry, index := tt.EntryAt(2, 4)
		require.NotNil(t, entry)
		assert.Equal(t, math.ID, entry.ID, "seed %d", seed)
		assert.Equal(t, 4, tt.StartOf(2, index))
		assert.Equal(t, 2, entry.Total)
		assert.True(t, entry.Locked())
	}
}

func TestGenerateTwiceKeepsInvariants(t *testing.T) {
	school := newTestSchool(t)
	class := addUniformClass(t, school, "X-5", 1, 7, 3)
	addSubject(t, school, class, "Math", 2, 7, nil)
	addSubject(t, school, class, "Biology", 2, 6, nil)
	addSubject(t, school, class, "Music", 1, 3, nil)
	rng := seeded(99)

	for i := 0; i < 2; i++ {
		class.Timetable().Reset()
		class.Timetable().Generate(rng, school, 0)
		tt := class.Timetable()
		requireDayWidths(t, tt)
		for _, s := range class.Subjects {
			left := 0
			for _, r := range tt.Remainder {
				if r.ID == s.ID {
					left++
				}
			}
			assert.Equal(t, s.WeeklyQuota, placedPeriods(tt)[s.ID]+left)
		}
	}
}

func TestGenerateSharedTeacherEventuallyClashFree(t *testing.T) {
	for seed := int64(1); seed <= 15; seed++ {
		school := newTestSchool(t)
		teacher, err := school.AddTeacher("t-1", "Ana")
		require.NoError(t, err)

		first := addUniformClass(t, school, "A", 1, 5, 2)
		second := addUniformClass(t, school, "B", 1, 5, 2)
		for _, class := range []*Class{first, second} {
			addSubject(t, school, class, "Math", 1, 5, teacher)
			addSubject(t, school, class, "Physics", 1, 5, nil)
			addSubject(t, school, class, "History", 1, 5, nil)
			addSubject(t, school, class, "English", 1, 5, nil)
		}

		rng := seeded(seed)
		results := school.GenerateAll(rng)
		require.Len(t, results, 2)
		assert.Equal(t, first, results[0].Class)

		// Slot choice is random, so a clash-free layout may take a few regenerations.
		for i := 0; i < 80 && len(school.Clashes()) > 0; i++ {
			school.GenerateTimetable(second, rng)
		}
		require.Empty(t, school.Clashes(), "seed %d", seed)

		mathA := first.SubjectByName("Math")
		mathB := second.SubjectByName("Math")
		for day := range weekdays {
			for period := 0; period < 5; period++ {
				a, _ := first.Timetable().EntryAt(day, period)
				b, _ := second.Timetable().EntryAt(day, period)
				if a.ID == mathA.ID {
					assert.NotEqual(t, mathB.ID, b.ID, "seed %d day %d period %d", seed, day, period)
				}
			}
		}
	}
}

func TestGenerateRespectsMondayCommitment(t *testing.T) {
	school := newTestSchool(t)
	teacher, err := school.AddTeacher("t-1", "Ana")
	require.NoError(t, err)
	first := addUniformClass(t, school, "A", 1, 5, 2)
	second := addUniformClass(t, school, "B", 1, 5, 2)
	mathA := addSubject(t, school, first, "Math", 1, 1, teacher)
	mathB := addSubject(t, school, second, "Math", 1, 5, teacher)
	addSubject(t, school, second, "Art", 1, 5, nil)

	var placements []Placement
	for d := range weekdays {
		placements = append(placements,
			Placement{Day: d, Start: 0, Width: 1, SubjectID: FreeID},
			Placement{Day: d, Start: 2, Width: 1, SubjectID: BreakID},
			Placement{Day: d, Start: 3, Width: 2, SubjectID: FreeID},
		)
		if d == 0 {
			placements = append(placements, Placement{Day: d, Start: 1, Width: 1, SubjectID: mathA.ID})
		} else {
			placements = append(placements, Placement{Day: d, Start: 1, Width: 1, SubjectID: FreeID})
		}
	}
	require.NoError(t, first.Timetable().Restore(placements, nil))
	school.Commit(first)

	for seed := int64(1); seed <= 10; seed++ {
		school.GenerateTimetable(second, seeded(seed))
		entry, _ := second.Timetable().EntryAt(0, 1)
		require.NotNil(t, entry)
		assert.NotEqual(t, mathB.ID, entry.ID, "seed %d", seed)
	}
}

func TestGenerateBestEffortAfterCap(t *testing.T) {
	school := newTestSchool(t, WithMaxAttempts(3))
	teacher, err := school.AddTeacher("t-1", "Ana")
	require.NoError(t, err)
	first := addUniformClass(t, school, "A", 1, 3, 1)
	second := addUniformClass(t, school, "B", 1, 3, 1)
	addSubject(t, school, first, "Math", 2, 10, teacher)
	addSubject(t, school, second, "Math", 2, 10, teacher)

	results := school.GenerateAll(seeded(5))

	require.Len(t, results, 2)
	for _, r := range results {
		assert.LessOrEqual(t, r.Result.Attempts, 3)
		requireDayWidths(t, r.Class.Timetable())
	}
	assert.Equal(t, 3, results[1].Result.Attempts)
	assert.False(t, results[1].Result.Perfect)
}

func TestFreeSubjectFillsSpareCapacity(t *testing.T) {
	school := newTestSchool(t)
	class := addUniformClass(t, school, "X-6", 1, 6, 2)
	addSubject(t, school, class, "Math", 2, 10, nil)

	tt := class.Timetable()
	require.NotNil(t, tt.free)
	assert.Equal(t, 30-5-10, tt.free.WeeklyQuota)
	assert.Equal(t, 3, tt.free.DailyQuota)

	school.GenerateTimetable(class, seeded(8))
	requireDayWidths(t, tt)
	assert.Empty(t, tt.Remainder)
}

func TestGenerateFeasibleLoadWithSpareCapacityIsPerfect(t *testing.T) {
	weekly := []int{5, 5, 5, 4, 1, 4}
	for seed := int64(1); seed <= 100; seed++ {
		school := newTestSchool(t)
		class := addUniformClass(t, school, "X-7", 1, 7, 1)
		for i, quota := range weekly {
			addSubject(t, school, class, fmt.Sprintf("S%d", i), 1, quota, nil)
		}
		tt := class.Timetable()
		require.NotNil(t, tt.free)
		require.Equal(t, 2, tt.free.DailyQuota)

		result := school.GenerateTimetable(class, seeded(seed))

		require.True(t, result.Perfect, "seed %d: %+v", seed, result)
		assert.Equal(t, 1, result.Attempts, "seed %d", seed)
		assert.Empty(t, tt.Remainder)
		requireDayWidths(t, tt)
		for _, s := range class.Subjects {
			assert.Equal(t, s.WeeklyQuota, placedPeriods(tt)[s.ID], "seed %d subject %s", seed, s.Name)
		}
	}
}
