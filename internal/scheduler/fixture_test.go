package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func newTestSchool(t *testing.T, opts ...Option) *School {
	t.Helper()
	school, err := NewSchool(weekdays, opts...)
	require.NoError(t, err)
	return school
}

func uniform(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func addUniformClass(t *testing.T, school *School, id string, level, periods, brk int) *Class {
	t.Helper()
	class, err := school.AddClass(id, id, level, uniform(len(school.Days), periods), uniform(len(school.Days), brk))
	require.NoError(t, err)
	return class
}

func addSubject(t *testing.T, school *School, class *Class, name string, daily, weekly int, teacher *Teacher) *Subject {
	t.Helper()
	subject, err := school.AddSubject(class, name, daily, weekly, teacher)
	require.NoError(t, err)
	return subject
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func requireDayWidths(t *testing.T, tt *Timetable) {
	t.Helper()
	for day, info := range tt.WeekInfo {
		require.Equal(t, info.Periods, tt.Width(day), "width of %s", info.Name)
		brk, _ := tt.EntryAt(day, info.Break)
		require.NotNil(t, brk)
		require.Equal(t, KindBreak, brk.Kind, "break of %s", info.Name)
	}
}

// placedPeriods counts placed periods per subject id across the week.
func placedPeriods(tt *Timetable) map[int]int {
	counts := make(map[int]int)
	for _, entries := range tt.Table {
		for _, e := range entries {
			if !e.IsPseudo() {
				counts[e.ID] += e.Total
			}
		}
	}
	return counts
}
