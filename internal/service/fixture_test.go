package service

import (
	"github.com/noah-isme/sma-timetable/internal/dto"
)

func uniformWeek(days, value int) []int {
	out := make([]int, days)
	for i := range out {
		out[i] = value
	}
	return out
}

// sampleProject is a two-class level sharing four teachers: 25 teachable periods per class and a
// weekly demand of 19, with Science locked to the first two Monday periods of 7A.
func sampleProject() dto.Project {
	days := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	class := func(id string) dto.Class {
		return dto.Class{ID: id, Name: "Class " + id, PeriodsPerDay: uniformWeek(len(days), 6), BreakPeriods: uniformWeek(len(days), 2)}
	}
	timings := func(teacher string, daily, weekly int) []dto.SubjectTiming {
		return []dto.SubjectTiming{
			{ClassID: "7A", TeacherID: teacher, DailyQuota: daily, WeeklyQuota: weekly},
			{ClassID: "7B", TeacherID: teacher, DailyQuota: daily, WeeklyQuota: weekly},
		}
	}
	science := timings("T3", 2, 5)
	science[0].Lock = &dto.Lock{Day: 0, Start: 0, Length: 2}

	return dto.Project{
		Name: "Term 1",
		Days: days,
		Teachers: []dto.Teacher{
			{ID: "T1", Name: "Ayu"},
			{ID: "T2", Name: "Budi"},
			{ID: "T3", Name: "Citra"},
			{ID: "T4", Name: "Dewi"},
		},
		Levels: []dto.Level{{
			Index:   0,
			Name:    "Grade 7",
			Classes: []dto.Class{class("7A"), class("7B")},
			Subjects: []dto.Subject{
				{Name: "Math", Timings: timings("T1", 2, 6)},
				{Name: "English", Timings: timings("T2", 2, 5)},
				{Name: "Science", Timings: science},
				{Name: "Art", Timings: timings("T4", 1, 3)},
			},
		}},
	}
}
