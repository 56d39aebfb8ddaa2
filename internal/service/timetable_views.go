package service

import (
	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/scheduler"
)

func kindName(kind scheduler.SubjectKind) string {
	switch kind {
	case scheduler.KindBreak:
		return "BREAK"
	case scheduler.KindFree:
		return "FREE"
	default:
		return "SUBJECT"
	}
}

func teacherID(s *scheduler.Subject) string {
	if s.Teacher == nil {
		return ""
	}
	return s.Teacher.ID
}

func buildTimetableView(projectID string, school *scheduler.School, class *scheduler.Class) dto.TimetableView {
	tt := class.Timetable()
	view := dto.TimetableView{
		ProjectID: projectID,
		ClassID:   class.ID,
		ClassName: class.Name,
		Generated: school.Committed(class),
		Remainder: len(tt.Remainder),
		Days:      make([]dto.TimetableDay, 0, len(tt.WeekInfo)),
	}
	for day, info := range tt.WeekInfo {
		d := dto.TimetableDay{Day: day, Name: info.Name, Periods: info.Periods, Break: info.Break, Entries: []dto.TimetableEntry{}}
		start := 0
		for index, e := range tt.Table[day] {
			d.Entries = append(d.Entries, dto.TimetableEntry{
				Index:     index,
				Start:     start,
				Width:     e.Total,
				SubjectID: e.ID,
				Subject:   e.Name,
				Kind:      kindName(e.Kind),
				TeacherID: teacherID(e),
				Locked:    e.Locked(),
			})
			start += e.Total
		}
		view.Days = append(view.Days, d)
	}
	return view
}

func buildRemainder(class *scheduler.Class) []dto.RemainderItem {
	items := make([]dto.RemainderItem, 0, len(class.Timetable().Remainder))
	for i, r := range class.Timetable().Remainder {
		items = append(items, dto.RemainderItem{Index: i, SubjectID: r.ID, Subject: r.Name, TeacherID: teacherID(r)})
	}
	return items
}

func buildClashes(school *scheduler.School) []dto.ClashItem {
	clashes := school.Clashes()
	items := make([]dto.ClashItem, 0, len(clashes))
	for _, c := range clashes {
		item := dto.ClashItem{
			ClassID:   c.Class.ID,
			Subject:   c.Subject.Name,
			TeacherID: teacherID(c.Subject),
			Day:       c.Day,
			DayName:   school.Days[c.Day],
			Start:     c.Start,
			Width:     c.Subject.Total,
		}
		for _, p := range c.With {
			item.With = append(item.With, dto.ClashPeer{ClassID: p.Class.ID, Subject: p.Subject.Name, Start: p.Start, Width: p.Subject.Total})
		}
		items = append(items, item)
	}
	return items
}
