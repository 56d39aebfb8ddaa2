package dto

// TimetableEntry is one placed entry of a weekday.
type TimetableEntry struct {
	Index     int    `json:"index"`
	Start     int    `json:"start"`
	Width     int    `json:"width"`
	SubjectID int    `json:"subjectId"`
	Subject   string `json:"subject"`
	Kind      string `json:"kind"`
	TeacherID string `json:"teacherId,omitempty"`
	Locked    bool   `json:"locked"`
}

// TimetableDay lists the placed entries of one weekday in period order.
type TimetableDay struct {
	Day     int              `json:"day"`
	Name    string           `json:"name"`
	Periods int              `json:"periods"`
	Break   int              `json:"break"`
	Entries []TimetableEntry `json:"entries"`
}

// TimetableView is the full weekly grid of a class.
type TimetableView struct {
	ProjectID string         `json:"projectId"`
	ClassID   string         `json:"classId"`
	ClassName string         `json:"className"`
	Generated bool           `json:"generated"`
	Remainder int            `json:"remainder"`
	Days      []TimetableDay `json:"days"`
}

// RemainderItem is one unplaced period.
type RemainderItem struct {
	Index     int    `json:"index"`
	SubjectID int    `json:"subjectId"`
	Subject   string `json:"subject"`
	TeacherID string `json:"teacherId,omitempty"`
}

// ClashPeer is the other side of a teacher clash.
type ClashPeer struct {
	ClassID string `json:"classId"`
	Subject string `json:"subject"`
	Start   int    `json:"start"`
	Width   int    `json:"width"`
}

// ClashItem reports a placed entry whose teacher is also busy in another class.
type ClashItem struct {
	ClassID   string      `json:"classId"`
	Subject   string      `json:"subject"`
	TeacherID string      `json:"teacherId"`
	Day       int         `json:"day"`
	DayName   string      `json:"dayName"`
	Start     int         `json:"start"`
	Width     int         `json:"width"`
	With      []ClashPeer `json:"with"`
}

// EntryRequest addresses a placed entry.
type EntryRequest struct {
	Day   int `json:"day" validate:"min=0"`
	Index int `json:"index" validate:"min=0"`
}

// SwapRequest exchanges two placed entries.
type SwapRequest struct {
	DayA   int `json:"dayA" validate:"min=0"`
	IndexA int `json:"indexA" validate:"min=0"`
	DayB   int `json:"dayB" validate:"min=0"`
	IndexB int `json:"indexB" validate:"min=0"`
}

// PlaceRequest moves a remainder period onto a Free entry.
type PlaceRequest struct {
	RemainderIndex int `json:"remainderIndex" validate:"min=0"`
	Day            int `json:"day" validate:"min=0"`
	Index          int `json:"index" validate:"min=0"`
}

// ProjectSaved is returned after a project snapshot is persisted.
type ProjectSaved struct {
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// ExportRow is one CSV row of an exported timetable.
type ExportRow struct {
	Class   string `csv:"class"`
	Day     string `csv:"day"`
	Period  int    `csv:"period"`
	Width   int    `csv:"width"`
	Subject string `csv:"subject"`
	Teacher string `csv:"teacher"`
	Locked  bool   `csv:"locked"`
}
