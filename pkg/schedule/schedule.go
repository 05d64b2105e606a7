package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Header names of the required and optional columns in the schedule export.
const (
	ColumnCourse     = "Course"
	ColumnSection    = "Section"
	ColumnDays       = "Meeting Days"
	ColumnStartTime  = "Start Time"
	ColumnEndTime    = "End Time"
	ColumnStartDate  = "Start Date"
	ColumnEndDate    = "End Date"
	ColumnLocation   = "Location"
	ColumnInstructor = "Instructor"
)

// TimeOfDay is a wall-clock time without a date or zone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// NormalizedRow is one validated row of the schedule export. Days is ordered
// Monday..Sunday and non-empty; StartTime is strictly before EndTime and
// StartDate is not after EndDate (both enforced at construction).
type NormalizedRow struct {
	Course     string
	Section    string
	Days       []time.Weekday
	StartTime  TimeOfDay
	EndTime    TimeOfDay
	StartDate  time.Time // midnight UTC, date only
	EndDate    time.Time // midnight UTC, date only
	Location   string
	Instructor string
}

// MeetingRecord is one distinct day/time pattern of a course section, prior
// to date expansion. A section may own several records (lecture + lab).
type MeetingRecord struct {
	Course     string
	Section    string
	Instructor string
	Days       []time.Weekday
	StartTime  TimeOfDay
	EndTime    TimeOfDay
	StartDate  time.Time
	EndDate    time.Time
	Location   string
}

// Title is the display title of every occurrence of this record.
func (m MeetingRecord) Title() string {
	title := m.Course + " " + m.Section
	if m.Instructor != "" {
		title += " (" + m.Instructor + ")"
	}
	return title
}

// identityKey is the deduplication identity of a record within one upload.
func (m MeetingRecord) identityKey() string {
	return strings.Join([]string{
		m.Course,
		m.Section,
		FormatDays(m.Days),
		m.StartTime.String(),
		m.EndTime.String(),
		m.StartDate.Format(time.DateOnly),
		m.EndDate.Format(time.DateOnly),
	}, "|")
}

// Occurrence is one concrete dated instance of a meeting record, with
// resolved start and end in the institution's civil time zone.
type Occurrence struct {
	Date        time.Time
	Start       time.Time
	End         time.Time
	Title       string
	Location    string
	Description string
}

// ExclusionWindow is an inclusive date range during which no occurrences are
// generated (institutional holidays and reading breaks).
type ExclusionWindow struct {
	Name string
	From time.Time
	To   time.Time
}

// Contains reports whether the given calendar date falls inside the window.
// Only the date parts are compared.
func (w ExclusionWindow) Contains(date time.Time) bool {
	d := toDate(date)
	return !d.Before(toDate(w.From)) && !d.After(toDate(w.To))
}

var dayOrder = map[time.Weekday]int{
	time.Monday:    0,
	time.Tuesday:   1,
	time.Wednesday: 2,
	time.Thursday:  3,
	time.Friday:    4,
	time.Saturday:  5,
	time.Sunday:    6,
}

var dayToken = map[time.Weekday]string{
	time.Monday:    "Mo",
	time.Tuesday:   "Tu",
	time.Wednesday: "We",
	time.Thursday:  "Th",
	time.Friday:    "Fr",
	time.Saturday:  "Sa",
	time.Sunday:    "Su",
}

// FormatDays renders a weekday set in the compact export notation ("MoWeFr").
func FormatDays(days []time.Weekday) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(dayToken[d])
	}
	return b.String()
}

func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
