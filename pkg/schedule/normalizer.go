package schedule

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/coursecal/coursecal/pkg/spreadsheet"
)

var requiredColumns = []string{
	ColumnCourse,
	ColumnSection,
	ColumnDays,
	ColumnStartTime,
	ColumnEndTime,
	ColumnStartDate,
	ColumnEndDate,
}

// Qualifiers like "(Alternate weeks)" appear inside the day pattern in some
// exports and are not part of the weekday tokens.
var parenthesized = regexp.MustCompile(`\s*\([^)]*\)`)

var weekdayNames = map[string]time.Weekday{
	"mo": time.Monday, "mon": time.Monday, "monday": time.Monday,
	"tu": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"we": time.Wednesday, "wed": time.Wednesday, "wednesday": time.Wednesday,
	"th": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fr": time.Friday, "fri": time.Friday, "friday": time.Friday,
	"sa": time.Saturday, "sat": time.Saturday, "saturday": time.Saturday,
	"su": time.Sunday, "sun": time.Sunday, "sunday": time.Sunday,
}

var timeLayouts = []string{"15:04", "15:04:05", "3:04 pm", "3:04pm", "3 pm", "3pm"}

var dateLayouts = []string{time.DateOnly, "Jan 2, 2006", "January 2, 2006", "1/2/2006"}

type columnSet struct {
	course     int
	section    int
	days       int
	startTime  int
	endTime    int
	startDate  int
	endDate    int
	location   int
	instructor int
}

// Normalizer turns raw table rows into NormalizedRows. Construction fails
// with MissingColumnError when a required header is absent from the sheet.
type Normalizer struct {
	cols columnSet
}

func NewNormalizer(table *spreadsheet.Table) (*Normalizer, error) {
	for _, name := range requiredColumns {
		if _, ok := table.Column(name); !ok {
			return nil, &MissingColumnError{Column: name}
		}
	}
	var cols columnSet
	cols.course, _ = table.Column(ColumnCourse)
	cols.section, _ = table.Column(ColumnSection)
	cols.days, _ = table.Column(ColumnDays)
	cols.startTime, _ = table.Column(ColumnStartTime)
	cols.endTime, _ = table.Column(ColumnEndTime)
	cols.startDate, _ = table.Column(ColumnStartDate)
	cols.endDate, _ = table.Column(ColumnEndDate)
	cols.location = optionalColumn(table, ColumnLocation)
	cols.instructor = optionalColumn(table, ColumnInstructor)
	return &Normalizer{cols: cols}, nil
}

func optionalColumn(table *spreadsheet.Table, name string) int {
	idx, ok := table.Column(name)
	if !ok {
		return -1
	}
	return idx
}

// Normalize validates one data row. It returns ErrSkipRow for rows that
// carry no scheduled meeting (blank rows, asynchronous components without a
// day pattern) and a RowError for rows that should have parsed but did not.
func (n *Normalizer) Normalize(row spreadsheet.Row) (NormalizedRow, error) {
	course := row.Cell(n.cols.course)
	daysRaw := row.Cell(n.cols.days)

	// Blank rows and rows without a course are not meetings. A course row
	// without a day pattern is an asynchronous or no-meeting component;
	// neither case is an error.
	if course == "" || daysRaw == "" {
		return NormalizedRow{}, ErrSkipRow
	}

	days, err := ParseDayPattern(daysRaw)
	if err != nil {
		return NormalizedRow{}, &RowError{Row: row.Number, Kind: InvalidDayPattern, Detail: err.Error()}
	}

	startTime, err := parseTimeOfDay(row.Cell(n.cols.startTime))
	if err != nil {
		return NormalizedRow{}, &RowError{Row: row.Number, Kind: InvalidTime, Detail: err.Error()}
	}
	endTime, err := parseTimeOfDay(row.Cell(n.cols.endTime))
	if err != nil {
		return NormalizedRow{}, &RowError{Row: row.Number, Kind: InvalidTime, Detail: err.Error()}
	}
	if !startTime.Before(endTime) {
		return NormalizedRow{}, &RowError{
			Row:    row.Number,
			Kind:   InvalidTime,
			Detail: fmt.Sprintf("start time %s is not before end time %s", startTime, endTime),
		}
	}

	startDate, err := parseDate(row.Cell(n.cols.startDate))
	if err != nil {
		return NormalizedRow{}, &RowError{Row: row.Number, Kind: InvalidDateRange, Detail: err.Error()}
	}
	endDate, err := parseDate(row.Cell(n.cols.endDate))
	if err != nil {
		return NormalizedRow{}, &RowError{Row: row.Number, Kind: InvalidDateRange, Detail: err.Error()}
	}
	if endDate.Before(startDate) {
		return NormalizedRow{}, &RowError{
			Row:    row.Number,
			Kind:   InvalidDateRange,
			Detail: fmt.Sprintf("end date %s is before start date %s", endDate.Format(time.DateOnly), startDate.Format(time.DateOnly)),
		}
	}

	normalized := NormalizedRow{
		Course:    course,
		Section:   row.Cell(n.cols.section),
		Days:      days,
		StartTime: startTime,
		EndTime:   endTime,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if n.cols.location >= 0 {
		normalized.Location = row.Cell(n.cols.location)
	}
	if n.cols.instructor >= 0 {
		normalized.Instructor = row.Cell(n.cols.instructor)
	}
	return normalized, nil
}

// ParseDayPattern parses a day pattern such as "MoWeFr", "Mon Wed Fri" or
// "Tue, Thu" into an ordered weekday set (Monday first, duplicates
// collapsed).
func ParseDayPattern(pattern string) ([]time.Weekday, error) {
	cleaned := parenthesized.ReplaceAllString(pattern, "")
	cleaned = strings.ReplaceAll(cleaned, ",", " ")

	seen := make(map[time.Weekday]bool)
	var days []time.Weekday
	add := func(d time.Weekday) {
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}

	for _, token := range strings.Fields(cleaned) {
		key := strings.ToLower(token)
		if d, ok := weekdayNames[key]; ok {
			add(d)
			continue
		}
		// Compact notation: pairs of two-letter tokens ("MoWeFr").
		if len(key)%2 != 0 {
			return nil, fmt.Errorf("unrecognized day token %q", token)
		}
		for i := 0; i < len(key); i += 2 {
			d, ok := weekdayNames[key[i:i+2]]
			if !ok {
				return nil, fmt.Errorf("unrecognized day token %q", token)
			}
			add(d)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("empty day pattern %q", pattern)
	}

	sort.Slice(days, func(i, j int) bool {
		return dayOrder[days[i]] < dayOrder[days[j]]
	})
	return days, nil
}

func parseTimeOfDay(value string) (TimeOfDay, error) {
	// Workday writes "4:00 p.m."; drop the periods and lowercase before
	// matching layouts.
	cleaned := strings.ToLower(strings.ReplaceAll(value, ".", ""))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("unparsable time %q", value)
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return toDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparsable date %q", value)
}
