package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var rruleWeekday = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Expander produces concrete occurrences for meeting records. All times are
// wall-clock in the institution's civil time zone; no conversion is
// performed.
type Expander struct {
	location *time.Location
	windows  []ExclusionWindow
}

func NewExpander(location *time.Location, windows []ExclusionWindow) *Expander {
	return &Expander{location: location, windows: windows}
}

// Expand returns the date-ascending occurrences of the record: every date in
// [StartDate, EndDate] (both inclusive) whose weekday is in the record's day
// set. With skipBreaks, dates inside any exclusion window are removed; a
// window does not need to align with the record's weekday pattern.
func (e *Expander) Expand(record MeetingRecord, skipBreaks bool) ([]Occurrence, error) {
	byweekday := make([]rrule.Weekday, 0, len(record.Days))
	for _, d := range record.Days {
		byweekday = append(byweekday, rruleWeekday[d])
	}

	// Candidate dates at midnight; with Until on the end date's midnight the
	// end date itself stays inclusive.
	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   e.midnight(record.StartDate),
		Until:     e.midnight(record.EndDate),
		Byweekday: byweekday,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule for %s: %w", record.Title(), err)
	}

	var occurrences []Occurrence
	for _, date := range rule.All() {
		if skipBreaks && e.excluded(date) {
			continue
		}
		occurrences = append(occurrences, e.occurrence(record, date))
	}
	return occurrences, nil
}

func (e *Expander) excluded(date time.Time) bool {
	for _, w := range e.windows {
		if w.Contains(date) {
			return true
		}
	}
	return false
}

func (e *Expander) occurrence(record MeetingRecord, date time.Time) Occurrence {
	start := time.Date(date.Year(), date.Month(), date.Day(),
		record.StartTime.Hour, record.StartTime.Minute, 0, 0, e.location)
	end := time.Date(date.Year(), date.Month(), date.Day(),
		record.EndTime.Hour, record.EndTime.Minute, 0, 0, e.location)
	return Occurrence{
		Date:     toDate(date),
		Start:    start,
		End:      end,
		Title:    record.Title(),
		Location: record.Location,
		Description: fmt.Sprintf("Instructor: %s\nTime: %s %s-%s",
			record.Instructor, FormatDays(record.Days), record.StartTime, record.EndTime),
	}
}

func (e *Expander) midnight(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, e.location)
}
