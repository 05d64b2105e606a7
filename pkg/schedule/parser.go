package schedule

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/coursecal/coursecal/pkg/spreadsheet"
)

// ParseResult is the outcome of turning a table's data rows into meeting
// records. Skipped and RowErrors are kept for diagnostics; both kinds of row
// are dropped without aborting the conversion.
type ParseResult struct {
	Records   []MeetingRecord
	Skipped   int
	RowErrors []*RowError
}

// Parser groups normalized rows into deduplicated meeting records.
type Parser struct {
	normalizer *Normalizer
}

func NewParser(normalizer *Normalizer) *Parser {
	return &Parser{normalizer: normalizer}
}

// Parse processes the data rows in order. Records identical in
// (course, section, day-set, time range, date range) are deduplicated,
// keeping first-seen order; cross-listed and multi-campus exports commonly
// repeat a pattern verbatim. When zero records survive, Parse fails with
// NoEventsFoundError.
func (p *Parser) Parse(rows []spreadsheet.Row) (*ParseResult, error) {
	result := &ParseResult{}
	seen := make(map[string]bool)

	for _, row := range rows {
		normalized, err := p.normalizer.Normalize(row)
		if err != nil {
			if errors.Is(err, ErrSkipRow) {
				result.Skipped++
				continue
			}
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				log.Debugf("dropping row: %v", rowErr)
				result.RowErrors = append(result.RowErrors, rowErr)
				continue
			}
			return nil, err
		}

		record := MeetingRecord{
			Course:     normalized.Course,
			Section:    normalized.Section,
			Instructor: normalized.Instructor,
			Days:       normalized.Days,
			StartTime:  normalized.StartTime,
			EndTime:    normalized.EndTime,
			StartDate:  normalized.StartDate,
			EndDate:    normalized.EndDate,
			Location:   normalized.Location,
		}
		key := record.identityKey()
		if seen[key] {
			log.Debugf("duplicate meeting record %s", key)
			continue
		}
		seen[key] = true
		result.Records = append(result.Records, record)
	}

	if len(result.Records) == 0 {
		return nil, &NoEventsFoundError{Skipped: result.Skipped, Invalid: len(result.RowErrors)}
	}

	log.Debugf("parsed %d meeting records (%d rows skipped, %d rows invalid)",
		len(result.Records), result.Skipped, len(result.RowErrors))
	return result, nil
}
