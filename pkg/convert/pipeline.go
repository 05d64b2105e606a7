package convert

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/coursecal/coursecal/pkg/schedule"
	"github.com/coursecal/coursecal/pkg/spreadsheet"
)

// Stage is the position of the conversion pipeline. A failing stage
// short-circuits to StageFailed; nothing runs after it, and StageDone is
// never reached with zero occurrences.
type Stage int

const (
	StageIdle Stage = iota
	StageReading
	StageNormalizing
	StageExpanding
	StageEncoding
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageReading:
		return "reading"
	case StageNormalizing:
		return "normalizing"
	case StageExpanding:
		return "expanding"
	case StageEncoding:
		return "encoding"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is a successful conversion: the calendar bytes plus counts for
// reporting. A failed conversion carries no partial payload.
type Result struct {
	Calendar    []byte
	EventCount  int
	SkippedRows int
	InvalidRows int
}

type Converter interface {
	Convert(ctx context.Context, data []byte, skipBreaks bool) (*Result, error)
}

// OccurrenceExpander produces dated occurrences for one meeting record.
type OccurrenceExpander interface {
	Expand(record schedule.MeetingRecord, skipBreaks bool) ([]schedule.Occurrence, error)
}

// CalendarEncoder serializes occurrences into calendar bytes.
type CalendarEncoder interface {
	Encode(occurrences []schedule.Occurrence) ([]byte, error)
}

// ConverterImpl runs one upload through read → normalize → expand → encode
// as a single in-process computation. Each invocation is independent; no
// state crosses conversions, so converting the same bytes twice is
// idempotent.
type ConverterImpl struct {
	expander OccurrenceExpander
	encoder  CalendarEncoder
}

func NewConverter(expander OccurrenceExpander, encoder CalendarEncoder) *ConverterImpl {
	return &ConverterImpl{expander: expander, encoder: encoder}
}

func (c *ConverterImpl) Convert(ctx context.Context, data []byte, skipBreaks bool) (*Result, error) {
	stage := StageIdle

	fail := func(kind ErrorKind, err error) (*Result, error) {
		failedAt := stage
		stage = StageFailed
		convErr := &ConversionError{Kind: kind, Stage: failedAt, Err: err}
		log.Debugf("%v", convErr)
		return nil, convErr
	}

	stage = StageReading
	if err := ctx.Err(); err != nil {
		return fail(KindInternal, err)
	}
	table, err := spreadsheet.Read(data, schedule.ColumnCourse)
	if err != nil {
		return fail(KindInvalidUpload, err)
	}

	stage = StageNormalizing
	normalizer, err := schedule.NewNormalizer(table)
	if err != nil {
		return fail(KindMissingColumn, err)
	}
	parsed, err := schedule.NewParser(normalizer).Parse(table.Rows)
	if err != nil {
		var notFound *schedule.NoEventsFoundError
		if errors.As(err, &notFound) {
			return fail(KindNoEventsFound, err)
		}
		return fail(KindInternal, err)
	}

	stage = StageExpanding
	if err := ctx.Err(); err != nil {
		return fail(KindInternal, err)
	}
	var occurrences []schedule.Occurrence
	for _, record := range parsed.Records {
		expanded, err := c.expander.Expand(record, skipBreaks)
		if err != nil {
			return fail(KindInternal, err)
		}
		occurrences = append(occurrences, expanded...)
	}
	if len(occurrences) == 0 {
		// Possible when every meeting falls entirely inside exclusion
		// windows; an empty calendar is a user-facing error, not a file.
		return fail(KindNoEventsFound, &schedule.NoEventsFoundError{
			Skipped: parsed.Skipped,
			Invalid: len(parsed.RowErrors),
		})
	}

	stage = StageEncoding
	payload, err := c.encoder.Encode(occurrences)
	if err != nil {
		return fail(KindEncoding, err)
	}

	stage = StageDone
	log.Infof("conversion %s: %d events from %d meeting records (%d rows skipped, %d rows invalid)",
		stage, len(occurrences), len(parsed.Records), parsed.Skipped, len(parsed.RowErrors))
	return &Result{
		Calendar:    payload,
		EventCount:  len(occurrences),
		SkippedRows: parsed.Skipped,
		InvalidRows: len(parsed.RowErrors),
	}, nil
}
