package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecal/coursecal/pkg/spreadsheet"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	normalizer, err := NewNormalizer(scheduleTable(scheduleHeaders))
	require.NoError(t, err)
	return NewParser(normalizer)
}

func TestParse(t *testing.T) {
	t.Run("builds records in first-seen order", func(t *testing.T) {
		parser := newTestParser(t)
		rows := []spreadsheet.Row{
			dataRow(4, "CPSC 121", "001", "MoWeFr", "10:00", "11:00", "2024-09-03", "2024-12-02", "DMP 110", ""),
			dataRow(5, "CPEN 211", "T1B", "Tu", "14:00", "16:00", "2024-09-03", "2024-12-02", "MCLD 242", ""),
		}

		result, err := parser.Parse(rows)
		require.NoError(t, err)
		require.Len(t, result.Records, 2)
		assert.Equal(t, "CPSC 121", result.Records[0].Course)
		assert.Equal(t, "CPEN 211", result.Records[1].Course)
		assert.Zero(t, result.Skipped)
		assert.Empty(t, result.RowErrors)
	})

	t.Run("deduplicates identical patterns", func(t *testing.T) {
		parser := newTestParser(t)
		row := dataRow(4, "CPSC 121", "001", "MoWeFr", "10:00", "11:00", "2024-09-03", "2024-12-02", "DMP 110", "")
		duplicate := dataRow(5, "CPSC 121", "001", "MoWeFr", "10:00", "11:00", "2024-09-03", "2024-12-02", "DMP 110", "")

		result, err := parser.Parse([]spreadsheet.Row{row, duplicate})
		require.NoError(t, err)
		assert.Len(t, result.Records, 1)
	})

	t.Run("overlapping but distinct patterns are kept separate", func(t *testing.T) {
		parser := newTestParser(t)
		lecture := dataRow(4, "CPSC 121", "001", "MoWeFr", "10:00", "11:00", "2024-09-03", "2024-12-02", "", "")
		lab := dataRow(5, "CPSC 121", "001", "MoWeFr", "10:00", "11:30", "2024-09-03", "2024-12-02", "", "")

		result, err := parser.Parse([]spreadsheet.Row{lecture, lab})
		require.NoError(t, err)
		assert.Len(t, result.Records, 2)
	})

	t.Run("invalid row is dropped and counted, valid rows survive", func(t *testing.T) {
		parser := newTestParser(t)
		broken := dataRow(4, "CPSC 121", "001", "MoWeFr", "—", "11:00", "2024-09-03", "2024-12-02", "", "")
		valid := dataRow(5, "CPEN 211", "T1B", "Tu", "14:00", "16:00", "2024-09-03", "2024-12-02", "", "")

		result, err := parser.Parse([]spreadsheet.Row{broken, valid})
		require.NoError(t, err)
		assert.Len(t, result.Records, 1)
		require.Len(t, result.RowErrors, 1)
		assert.Equal(t, InvalidTime, result.RowErrors[0].Kind)
		assert.Equal(t, 4, result.RowErrors[0].Row)
	})

	t.Run("asynchronous rows are skipped and counted", func(t *testing.T) {
		parser := newTestParser(t)
		async := dataRow(4, "CPSC 110", "002", "", "", "", "", "", "", "")
		valid := dataRow(5, "CPSC 121", "001", "MoWeFr", "10:00", "11:00", "2024-09-03", "2024-12-02", "", "")

		result, err := parser.Parse([]spreadsheet.Row{async, valid})
		require.NoError(t, err)
		assert.Len(t, result.Records, 1)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("no data rows fails with NoEventsFoundError", func(t *testing.T) {
		parser := newTestParser(t)

		_, err := parser.Parse(nil)
		var notFound *NoEventsFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Zero(t, notFound.Skipped)
		assert.Zero(t, notFound.Invalid)
	})

	t.Run("all rows failing surfaces aggregated counts", func(t *testing.T) {
		parser := newTestParser(t)
		rows := []spreadsheet.Row{
			dataRow(4, "CPSC 121", "001", "MoWeFr", "—", "11:00", "2024-09-03", "2024-12-02", "", ""),
			dataRow(5, "CPSC 110", "002", "", "", "", "", "", "", ""),
		}

		_, err := parser.Parse(rows)
		var notFound *NoEventsFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, 1, notFound.Skipped)
		assert.Equal(t, 1, notFound.Invalid)
	})
}

func TestMeetingRecordTitle(t *testing.T) {
	record := MeetingRecord{Course: "CPSC 121", Section: "001"}
	assert.Equal(t, "CPSC 121 001", record.Title())

	record.Instructor = "Gregor Kiczales"
	assert.Equal(t, "CPSC 121 001 (Gregor Kiczales)", record.Title())
}
