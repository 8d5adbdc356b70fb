package validator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/courtsched/courtsched/internal/schedule"
)

const scheduleSheet = "Schedule"
const timeLayout = "2006-01-02 15:04"

// ValidateFile re-reads an exported workbook's Schedule sheet and checks
// it against the match list and constraints.
func ValidateFile(matches []schedule.Match, path string, opts schedule.Options) (Report, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	scheduled, err := readSchedule(f)
	if err != nil {
		return Report{}, fmt.Errorf("reading schedule: %w", err)
	}

	return Check(matches, scheduled, opts), nil
}

func readSchedule(f *excelize.File) ([]schedule.ScheduledMatch, error) {
	rows, err := f.GetRows(scheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s sheet: %w", scheduleSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s sheet is empty", scheduleSheet)
	}

	var scheduled []schedule.ScheduledMatch
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 7 || row[0] == "" {
			continue
		}

		start, err := time.Parse(timeLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad start time %q: %w", i+1, row[0], err)
		}
		end, err := time.Parse(timeLayout, row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad end time %q: %w", i+1, row[1], err)
		}
		round, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: bad round %q: %w", i+1, row[3], err)
		}

		scheduled = append(scheduled, schedule.ScheduledMatch{
			Start:   start,
			End:     end,
			Court:   row[2],
			Round:   round,
			MatchID: row[4],
			Home:    row[5],
			Away:    row[6],
		})
	}

	return scheduled, nil
}
