// Package excel exports a schedule as an Excel workbook: a flat Schedule
// sheet (the one the validator reads back), a per-court grid, and one
// sheet per team.
package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/courtsched/courtsched/internal/config"
	"github.com/courtsched/courtsched/internal/schedule"
)

const timeLayout = "2006-01-02 15:04"

// Generate creates a workbook for a scheduling result.
func Generate(cfg *config.Config, result *schedule.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetDefaultFont("Arial")

	if err := writeScheduleSheet(f, result); err != nil {
		return nil, fmt.Errorf("writing schedule sheet: %w", err)
	}
	if err := writeCourtGrid(f, cfg, result); err != nil {
		return nil, fmt.Errorf("writing court grid: %w", err)
	}
	if err := writeTeamSheets(f, result); err != nil {
		return nil, fmt.Errorf("writing team sheets: %w", err)
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func headerStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 16, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return style
}

func bodyStyle(f *excelize.File) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 16, Family: "Arial"},
	})
	return style
}

// sortedMatches returns the result matches ordered by (start, court).
func sortedMatches(result *schedule.Result) []schedule.ScheduledMatch {
	matches := make([]schedule.ScheduledMatch, len(result.Matches))
	copy(matches, result.Matches)
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Start.Equal(matches[j].Start) {
			return matches[i].Start.Before(matches[j].Start)
		}
		return matches[i].Court < matches[j].Court
	})
	return matches
}

func writeScheduleSheet(f *excelize.File, result *schedule.Result) error {
	sheet := "Schedule"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Start", "End", "Court", "Round", "Match", "Home", "Away"}
	hs := headerStyle(f)
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
		if hs != 0 {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), hs)
		}
	}

	bs := bodyStyle(f)
	for i, sm := range sortedMatches(result) {
		row := i + 2
		f.SetCellValue(sheet, cellRef(1, row), sm.Start.Format(timeLayout))
		f.SetCellValue(sheet, cellRef(2, row), sm.End.Format(timeLayout))
		f.SetCellValue(sheet, cellRef(3, row), sm.Court)
		f.SetCellValue(sheet, cellRef(4, row), fmt.Sprintf("%d", sm.Round))
		f.SetCellValue(sheet, cellRef(5, row), sm.MatchID)
		f.SetCellValue(sheet, cellRef(6, row), sm.Home)
		f.SetCellValue(sheet, cellRef(7, row), sm.Away)
		if bs != 0 {
			for col := 1; col <= len(headers); col++ {
				f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), bs)
			}
		}
	}

	widths := map[string]float64{"A": 20, "B": 20, "C": 16, "D": 8, "E": 12, "F": 18, "G": 18}
	for col, w := range widths {
		f.SetColWidth(sheet, col, col, w)
	}
	return nil
}

func writeCourtGrid(f *excelize.File, cfg *config.Config, result *schedule.Result) error {
	sheet := "Court Grid"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := append([]string{"Time"}, cfg.Courts...)
	hs := headerStyle(f)
	for i, h := range headers {
		f.SetCellValue(sheet, cellRef(i+1, 1), h)
		if hs != 0 {
			f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), hs)
		}
	}

	courtIndex := make(map[string]int, len(cfg.Courts))
	for i, c := range cfg.Courts {
		courtIndex[c] = i
	}

	// Collect distinct start times, sorted.
	seen := make(map[time.Time]bool)
	var starts []time.Time
	for _, sm := range result.Matches {
		if !seen[sm.Start] {
			seen[sm.Start] = true
			starts = append(starts, sm.Start)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	rowFor := make(map[time.Time]int, len(starts))
	bs := bodyStyle(f)
	for i, start := range starts {
		row := i + 2
		rowFor[start] = row
		f.SetCellValue(sheet, cellRef(1, row), start.Format(timeLayout))
		if bs != 0 {
			f.SetCellStyle(sheet, cellRef(1, row), cellRef(1, row), bs)
		}
	}

	for _, sm := range sortedMatches(result) {
		ci, ok := courtIndex[sm.Court]
		if !ok {
			continue
		}
		row := rowFor[sm.Start]
		cell := cellRef(ci+2, row)
		f.SetCellValue(sheet, cell, fmt.Sprintf("%s vs %s (%s)", sm.Home, sm.Away, sm.MatchID))
		if bs != 0 {
			f.SetCellStyle(sheet, cell, cell, bs)
		}
	}

	f.SetColWidth(sheet, "A", "A", 20)
	for i := range cfg.Courts {
		col := colLetter(i + 2)
		f.SetColWidth(sheet, col, col, 32)
	}
	return nil
}

// placeholder reports whether a participant identity is a symbolic slot
// ("W:SF1") rather than a real team.
func placeholder(name string) bool {
	return strings.Contains(name, ":")
}

func writeTeamSheets(f *excelize.File, result *schedule.Result) error {
	teamSet := make(map[string]bool)
	for _, sm := range result.Matches {
		for _, name := range []string{sm.Home, sm.Away} {
			if name != "" && !placeholder(name) {
				teamSet[name] = true
			}
		}
	}
	teams := make([]string, 0, len(teamSet))
	for name := range teamSet {
		teams = append(teams, name)
	}
	sort.Strings(teams)

	hs := headerStyle(f)
	bs := bodyStyle(f)
	headers := []string{"Start", "End", "Court", "Opponent", "Match"}

	for _, team := range teams {
		sheet := team
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		for i, h := range headers {
			f.SetCellValue(sheet, cellRef(i+1, 1), h)
			if hs != 0 {
				f.SetCellStyle(sheet, cellRef(i+1, 1), cellRef(i+1, 1), hs)
			}
		}

		row := 2
		for _, sm := range sortedMatches(result) {
			var opponent string
			switch team {
			case sm.Home:
				opponent = sm.Away
			case sm.Away:
				opponent = sm.Home
			default:
				continue
			}
			f.SetCellValue(sheet, cellRef(1, row), sm.Start.Format(timeLayout))
			f.SetCellValue(sheet, cellRef(2, row), sm.End.Format(timeLayout))
			f.SetCellValue(sheet, cellRef(3, row), sm.Court)
			f.SetCellValue(sheet, cellRef(4, row), opponent)
			f.SetCellValue(sheet, cellRef(5, row), sm.MatchID)
			if bs != 0 {
				for col := 1; col <= len(headers); col++ {
					f.SetCellStyle(sheet, cellRef(col, row), cellRef(col, row), bs)
				}
			}
			row++
		}

		widths := map[string]float64{"A": 20, "B": 20, "C": 16, "D": 18, "E": 12}
		for col, w := range widths {
			f.SetColWidth(sheet, col, col, w)
		}
	}
	return nil
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
