package excel

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/courtsched/courtsched/internal/config"
	"github.com/courtsched/courtsched/internal/schedule"
	"github.com/courtsched/courtsched/internal/validator"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 6, 6, hour, min, 0, 0, time.UTC)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFromBytes([]byte(`
tournament:
  name: "Spring Open"
  start_time: "2026-06-06 09:00"
courts: [Court 1, Court 2]
rules:
  rest_time: 30m
  court_setup_time: 5m
matches:
  - {id: SF1, home: Aces, away: Setters, round: 1, duration: 45m}
  - {id: SF2, home: Blockers, away: Diggers, round: 1, duration: 45m}
  - {id: F, home: "W:SF1", away: "W:SF2", round: 2, duration: 1h, depends_on: [SF1, SF2]}
`))
	if err != nil {
		t.Fatalf("loading test config: %v", err)
	}
	return cfg
}

func testResult(t *testing.T, cfg *config.Config) *schedule.Result {
	t.Helper()
	result, err := schedule.Schedule(cfg.MatchList(), cfg.Courts, cfg.Options())
	if err != nil {
		t.Fatalf("scheduling: %v", err)
	}
	return result
}

func TestGenerateWorkbookStructure(t *testing.T) {
	cfg := testConfig(t)
	result := testResult(t, cfg)

	f, err := Generate(cfg, result)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	defer f.Close()

	t.Run("schedule sheet has one row per match", func(t *testing.T) {
		rows, err := f.GetRows("Schedule")
		if err != nil {
			t.Fatalf("GetRows: %v", err)
		}
		if want := len(result.Matches) + 1; len(rows) != want {
			t.Fatalf("rows = %d, want %d", len(rows), want)
		}
		header := rows[0]
		want := []string{"Start", "End", "Court", "Round", "Match", "Home", "Away"}
		for i, h := range want {
			if header[i] != h {
				t.Errorf("header[%d] = %q, want %q", i, header[i], h)
			}
		}
	})

	t.Run("court grid has one column per court", func(t *testing.T) {
		rows, err := f.GetRows("Court Grid")
		if err != nil {
			t.Fatalf("GetRows: %v", err)
		}
		if len(rows) == 0 {
			t.Fatal("Court Grid is empty")
		}
		header := rows[0]
		if len(header) != 3 || header[1] != "Court 1" || header[2] != "Court 2" {
			t.Errorf("header = %v", header)
		}
	})

	t.Run("team sheets exist for real teams only", func(t *testing.T) {
		for _, team := range []string{"Aces", "Setters", "Blockers", "Diggers"} {
			if idx, _ := f.GetSheetIndex(team); idx < 0 {
				t.Errorf("missing sheet for %s", team)
			}
		}
		if idx, _ := f.GetSheetIndex("W:SF1"); idx >= 0 {
			t.Error("placeholder W:SF1 got its own sheet")
		}
	})

	t.Run("default sheet removed", func(t *testing.T) {
		if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
			t.Error("Sheet1 still present")
		}
	})
}

func TestGenerateRoundTripsThroughValidator(t *testing.T) {
	cfg := testConfig(t)
	result := testResult(t, cfg)

	f, err := Generate(cfg, result)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	report, err := validator.ValidateFile(cfg.MatchList(), path, cfg.Options())
	if err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
	if !report.Valid {
		for _, v := range report.Violations {
			t.Logf("violation: %s: %s", v.Type, v.Message)
		}
		t.Fatal("exported schedule failed validation")
	}
}
