package config

import (
	"strings"
	"testing"
	"time"
)

const testConfigYAML = `
tournament:
  name: "Spring Open"
  start_time: "2026-06-06 09:00"

courts:
  - Court 1
  - Court 2

rules:
  rest_time: 30m
  court_setup_time: 5m

matches:
  - id: SF1
    home: Aces
    away: Setters
    round: 1
    duration: 45m
  - id: SF2
    home: Blockers
    away: Diggers
    round: 1
    duration: 45m
  - id: F
    home: "W:SF1"
    away: "W:SF2"
    round: 2
    duration: 1h
    depends_on: [SF1, SF2]
`

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Tournament.Name != "Spring Open" {
		t.Errorf("name = %q, want %q", cfg.Tournament.Name, "Spring Open")
	}
	want := time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC)
	if !cfg.Tournament.StartTime.Time.Equal(want) {
		t.Errorf("start_time = %s, want %s", cfg.Tournament.StartTime.Time, want)
	}
	if len(cfg.Courts) != 2 {
		t.Errorf("courts = %v, want 2 entries", cfg.Courts)
	}
	if cfg.Rules.RestTime.Duration != 30*time.Minute {
		t.Errorf("rest_time = %s, want 30m", cfg.Rules.RestTime.Duration)
	}
	if cfg.Rules.CourtSetupTime.Duration != 5*time.Minute {
		t.Errorf("court_setup_time = %s, want 5m", cfg.Rules.CourtSetupTime.Duration)
	}

	matches := cfg.MatchList()
	if len(matches) != 3 {
		t.Fatalf("matches = %d, want 3", len(matches))
	}
	final := matches[2]
	if final.ID != "F" || final.Home != "W:SF1" || final.Round != 2 {
		t.Errorf("final = %+v", final)
	}
	if final.Duration != time.Hour {
		t.Errorf("final duration = %s, want 1h", final.Duration)
	}
	if len(final.DependsOn) != 2 {
		t.Errorf("final depends_on = %v, want [SF1 SF2]", final.DependsOn)
	}
}

func TestLoadConfigWithFixture(t *testing.T) {
	yaml := `
tournament:
  name: "Club Night"
  start_time: "2026-06-06 18:00"
courts: [Court 1]
rules:
  rest_time: 10m
fixture:
  strategy: round_robin
  match_duration: 30m
  teams: [Aces, Blockers, Diggers]
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Fixture == nil || cfg.Fixture.Strategy != "round_robin" {
		t.Fatalf("fixture = %+v", cfg.Fixture)
	}
	if cfg.Fixture.MatchDuration.Duration != 30*time.Minute {
		t.Errorf("match_duration = %s, want 30m", cfg.Fixture.MatchDuration.Duration)
	}
}

func TestOptions(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := cfg.Options()
	if opts.RestTime != 30*time.Minute || opts.CourtSetupTime != 5*time.Minute {
		t.Errorf("opts = %+v", opts)
	}
	if !opts.StartTime.Equal(cfg.Tournament.StartTime.Time) {
		t.Errorf("opts.StartTime = %s", opts.StartTime)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			"missing start time",
			func(s string) string { return strings.Replace(s, `  start_time: "2026-06-06 09:00"`, "", 1) },
			"start_time is required",
		},
		{
			"no courts",
			func(s string) string {
				return strings.Replace(s, "courts:\n  - Court 1\n  - Court 2", "courts: []", 1)
			},
			"at least one court",
		},
		{
			"duplicate court",
			func(s string) string { return strings.Replace(s, "- Court 2", "- Court 1", 1) },
			"listed twice",
		},
		{
			"duplicate match id",
			func(s string) string { return strings.Replace(s, "id: SF2", "id: SF1", 1) },
			`match id "SF1" used twice`,
		},
		{
			"bad duration format",
			func(s string) string { return strings.Replace(s, "duration: 1h", "duration: soon", 1) },
			"invalid duration",
		},
		{
			"bad time format",
			func(s string) string {
				return strings.Replace(s, "2026-06-06 09:00", "June 6th, 9am", 1)
			},
			"invalid time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.mutate(testConfigYAML)))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigNeedsFixtureOrMatches(t *testing.T) {
	yaml := `
tournament:
  start_time: "2026-06-06 09:00"
courts: [Court 1]
`
	_, err := LoadFromBytes([]byte(yaml))
	if err == nil || !strings.Contains(err.Error(), "either a 'fixture' block or a 'matches' list") {
		t.Errorf("error = %v", err)
	}
}

const testResultsYAML = `
current_time: "2026-06-06 10:15"
completed:
  - match: SF1
    court: Court 1
    home: Aces
    away: Setters
    start: "2026-06-06 09:00"
    end: "2026-06-06 09:48"
  - match: SF2
    court: Court 2
    home: Blockers
    away: Diggers
    start: "2026-06-06 09:00"
    end: "2026-06-06 09:40"
`

func TestLoadResults(t *testing.T) {
	res, err := LoadResultsFromBytes([]byte(testResultsYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 6, 6, 10, 15, 0, 0, time.UTC)
	if !res.CurrentTime.Time.Equal(want) {
		t.Errorf("current_time = %s, want %s", res.CurrentTime.Time, want)
	}
	completed := res.CompletedMatches()
	if len(completed) != 2 {
		t.Fatalf("completed = %d entries, want 2", len(completed))
	}
	if completed[0].MatchID != "SF1" || completed[0].Court != "Court 1" {
		t.Errorf("completed[0] = %+v", completed[0])
	}
	if got := completed[0].End.Sub(completed[0].Start); got != 48*time.Minute {
		t.Errorf("SF1 ran %s, want 48m", got)
	}
}

func TestResultsValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			"missing current time",
			func(s string) string { return strings.Replace(s, `current_time: "2026-06-06 10:15"`, "", 1) },
			"current_time is required",
		},
		{
			"duplicate completed match",
			func(s string) string { return strings.Replace(s, "match: SF2", "match: SF1", 1) },
			"reported twice",
		},
		{
			"end before start",
			func(s string) string {
				return strings.Replace(s, `end: "2026-06-06 09:48"`, `end: "2026-06-06 08:00"`, 1)
			},
			"must end after it starts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadResultsFromBytes([]byte(tt.mutate(testResultsYAML)))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}
