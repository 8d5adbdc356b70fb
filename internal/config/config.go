// Package config loads the YAML tournament definition and the results
// file used by replans.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/courtsched/courtsched/internal/schedule"
)

// DateTime is a wrapper around time.Time for YAML timestamp parsing.
type DateTime struct {
	Time time.Time
}

const dateTimeLayout = "2006-01-02 15:04"

func (d *DateTime) UnmarshalYAML(value *yaml.Node) error {
	t, err := time.Parse(dateTimeLayout, value.Value)
	if err != nil {
		return fmt.Errorf("invalid time %q (want %q): %w", value.Value, dateTimeLayout, err)
	}
	d.Time = t
	return nil
}

// Duration is a wrapper around time.Duration for YAML parsing ("45m", "1h30m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	v, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = v
	return nil
}

type Tournament struct {
	Name      string   `yaml:"name"`
	StartTime DateTime `yaml:"start_time"`
}

type Rules struct {
	RestTime       Duration `yaml:"rest_time"`
	CourtSetupTime Duration `yaml:"court_setup_time"`
}

// Fixture asks a generator to expand a flat team list into matches,
// instead of listing them under matches:.
type Fixture struct {
	Strategy      string   `yaml:"strategy"`
	Teams         []string `yaml:"teams"`
	MatchDuration Duration `yaml:"match_duration"`
}

type MatchSpec struct {
	ID        string   `yaml:"id"`
	Home      string   `yaml:"home"`
	Away      string   `yaml:"away"`
	Round     int      `yaml:"round"`
	Duration  Duration `yaml:"duration"`
	DependsOn []string `yaml:"depends_on"`
}

type Config struct {
	Tournament Tournament  `yaml:"tournament"`
	Courts     []string    `yaml:"courts"`
	Rules      Rules       `yaml:"rules"`
	Fixture    *Fixture    `yaml:"fixture"`
	Matches    []MatchSpec `yaml:"matches"`
}

// Options maps the configured rules onto scheduler options.
func (c *Config) Options() schedule.Options {
	return schedule.Options{
		RestTime:       c.Rules.RestTime.Duration,
		CourtSetupTime: c.Rules.CourtSetupTime.Duration,
		StartTime:      c.Tournament.StartTime.Time,
	}
}

// MatchList converts the explicit matches: block. Empty when the config
// uses a fixture strategy instead.
func (c *Config) MatchList() []schedule.Match {
	var matches []schedule.Match
	for _, m := range c.Matches {
		matches = append(matches, schedule.Match{
			ID:        m.ID,
			Home:      m.Home,
			Away:      m.Away,
			Round:     m.Round,
			Duration:  m.Duration.Duration,
			DependsOn: m.DependsOn,
		})
	}
	return matches
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if c.Tournament.StartTime.Time.IsZero() {
		return fmt.Errorf("tournament start_time is required")
	}
	if len(c.Courts) == 0 {
		return fmt.Errorf("at least one court is required")
	}
	seenCourt := make(map[string]bool)
	for _, court := range c.Courts {
		if court == "" {
			return fmt.Errorf("court names must not be empty")
		}
		if seenCourt[court] {
			return fmt.Errorf("court %q listed twice", court)
		}
		seenCourt[court] = true
	}

	if c.Rules.RestTime.Duration < 0 {
		return fmt.Errorf("rest_time must not be negative")
	}
	if c.Rules.CourtSetupTime.Duration < 0 {
		return fmt.Errorf("court_setup_time must not be negative")
	}

	hasFixture := c.Fixture != nil
	hasMatches := len(c.Matches) > 0
	if hasFixture && hasMatches {
		return fmt.Errorf("config cannot have both 'fixture' and 'matches'")
	}
	if !hasFixture && !hasMatches {
		return fmt.Errorf("config needs either a 'fixture' block or a 'matches' list")
	}

	if hasFixture {
		if c.Fixture.Strategy == "" {
			return fmt.Errorf("fixture strategy is required")
		}
		if len(c.Fixture.Teams) < 2 {
			return fmt.Errorf("fixture needs at least two teams")
		}
		seen := make(map[string]bool)
		for _, team := range c.Fixture.Teams {
			if team == "" {
				return fmt.Errorf("fixture team names must not be empty")
			}
			if seen[team] {
				return fmt.Errorf("team %q listed twice in fixture", team)
			}
			seen[team] = true
		}
		if c.Fixture.MatchDuration.Duration <= 0 {
			return fmt.Errorf("fixture match_duration must be positive")
		}
		return nil
	}

	seen := make(map[string]bool)
	for _, m := range c.Matches {
		if m.ID == "" {
			return fmt.Errorf("every match needs an id")
		}
		if seen[m.ID] {
			return fmt.Errorf("match id %q used twice", m.ID)
		}
		seen[m.ID] = true
		if m.Home == "" || m.Away == "" {
			return fmt.Errorf("match %q needs both home and away", m.ID)
		}
		if m.Duration.Duration <= 0 {
			return fmt.Errorf("match %q needs a positive duration", m.ID)
		}
	}
	return nil
}

// CompletedSpec is one finished match as reported in a results file.
// Participants must be real teams here; placeholders are resolved by the
// time a match finishes.
type CompletedSpec struct {
	Match string   `yaml:"match"`
	Court string   `yaml:"court"`
	Home  string   `yaml:"home"`
	Away  string   `yaml:"away"`
	Start DateTime `yaml:"start"`
	End   DateTime `yaml:"end"`
}

// Results is the replan input: the wall-clock floor and the matches that
// already finished with their actual times.
type Results struct {
	CurrentTime DateTime        `yaml:"current_time"`
	Completed   []CompletedSpec `yaml:"completed"`
}

// CompletedMatches converts the completed: block.
func (r *Results) CompletedMatches() []schedule.CompletedMatch {
	var completed []schedule.CompletedMatch
	for _, c := range r.Completed {
		completed = append(completed, schedule.CompletedMatch{
			MatchID: c.Match,
			Court:   c.Court,
			Home:    c.Home,
			Away:    c.Away,
			Start:   c.Start.Time,
			End:     c.End.Time,
		})
	}
	return completed
}

// LoadResultsFromBytes parses YAML bytes into a Results and validates it.
func LoadResultsFromBytes(data []byte) (*Results, error) {
	var res Results
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}
	if err := res.validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// LoadResultsFromFile reads and parses a YAML results file.
func LoadResultsFromFile(path string) (*Results, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	return LoadResultsFromBytes(data)
}

func (r *Results) validate() error {
	if r.CurrentTime.Time.IsZero() {
		return fmt.Errorf("results current_time is required")
	}
	seen := make(map[string]bool)
	for _, c := range r.Completed {
		if c.Match == "" {
			return fmt.Errorf("every completed entry needs a match id")
		}
		if seen[c.Match] {
			return fmt.Errorf("completed match %q reported twice", c.Match)
		}
		seen[c.Match] = true
		if c.Home == "" || c.Away == "" {
			return fmt.Errorf("completed match %q needs both home and away", c.Match)
		}
		if !c.End.Time.After(c.Start.Time) {
			return fmt.Errorf("completed match %q must end after it starts", c.Match)
		}
	}
	return nil
}
