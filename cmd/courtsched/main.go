package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/courtsched/courtsched/internal/config"
	"github.com/courtsched/courtsched/internal/excel"
	"github.com/courtsched/courtsched/internal/fixture"
	"github.com/courtsched/courtsched/internal/schedule"
	"github.com/courtsched/courtsched/internal/validator"
)

const defaultConfigFile = "tournament.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "courtsched",
		Short: "Tournament court scheduler",
	}

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter tournament.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate, replan, and validate schedules",
	}

	var configFile string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: tournament.yaml in current directory)")

	var outputFile string
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runGenerate(configPath, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "schedule.xlsx", "Output Excel file path")

	var resultsFile string
	var replanOutputFile string
	replanCmd := &cobra.Command{
		Use:          "replan",
		Short:        "Re-plan pending matches from reported results",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			if resultsFile == "" {
				return fmt.Errorf("--results is required")
			}
			return runReplan(configPath, resultsFile, replanOutputFile)
		},
	}
	replanCmd.Flags().StringVar(&resultsFile, "results", "", "Path to results YAML (completed matches + current time)")
	replanCmd.Flags().StringVarP(&replanOutputFile, "output", "o", "replan.xlsx", "Output Excel file path")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate an exported schedule against config constraints",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	scheduleCmd.AddCommand(generateCmd, replanCmd, validateCmd)
	rootCmd.AddCommand(initCmd, scheduleCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Tournament Configuration
# ========================
# This file defines a tournament for the court scheduler.

tournament:
  name: "Spring Open"
  # When the first match may begin, "YYYY-MM-DD HH:MM" (24-hour).
  start_time: "2026-06-06 09:00"

# Courts are interchangeable; matches go to whichever frees up first.
courts:
  - Court 1
  - Court 2

# Rules are hard constraints on every placement.
rules:
  rest_time: 30m         # minimum gap between a team's matches
  court_setup_time: 5m   # minimum gap between matches on one court

# A fixture block expands a team list into matches.
#   round_robin        - everyone plays everyone once, one round per rotation
#   single_elimination - knockout bracket (team count must be a power of two);
#                        later rounds reference winners symbolically and wait
#                        for their feeder matches
fixture:
  strategy: round_robin
  match_duration: 45m
  teams:
    - Aces
    - Blockers
    - Diggers
    - Setters

# Alternatively, list matches explicitly instead of a fixture block.
# Rounds are priority bands (lower schedules earlier); depends_on names
# matches that must finish first, and W:<id> marks an unresolved winner.
#
# matches:
#   - id: SF1
#     home: Aces
#     away: Setters
#     round: 1
#     duration: 45m
#   - id: SF2
#     home: Blockers
#     away: Diggers
#     round: 1
#     duration: 45m
#   - id: F
#     home: "W:SF1"
#     away: "W:SF2"
#     round: 2
#     duration: 60m
#     depends_on: [SF1, SF2]
`

func buildMatches(cfg *config.Config) ([]schedule.Match, error) {
	if cfg.Fixture != nil {
		gen, err := fixture.Get(cfg.Fixture.Strategy)
		if err != nil {
			return nil, err
		}
		return gen.Matches(cfg.Fixture.Teams, cfg.Fixture.MatchDuration.Duration)
	}
	return cfg.MatchList(), nil
}

func runGenerate(configPath, outputPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	matches, err := buildMatches(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Scheduling %d matches onto %d courts...\n", len(matches), len(cfg.Courts))

	result, err := schedule.Schedule(matches, cfg.Courts, cfg.Options())
	if err != nil {
		return fmt.Errorf("scheduling: %w", err)
	}

	fmt.Printf("✓ All %d matches scheduled\n", result.Count)
	printSummary(result)

	f, err := excel.Generate(cfg, result)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func runReplan(configPath, resultsPath, outputPath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	res, err := config.LoadResultsFromFile(resultsPath)
	if err != nil {
		return fmt.Errorf("loading results: %w", err)
	}

	matches, err := buildMatches(cfg)
	if err != nil {
		return err
	}

	opts := cfg.Options()
	opts.CurrentTime = res.CurrentTime.Time
	completed := res.CompletedMatches()

	fmt.Printf("Re-planning %d pending matches from %s...\n",
		pendingCount(matches, completed), opts.CurrentTime.Format("2006-01-02 15:04"))

	result, err := schedule.Reschedule(matches, cfg.Courts, completed, opts)
	if err != nil {
		return fmt.Errorf("re-planning: %w", err)
	}

	fmt.Printf("✓ %d pending matches placed\n", result.Count)
	for _, sm := range result.Matches {
		fmt.Printf("  %s  %s–%s  %s: %s vs %s\n",
			sm.Start.Format("2006-01-02"),
			sm.Start.Format("15:04"), sm.End.Format("15:04"),
			sm.Court, sm.Home, sm.Away)
	}
	printSummary(result)

	f, err := excel.Generate(cfg, result)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Replan saved to %s\n", outputPath)
	return nil
}

// pendingCount reports how many matches remain to place. Completed
// entries outside the match list do not reduce the count.
func pendingCount(matches []schedule.Match, completed []schedule.CompletedMatch) int {
	known := make(map[string]bool, len(matches))
	for _, m := range matches {
		known[m.ID] = true
	}
	pending := len(matches)
	for _, cm := range completed {
		if known[cm.MatchID] {
			pending--
		}
	}
	return pending
}

func printSummary(result *schedule.Result) {
	fmt.Printf("\nCourts used: %d, span %s, last match ends %s\n",
		result.CourtsUsed, result.Span, result.EndTime.Format("2006-01-02 15:04"))

	teams := make([]string, 0, len(result.TeamMetrics))
	for name := range result.TeamMetrics {
		if strings.Contains(name, ":") {
			continue // placeholder slot, not a team
		}
		teams = append(teams, name)
	}
	sort.Strings(teams)
	if len(teams) == 0 {
		return
	}

	fmt.Println("\nPer Team Metrics:")
	fmt.Printf("  %-15s %7s %9s %7s %7s\n", "Team", "Matches", "Play", "First", "Last")
	for _, team := range teams {
		m := result.TeamMetrics[team]
		fmt.Printf("  %-15s %7d %9s %7s %7s\n",
			team, m.Matches, m.PlayTime.Round(time.Minute),
			m.First.Format("15:04"), m.Last.Format("15:04"))
	}
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	matches, err := buildMatches(cfg)
	if err != nil {
		return err
	}

	report, err := validator.ValidateFile(matches, schedulePath, cfg.Options())
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range report.Violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Constraint violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d violations, %d warnings\n", errors, warnings)

	if !report.Valid {
		return fmt.Errorf("%d constraint violations found", errors)
	}
	fmt.Println("✓ Schedule is valid")
	return nil
}
