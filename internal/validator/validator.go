// Package validator re-checks produced schedules against the hard
// constraints, independently of the placement loop's internal state.
package validator

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/courtsched/courtsched/internal/schedule"
)

// Violation is one constraint violation found during validation.
type Violation struct {
	Type    string // "error" or "warning"
	Message string
}

// Report is the complete validation outcome. Never an error: every check
// runs and every finding is listed.
type Report struct {
	Valid      bool
	Violations []Violation
}

// Check verifies a schedule against the match list and constraints. It is
// read-only and exhaustive: all violations are collected, not just the
// first.
func Check(matches []schedule.Match, scheduled []schedule.ScheduledMatch, opts schedule.Options) Report {
	var violations []Violation

	violations = append(violations, checkDuplicates(scheduled)...)
	violations = append(violations, checkKnown(matches, scheduled)...)
	violations = append(violations, checkCompleteness(matches, scheduled)...)
	violations = append(violations, checkTeamOverlap(scheduled)...)
	violations = append(violations, checkRestGaps(scheduled, opts.RestTime)...)
	violations = append(violations, checkCourts(scheduled, opts.CourtSetupTime)...)
	violations = append(violations, checkDependencies(matches, scheduled)...)

	valid := true
	for _, v := range violations {
		if v.Type == "error" {
			valid = false
		}
	}
	return Report{Valid: valid, Violations: violations}
}

func checkDuplicates(scheduled []schedule.ScheduledMatch) []Violation {
	seen := make(map[string]bool)
	var violations []Violation
	for _, sm := range scheduled {
		if seen[sm.MatchID] {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("match %s scheduled more than once", sm.MatchID),
			})
		}
		seen[sm.MatchID] = true
	}
	return violations
}

func checkKnown(matches []schedule.Match, scheduled []schedule.ScheduledMatch) []Violation {
	known := make(map[string]bool, len(matches))
	for _, m := range matches {
		known[m.ID] = true
	}
	var violations []Violation
	for _, sm := range scheduled {
		if !known[sm.MatchID] {
			violations = append(violations, Violation{
				Type:    "warning",
				Message: fmt.Sprintf("scheduled match %s is not in the match list", sm.MatchID),
			})
		}
	}
	return violations
}

func checkCompleteness(matches []schedule.Match, scheduled []schedule.ScheduledMatch) []Violation {
	placed := make(map[string]bool, len(scheduled))
	for _, sm := range scheduled {
		placed[sm.MatchID] = true
	}
	var violations []Violation
	for _, m := range matches {
		if !placed[m.ID] {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("match %s is not scheduled", m.ID),
			})
		}
	}
	return violations
}

func checkTeamOverlap(scheduled []schedule.ScheduledMatch) []Violation {
	byTeam := teamIntervals(scheduled)
	var violations []Violation
	for _, team := range sortedKeys(byTeam) {
		entries := byTeam[team]
		for i := 1; i < len(entries); i++ {
			prev, cur := entries[i-1], entries[i]
			if cur.Start.Before(prev.End) {
				violations = append(violations, Violation{
					Type: "error",
					Message: fmt.Sprintf("%s is double-booked: %s (%s–%s) overlaps %s (%s–%s)",
						team,
						prev.MatchID, clock(prev.Start), clock(prev.End),
						cur.MatchID, clock(cur.Start), clock(cur.End)),
				})
			}
		}
	}
	return violations
}

func checkRestGaps(scheduled []schedule.ScheduledMatch, rest time.Duration) []Violation {
	byTeam := teamIntervals(scheduled)
	var violations []Violation
	for _, team := range sortedKeys(byTeam) {
		entries := byTeam[team]
		for i := 1; i < len(entries); i++ {
			prev, cur := entries[i-1], entries[i]
			gap := cur.Start.Sub(prev.End)
			if gap >= 0 && gap < rest {
				violations = append(violations, Violation{
					Type: "error",
					Message: fmt.Sprintf("%s rests only %s between %s and %s (min %s)",
						team, gap, prev.MatchID, cur.MatchID, rest),
				})
			}
		}
	}
	return violations
}

func checkCourts(scheduled []schedule.ScheduledMatch, setup time.Duration) []Violation {
	byCourt := make(map[string][]schedule.ScheduledMatch)
	for _, sm := range scheduled {
		byCourt[sm.Court] = append(byCourt[sm.Court], sm)
	}
	var violations []Violation
	for _, court := range sortedKeys(byCourt) {
		entries := byCourt[court]
		sortByStart(entries)
		for i := 1; i < len(entries); i++ {
			prev, cur := entries[i-1], entries[i]
			if cur.Start.Before(prev.End) {
				violations = append(violations, Violation{
					Type: "error",
					Message: fmt.Sprintf("court %s is double-booked: %s overlaps %s",
						court, prev.MatchID, cur.MatchID),
				})
				continue
			}
			if gap := cur.Start.Sub(prev.End); gap < setup {
				violations = append(violations, Violation{
					Type: "error",
					Message: fmt.Sprintf("court %s turns around in %s between %s and %s (min %s)",
						court, gap, prev.MatchID, cur.MatchID, setup),
				})
			}
		}
	}
	return violations
}

func checkDependencies(matches []schedule.Match, scheduled []schedule.ScheduledMatch) []Violation {
	placed := make(map[string]schedule.ScheduledMatch, len(scheduled))
	for _, sm := range scheduled {
		placed[sm.MatchID] = sm
	}
	var violations []Violation
	for _, m := range matches {
		sm, ok := placed[m.ID]
		if !ok {
			continue // reported by checkCompleteness
		}
		for _, dep := range m.DependsOn {
			dsm, ok := placed[dep]
			if !ok {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("match %s depends on %s, which has no scheduled entry", m.ID, dep),
				})
				continue
			}
			if sm.Start.Before(dsm.End) {
				violations = append(violations, Violation{
					Type: "error",
					Message: fmt.Sprintf("match %s starts %s, before its dependency %s ends %s",
						m.ID, clock(sm.Start), dep, clock(dsm.End)),
				})
			}
		}
	}
	return violations
}

// CheckMatches audits a match list for structural integrity before any
// scheduling: duplicate IDs, dangling dependency references, and
// dependency cycles. The scheduler itself tolerates these until its
// terminal completeness check; this is the fail-fast alternative.
func CheckMatches(matches []schedule.Match) []Violation {
	var violations []Violation

	ids := make(map[string]bool, len(matches))
	for _, m := range matches {
		if ids[m.ID] {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("match id %s used twice", m.ID),
			})
		}
		ids[m.ID] = true
	}

	for _, m := range matches {
		for _, dep := range m.DependsOn {
			if !ids[dep] {
				violations = append(violations, Violation{
					Type:    "error",
					Message: fmt.Sprintf("match %s depends on unknown match %s", m.ID, dep),
				})
			}
		}
	}

	if cycle := findCycle(matches); len(cycle) > 0 {
		violations = append(violations, Violation{
			Type:    "error",
			Message: fmt.Sprintf("dependency cycle involving: %s", strings.Join(cycle, ", ")),
		})
	}

	return violations
}

// findCycle runs Kahn's algorithm over the dependency edges and returns
// the matches left with unresolved in-degree, sorted. Empty means acyclic.
func findCycle(matches []schedule.Match) []string {
	ids := make(map[string]bool, len(matches))
	for _, m := range matches {
		ids[m.ID] = true
	}

	inDegree := make(map[string]int, len(matches))
	forward := make(map[string][]string)
	for _, m := range matches {
		if _, ok := inDegree[m.ID]; !ok {
			inDegree[m.ID] = 0
		}
		seen := make(map[string]bool)
		for _, dep := range m.DependsOn {
			if !ids[dep] || seen[dep] || dep == m.ID {
				if dep == m.ID {
					inDegree[m.ID]++ // self-loop is a cycle of one
				}
				continue
			}
			seen[dep] = true
			forward[dep] = append(forward[dep], m.ID)
			inDegree[m.ID]++
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	resolved := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		resolved++
		for _, succ := range forward[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
		sort.Strings(queue)
	}

	if resolved == len(inDegree) {
		return nil
	}
	var cycle []string
	for id, deg := range inDegree {
		if deg > 0 {
			cycle = append(cycle, id)
		}
	}
	sort.Strings(cycle)
	return cycle
}

func teamIntervals(scheduled []schedule.ScheduledMatch) map[string][]schedule.ScheduledMatch {
	byTeam := make(map[string][]schedule.ScheduledMatch)
	for _, sm := range scheduled {
		for _, team := range []string{sm.Home, sm.Away} {
			if team == "" {
				continue
			}
			byTeam[team] = append(byTeam[team], sm)
		}
	}
	for team := range byTeam {
		sortByStart(byTeam[team])
	}
	return byTeam
}

func sortByStart(entries []schedule.ScheduledMatch) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Start.Equal(entries[j].Start) {
			return entries[i].Start.Before(entries[j].Start)
		}
		return entries[i].MatchID < entries[j].MatchID
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func clock(t time.Time) string {
	return t.Format("15:04")
}
