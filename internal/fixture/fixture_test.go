package fixture

import (
	"testing"
	"time"

	"github.com/courtsched/courtsched/internal/schedule"
)

func TestGet(t *testing.T) {
	for _, name := range []string{"round_robin", "single_elimination"} {
		if _, err := Get(name); err != nil {
			t.Errorf("Get(%q) error: %v", name, err)
		}
	}
	if _, err := Get("swiss"); err == nil {
		t.Error("Get(swiss) should fail")
	}
}

func TestRoundRobinEvenTeams(t *testing.T) {
	g := &RoundRobin{}
	teams := []string{"A", "B", "C", "D"}
	matches, err := g.Matches(teams, 30*time.Minute)
	if err != nil {
		t.Fatalf("Matches() error: %v", err)
	}

	if want := 6; len(matches) != want {
		t.Fatalf("generated %d matches, want %d", len(matches), want)
	}

	t.Run("every pair plays exactly once", func(t *testing.T) {
		pairs := make(map[[2]string]int)
		for _, m := range matches {
			a, b := m.Home, m.Away
			if a > b {
				a, b = b, a
			}
			pairs[[2]string{a, b}]++
		}
		if len(pairs) != 6 {
			t.Errorf("distinct pairs = %d, want 6", len(pairs))
		}
		for pair, count := range pairs {
			if count != 1 {
				t.Errorf("pair %v plays %d times", pair, count)
			}
		}
	})

	t.Run("each round pairs every team once", func(t *testing.T) {
		byRound := make(map[int][]schedule.Match)
		for _, m := range matches {
			byRound[m.Round] = append(byRound[m.Round], m)
		}
		if len(byRound) != 3 {
			t.Fatalf("rounds = %d, want 3", len(byRound))
		}
		for round, rm := range byRound {
			seen := make(map[string]bool)
			for _, m := range rm {
				if seen[m.Home] || seen[m.Away] {
					t.Errorf("round %d reuses a team: %+v", round, rm)
				}
				seen[m.Home] = true
				seen[m.Away] = true
			}
		}
	})

	t.Run("no dependencies", func(t *testing.T) {
		for _, m := range matches {
			if len(m.DependsOn) != 0 {
				t.Errorf("match %s has dependencies %v", m.ID, m.DependsOn)
			}
		}
	})
}

func TestRoundRobinOddTeamsGetByes(t *testing.T) {
	g := &RoundRobin{}
	matches, err := g.Matches([]string{"A", "B", "C"}, 30*time.Minute)
	if err != nil {
		t.Fatalf("Matches() error: %v", err)
	}
	if want := 3; len(matches) != want {
		t.Fatalf("generated %d matches, want %d", len(matches), want)
	}
	for _, m := range matches {
		if m.Home == "" || m.Away == "" {
			t.Errorf("match %s has a bye participant", m.ID)
		}
	}
}

func TestRoundRobinTooFewTeams(t *testing.T) {
	g := &RoundRobin{}
	if _, err := g.Matches([]string{"A"}, 30*time.Minute); err == nil {
		t.Error("expected error for one team")
	}
}

func TestSingleElimination(t *testing.T) {
	g := &SingleElimination{}
	teams := []string{"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8"}
	matches, err := g.Matches(teams, 45*time.Minute)
	if err != nil {
		t.Fatalf("Matches() error: %v", err)
	}

	if want := 7; len(matches) != want {
		t.Fatalf("generated %d matches, want %d", len(matches), want)
	}

	byID := make(map[string]schedule.Match)
	rounds := make(map[int]int)
	for _, m := range matches {
		byID[m.ID] = m
		rounds[m.Round]++
	}
	if rounds[1] != 4 || rounds[2] != 2 || rounds[3] != 1 {
		t.Errorf("round sizes = %v, want 4/2/1", rounds)
	}

	t.Run("first round pairs seeds in order", func(t *testing.T) {
		m := byID["R1M1"]
		if m.Home != "S1" || m.Away != "S2" {
			t.Errorf("R1M1 = %s vs %s, want S1 vs S2", m.Home, m.Away)
		}
	})

	t.Run("later rounds carry winner placeholders and dependencies", func(t *testing.T) {
		final := byID["R3M1"]
		if final.Home != "W:R2M1" || final.Away != "W:R2M2" {
			t.Errorf("final = %s vs %s", final.Home, final.Away)
		}
		if len(final.DependsOn) != 2 || final.DependsOn[0] != "R2M1" || final.DependsOn[1] != "R2M2" {
			t.Errorf("final depends on %v", final.DependsOn)
		}
	})

	t.Run("bracket schedules end to end", func(t *testing.T) {
		result, err := schedule.Schedule(matches, []string{"Court 1", "Court 2"}, schedule.Options{
			RestTime:  15 * time.Minute,
			StartTime: time.Date(2026, 6, 6, 9, 0, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("Schedule() error: %v", err)
		}
		if result.Count != len(matches) {
			t.Errorf("placed %d of %d", result.Count, len(matches))
		}
	})
}

func TestSingleEliminationRejectsNonPowerOfTwo(t *testing.T) {
	g := &SingleElimination{}
	for _, n := range []int{0, 1, 3, 6} {
		teams := make([]string, n)
		for i := range teams {
			teams[i] = string(rune('A' + i))
		}
		if _, err := g.Matches(teams, 45*time.Minute); err == nil {
			t.Errorf("expected error for %d teams", n)
		}
	}
}
