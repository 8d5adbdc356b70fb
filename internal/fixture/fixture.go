// Package fixture expands a flat team list into the match list the
// scheduler consumes.
package fixture

import (
	"fmt"
	"time"

	"github.com/courtsched/courtsched/internal/schedule"
)

// Generator produces the matches for a fixture strategy. The returned
// rounds are scheduling priority bands, lower first.
type Generator interface {
	Matches(teams []string, matchDuration time.Duration) ([]schedule.Match, error)
}

// Get returns a Generator by name.
func Get(name string) (Generator, error) {
	switch name {
	case "round_robin":
		return &RoundRobin{}, nil
	case "single_elimination":
		return &SingleElimination{}, nil
	default:
		return nil, fmt.Errorf("unknown fixture strategy: %q", name)
	}
}

// RoundRobin generates a circle-method round robin: every team plays every
// other team once, and each rotation of the circle is one round.
type RoundRobin struct{}

func (g *RoundRobin) Matches(teams []string, matchDuration time.Duration) ([]schedule.Match, error) {
	if len(teams) < 2 {
		return nil, fmt.Errorf("round robin needs at least two teams, got %d", len(teams))
	}

	rotation := make([]string, len(teams))
	copy(rotation, teams)
	if len(rotation)%2 == 1 {
		rotation = append(rotation, "") // bye
	}

	n := len(rotation)
	var matches []schedule.Match
	for round := 1; round < n; round++ {
		num := 1
		for i := 0; i < n/2; i++ {
			home, away := rotation[i], rotation[n-1-i]
			if home == "" || away == "" {
				continue // bye pairing
			}
			matches = append(matches, schedule.Match{
				ID:       fmt.Sprintf("R%dM%d", round, num),
				Home:     home,
				Away:     away,
				Round:    round,
				Duration: matchDuration,
			})
			num++
		}
		// Rotate all positions but the first.
		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}

	return matches, nil
}

// SingleElimination generates a knockout bracket over a power-of-two seed
// list, pairing the teams in the given order. Matches past the first round
// carry symbolic "W:<match>" participants and depend on their two feeders.
type SingleElimination struct{}

func (g *SingleElimination) Matches(teams []string, matchDuration time.Duration) ([]schedule.Match, error) {
	n := len(teams)
	if n < 2 || n&(n-1) != 0 {
		return nil, fmt.Errorf("single elimination needs a power-of-two team count, got %d", n)
	}

	var matches []schedule.Match

	// First round pairs the seed list in order.
	prev := make([]string, 0, n/2)
	for i := 0; i < n/2; i++ {
		id := fmt.Sprintf("R1M%d", i+1)
		matches = append(matches, schedule.Match{
			ID:       id,
			Home:     teams[2*i],
			Away:     teams[2*i+1],
			Round:    1,
			Duration: matchDuration,
		})
		prev = append(prev, id)
	}

	round := 2
	for len(prev) > 1 {
		next := make([]string, 0, len(prev)/2)
		for i := 0; i < len(prev)/2; i++ {
			id := fmt.Sprintf("R%dM%d", round, i+1)
			matches = append(matches, schedule.Match{
				ID:        id,
				Home:      "W:" + prev[2*i],
				Away:      "W:" + prev[2*i+1],
				Round:     round,
				Duration:  matchDuration,
				DependsOn: []string{prev[2*i], prev[2*i+1]},
			})
			next = append(next, id)
		}
		prev = next
		round++
	}

	return matches, nil
}
