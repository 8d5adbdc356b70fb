package schedule

import (
	"fmt"
	"strings"
)

// ConfigError reports input that can never be scheduled regardless of
// constraints: no courts, no matches, or a malformed match.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid scheduling input: " + e.Reason
}

// UnplacedMatch describes a match left over after the placement loop, with
// whichever of its dependencies never completed. An unmet dependency that
// is absent from the match set points at a dangling reference; unmet
// dependencies that are all present point at a cycle; an empty list means
// the match was ready but no resources ever freed up.
type UnplacedMatch struct {
	MatchID   string
	UnmetDeps []string
}

// FeasibilityError reports that the placement loop terminated without
// placing every match: a dependency cycle, a dangling dependency
// reference, or a resource deadlock.
type FeasibilityError struct {
	Placed   int
	Total    int
	Unplaced []UnplacedMatch
}

func (e *FeasibilityError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not place all matches: %d of %d scheduled", e.Placed, e.Total)
	if len(e.Unplaced) > 0 {
		b.WriteString("\n\nUnplaced matches:")
		for _, u := range e.Unplaced {
			if len(u.UnmetDeps) > 0 {
				fmt.Fprintf(&b, "\n  • %s (waiting on %s)", u.MatchID, strings.Join(u.UnmetDeps, ", "))
			} else {
				fmt.Fprintf(&b, "\n  • %s", u.MatchID)
			}
		}
	}
	return b.String()
}
