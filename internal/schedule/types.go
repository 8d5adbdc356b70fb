package schedule

import "time"

// Match is a single match to be placed on a court. Participant slots hold
// either a team name or a symbolic placeholder (e.g. "W:SF1" for the winner
// of SF1); the scheduler treats both purely as identities for availability
// tracking and never resolves placeholders.
type Match struct {
	ID        string
	Home      string
	Away      string
	Round     int // priority band, lower schedules earlier
	Duration  time.Duration
	DependsOn []string // match IDs that must finish before this one starts
}

// ScheduledMatch is one placed match. Immutable once produced.
type ScheduledMatch struct {
	MatchID string
	Court   string
	Home    string
	Away    string
	Round   int
	Start   time.Time
	End     time.Time
}

// CompletedMatch reports a match that actually finished, with real times
// and resolved participants. Input to Reschedule only.
type CompletedMatch struct {
	MatchID string
	Court   string
	Home    string
	Away    string
	Start   time.Time
	End     time.Time
}

// Options carries the scheduling constraints.
type Options struct {
	// RestTime is the minimum gap between a team's consecutive matches.
	RestTime time.Duration
	// CourtSetupTime is the minimum gap between matches on the same court.
	CourtSetupTime time.Duration
	// StartTime is when the first match may begin.
	StartTime time.Time
	// CurrentTime floors every placement during a replan. Ignored by
	// Schedule. Reschedule uses max(StartTime, CurrentTime).
	CurrentTime time.Time
}

// TeamMetrics holds per-participant schedule statistics.
type TeamMetrics struct {
	Matches  int
	PlayTime time.Duration
	First    time.Time
	Last     time.Time
}

// Result is the output of a scheduling run.
type Result struct {
	Matches     []ScheduledMatch // in placement order
	TeamMetrics map[string]*TeamMetrics

	Count      int
	CourtsUsed int
	EndTime    time.Time
	Span       time.Duration // first start to last end
}
