package schedule

import "time"

// teamState tracks one participant identity. Created lazily on first
// reference; a zero availableAt means available from the beginning.
type teamState struct {
	availableAt time.Time
	current     string // match ID currently assigned, "" when idle
}

// courtState tracks one court. Seeded at construction from the tournament
// start time, advanced further by timeline painting during replans.
type courtState struct {
	name        string
	availableAt time.Time
	current     string
}

func (s *scheduler) team(name string) *teamState {
	st, ok := s.teams[name]
	if !ok {
		st = &teamState{}
		s.teams[name] = st
	}
	return st
}

// teamAvailable reports whether the identity has no match in progress and
// its availability timestamp is at or before t. Unreferenced identities
// are available by definition.
func (s *scheduler) teamAvailable(name string, t time.Time) bool {
	st, ok := s.teams[name]
	if !ok {
		return true
	}
	return st.current == "" && !st.availableAt.After(t)
}

// earliestCourt returns the idle court with the smallest availability
// timestamp, breaking ties by input order. Nil when every court is busy.
func (s *scheduler) earliestCourt() *courtState {
	var best *courtState
	for _, c := range s.courts {
		if c.current != "" {
			continue
		}
		if best == nil || c.availableAt.Before(best.availableAt) {
			best = c
		}
	}
	return best
}

// paint pre-advances resource state from already-completed matches, exactly
// as a normal completion event would but without going through the event
// queue. Later completions win when a resource appears more than once.
func (s *scheduler) paint(completed []CompletedMatch) {
	byName := make(map[string]*courtState, len(s.courts))
	for _, c := range s.courts {
		byName[c.name] = c
	}

	for _, cm := range completed {
		if c, ok := byName[cm.Court]; ok {
			if at := cm.End.Add(s.opts.CourtSetupTime); at.After(c.availableAt) {
				c.availableAt = at
			}
		}
		for _, name := range []string{cm.Home, cm.Away} {
			if name == "" {
				continue
			}
			st := s.team(name)
			if at := cm.End.Add(s.opts.RestTime); at.After(st.availableAt) {
				st.availableAt = at
			}
		}
	}
}
