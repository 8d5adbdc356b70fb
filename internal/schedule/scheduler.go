// Package schedule places tournament matches onto courts under precedence
// and resource constraints: every team gets a mandatory rest between
// matches, every court a turnaround gap, and a match never starts before
// its dependencies end. The placer is a feasibility-first serial heuristic
// driven by a discrete-event simulation; it does not optimize makespan or
// court utilization. Each call is a pure function of its inputs.
package schedule

import (
	"container/heap"
	"fmt"
	"sort"
	"time"
)

// Schedule assigns a start time and court to every match, beginning at
// opts.StartTime. It fails with a ConfigError for structurally unusable
// input and with a FeasibilityError when not every match can be placed
// (dependency cycle, dangling dependency reference, or resource deadlock).
func Schedule(matches []Match, courts []string, opts Options) (*Result, error) {
	if err := checkInputs(matches, courts); err != nil {
		return nil, err
	}
	s := newScheduler(matches, courts, opts, nil)
	if err := s.run(opts.StartTime); err != nil {
		return nil, err
	}
	return s.buildResult(), nil
}

// Reschedule re-plans the pending portion of a tournament mid-event. The
// completed matches paint the resource timeline with their actual end
// times, and no pending match is placed before opts.CurrentTime. Completed
// matches are excluded from the result but count toward feasibility.
func Reschedule(matches []Match, courts []string, completed []CompletedMatch, opts Options) (*Result, error) {
	if err := checkInputs(matches, courts); err != nil {
		return nil, err
	}
	s := newScheduler(matches, courts, opts, completed)
	s.paint(completed)
	t0 := opts.StartTime
	if opts.CurrentTime.After(t0) {
		t0 = opts.CurrentTime
	}
	if err := s.run(t0); err != nil {
		return nil, err
	}
	return s.buildResult(), nil
}

func checkInputs(matches []Match, courts []string) error {
	if len(courts) == 0 {
		return &ConfigError{Reason: "no courts provided"}
	}
	if len(matches) == 0 {
		return &ConfigError{Reason: "no matches provided"}
	}
	seenCourt := make(map[string]bool, len(courts))
	for _, c := range courts {
		if c == "" {
			return &ConfigError{Reason: "court with empty name"}
		}
		if seenCourt[c] {
			return &ConfigError{Reason: fmt.Sprintf("duplicate court %q", c)}
		}
		seenCourt[c] = true
	}
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if m.ID == "" {
			return &ConfigError{Reason: "match with empty ID"}
		}
		if seen[m.ID] {
			return &ConfigError{Reason: fmt.Sprintf("duplicate match ID %q", m.ID)}
		}
		seen[m.ID] = true
		if m.Duration <= 0 {
			return &ConfigError{Reason: fmt.Sprintf("match %q has non-positive duration", m.ID)}
		}
	}
	return nil
}

type scheduler struct {
	opts    Options
	matches []Match

	byID       map[string]*Match
	tasks      map[string]*task
	dependents map[string][]string
	ready      *readyList
	events     eventQueue

	teams  map[string]*teamState
	courts []*courtState

	completed      map[string]bool // painted match IDs
	completedInSet int             // painted IDs that exist in the match set

	placed    []ScheduledMatch
	placedSet map[string]bool
}

func newScheduler(matches []Match, courts []string, opts Options, completed []CompletedMatch) *scheduler {
	s := &scheduler{
		opts:      opts,
		matches:   matches,
		byID:      make(map[string]*Match, len(matches)),
		teams:     make(map[string]*teamState),
		completed: make(map[string]bool, len(completed)),
		placedSet: make(map[string]bool, len(matches)),
	}
	for _, cm := range completed {
		s.completed[cm.MatchID] = true
	}
	for _, name := range courts {
		s.courts = append(s.courts, &courtState{name: name, availableAt: opts.StartTime})
	}
	s.buildGraph(matches)
	for id := range s.completed {
		if _, ok := s.byID[id]; ok {
			s.completedInSet++
		}
	}
	return s
}

// run is the event-driven placement loop. Each iteration at simulated
// instant t flushes every completion event due at or before t, greedily
// places ready matches, then advances t to the next instant anything can
// change. Terminates when both the ready list and the event queue drain;
// any placement shortfall at that point is a feasibility failure, as is an
// iteration where time cannot advance.
func (s *scheduler) run(start time.Time) error {
	t := start
	for {
		for len(s.events) > 0 && !s.events[0].at.After(t) {
			ev := heap.Pop(&s.events).(*completionEvent)
			s.complete(ev.matchID, ev.at)
		}

		s.placePass(t)

		if s.ready.empty() && len(s.events) == 0 {
			break
		}

		next, ok := s.nextTime(t)
		if !ok {
			return s.feasibilityError()
		}
		t = next
	}

	if len(s.placed)+s.completedInSet != len(s.matches) {
		return s.feasibilityError()
	}
	return nil
}

// placePass walks the ready list in priority order, placing every match
// whose participants are free and whose earliest feasible start is at or
// before t. After each placement the pass restarts from the top: the
// consumed court may change which matches are placeable, and restarting
// keeps the priority order authoritative instead of exhausting one sweep.
func (s *scheduler) placePass(t time.Time) {
restart:
	for i, tk := range s.ready.tasks {
		m := tk.match
		if !s.teamAvailable(m.Home, t) || !s.teamAvailable(m.Away, t) {
			continue
		}
		court := s.earliestCourt()
		if court == nil {
			continue
		}
		start := t
		if court.availableAt.After(start) {
			start = court.availableAt
		}
		if start.After(t) {
			// Ready but not placeable at t; the court frees up later.
			continue
		}
		s.place(tk, court, start)
		s.ready.removeAt(i)
		goto restart
	}
}

func (s *scheduler) place(tk *task, court *courtState, start time.Time) {
	m := tk.match
	end := start.Add(m.Duration)

	court.current = m.ID
	s.team(m.Home).current = m.ID
	s.team(m.Away).current = m.ID

	s.placed = append(s.placed, ScheduledMatch{
		MatchID: m.ID,
		Court:   court.name,
		Home:    m.Home,
		Away:    m.Away,
		Round:   m.Round,
		Start:   start,
		End:     end,
	})
	s.placedSet[m.ID] = true

	heap.Push(&s.events, &completionEvent{at: end, matchID: m.ID})
}

// complete frees the court and both participants, then unlocks any
// dependents whose last dependency this was.
func (s *scheduler) complete(matchID string, at time.Time) {
	m := s.byID[matchID]

	for _, c := range s.courts {
		if c.current == matchID {
			c.current = ""
			c.availableAt = at.Add(s.opts.CourtSetupTime)
			break
		}
	}
	for _, name := range []string{m.Home, m.Away} {
		st := s.team(name)
		st.current = ""
		st.availableAt = at.Add(s.opts.RestTime)
	}

	for _, dep := range s.dependents[matchID] {
		tk := s.tasks[dep]
		if tk == nil {
			continue
		}
		tk.unmet--
		if tk.unmet == 0 {
			s.ready.insert(tk)
		}
	}
}

// nextTime returns the earliest instant after t at which anything can
// change: the next completion event, or the next moment an idle team or
// court becomes available. ok is false when no such instant exists, which
// with work outstanding means deadlock.
func (s *scheduler) nextTime(t time.Time) (time.Time, bool) {
	var next time.Time
	found := false
	consider := func(at time.Time) {
		if !at.After(t) {
			return
		}
		if !found || at.Before(next) {
			next = at
			found = true
		}
	}

	if len(s.events) > 0 {
		consider(s.events[0].at)
	}
	for _, c := range s.courts {
		if c.current == "" {
			consider(c.availableAt)
		}
	}
	for _, st := range s.teams {
		if st.current == "" {
			consider(st.availableAt)
		}
	}
	return next, found
}

func (s *scheduler) feasibilityError() error {
	var unplaced []UnplacedMatch
	for id, tk := range s.tasks {
		if s.placedSet[id] {
			continue
		}
		var unmet []string
		for _, dep := range tk.match.DependsOn {
			if dep == id {
				unmet = append(unmet, dep)
				continue
			}
			if !s.completed[dep] && !s.placedSet[dep] {
				unmet = append(unmet, dep)
			}
		}
		sort.Strings(unmet)
		unplaced = append(unplaced, UnplacedMatch{MatchID: id, UnmetDeps: unmet})
	}
	sort.Slice(unplaced, func(i, j int) bool {
		return unplaced[i].MatchID < unplaced[j].MatchID
	})
	return &FeasibilityError{
		Placed:   len(s.placed),
		Total:    len(s.matches) - s.completedInSet,
		Unplaced: unplaced,
	}
}

func (s *scheduler) buildResult() *Result {
	r := &Result{
		Matches:     s.placed,
		TeamMetrics: make(map[string]*TeamMetrics),
		Count:       len(s.placed),
	}

	courtsUsed := make(map[string]bool)
	var first time.Time
	for _, sm := range s.placed {
		courtsUsed[sm.Court] = true
		if first.IsZero() || sm.Start.Before(first) {
			first = sm.Start
		}
		if sm.End.After(r.EndTime) {
			r.EndTime = sm.End
		}
		for _, name := range []string{sm.Home, sm.Away} {
			tm := r.TeamMetrics[name]
			if tm == nil {
				tm = &TeamMetrics{First: sm.Start, Last: sm.End}
				r.TeamMetrics[name] = tm
			}
			tm.Matches++
			tm.PlayTime += sm.End.Sub(sm.Start)
			if sm.Start.Before(tm.First) {
				tm.First = sm.Start
			}
			if sm.End.After(tm.Last) {
				tm.Last = sm.End
			}
		}
	}
	r.CourtsUsed = len(courtsUsed)
	if len(s.placed) > 0 {
		r.Span = r.EndTime.Sub(first)
	}
	return r
}
