package schedule

import "sort"

// task wraps a match with its still-unsatisfied dependency count. Owned by
// the scheduler for the duration of one call.
type task struct {
	match *Match
	unmet int
}

// readyList holds tasks whose dependencies are all satisfied, ordered by
// (round ascending, match ID ascending). The ordering is the scheduling
// priority and must stay stable for deterministic output.
type readyList struct {
	tasks []*task
}

func (r *readyList) empty() bool {
	return len(r.tasks) == 0
}

func (r *readyList) insert(t *task) {
	i := sort.Search(len(r.tasks), func(i int) bool {
		o := r.tasks[i]
		if o.match.Round != t.match.Round {
			return o.match.Round > t.match.Round
		}
		return o.match.ID > t.match.ID
	})
	r.tasks = append(r.tasks, nil)
	copy(r.tasks[i+1:], r.tasks[i:])
	r.tasks[i] = t
}

func (r *readyList) removeAt(i int) {
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
}

// buildGraph constructs the dependency bookkeeping for the placement loop:
// a task per pending match carrying its unmet-dependency count, and the
// reverse map from a match to the matches it unlocks on completion.
// Dependencies already in the completed set do not count as unmet, and
// completed matches get no task at all. Duplicate entries in a
// dependency list count once. Dangling references are tolerated here;
// they surface as unplaced matches at loop termination. A
// self-dependency or an empty identity is unsatisfiable: it counts as
// permanently unmet, so the match never becomes ready.
func (s *scheduler) buildGraph(matches []Match) {
	s.tasks = make(map[string]*task, len(matches))
	s.dependents = make(map[string][]string)

	for i := range matches {
		m := &matches[i]
		s.byID[m.ID] = m
		if s.completed[m.ID] {
			continue
		}
		s.tasks[m.ID] = &task{match: m}
	}

	for i := range matches {
		m := &matches[i]
		tk := s.tasks[m.ID]
		if tk == nil {
			continue
		}
		seen := make(map[string]bool, len(m.DependsOn))
		for _, dep := range m.DependsOn {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if dep == "" || dep == m.ID {
				tk.unmet++
				continue
			}
			if s.completed[dep] {
				continue
			}
			tk.unmet++
			s.dependents[dep] = append(s.dependents[dep], m.ID)
		}
	}

	// Deterministic unlock order regardless of input map iteration.
	for dep := range s.dependents {
		sort.Strings(s.dependents[dep])
	}

	s.ready = &readyList{}
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if tk := s.tasks[id]; tk.unmet == 0 {
			s.ready.insert(tk)
		}
	}
}
