package schedule

import "time"

// completionEvent marks the simulated instant a placed match finishes.
type completionEvent struct {
	at      time.Time
	matchID string
}

// eventQueue is a min-heap of completion events ordered by (time, match ID).
// Implements container/heap.Interface.
type eventQueue []*completionEvent

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if !q[i].at.Equal(q[j].at) {
		return q[i].at.Before(q[j].at)
	}
	return q[i].matchID < q[j].matchID
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) {
	*q = append(*q, x.(*completionEvent))
}

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return ev
}
