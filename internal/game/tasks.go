package game

import (
	"container/heap"
	"time"
)

// scheduledTask is a deferred action owned by the run loop. Tasks die
// with the loop, so stopping the game cancels everything pending.
type scheduledTask struct {
	at  time.Time
	seq int64
	run func(now time.Time)
}

// taskQueue is a min-heap of scheduled tasks ordered by fire time,
// with insertion order breaking ties.
type taskQueue struct {
	items []*scheduledTask
	seq   int64
}

func newTaskQueue() *taskQueue {
	return &taskQueue{}
}

func (q *taskQueue) Len() int { return len(q.items) }

func (q *taskQueue) Less(i, j int) bool {
	if q.items[i].at.Equal(q.items[j].at) {
		return q.items[i].seq < q.items[j].seq
	}
	return q.items[i].at.Before(q.items[j].at)
}

func (q *taskQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *taskQueue) Push(x any) { q.items = append(q.items, x.(*scheduledTask)) }

func (q *taskQueue) Pop() any {
	old := q.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return it
}

// schedule queues run to fire once at is reached.
func (q *taskQueue) schedule(at time.Time, run func(now time.Time)) {
	q.seq++
	heap.Push(q, &scheduledTask{at: at, seq: q.seq, run: run})
}

// runDue executes every task due at or before now, in schedule order.
func (q *taskQueue) runDue(now time.Time) {
	for q.Len() > 0 && !q.items[0].at.After(now) {
		t := heap.Pop(q).(*scheduledTask)
		t.run(now)
	}
}
