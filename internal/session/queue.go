package session

import "time"

// queueItem pairs a session key with its pending deadline. Items live both in
// the deadline heap and in the store's entry for the key, so removal by key
// is O(log n) via the tracked heap index.
type queueItem struct {
	key   Key
	due   time.Time
	index int
}

// deadlineQueue is a min-heap over deadlines, used with container/heap.
type deadlineQueue []*queueItem

func (q deadlineQueue) Len() int { return len(q) }

func (q deadlineQueue) Less(i, j int) bool { return q[i].due.Before(q[j].due) }

func (q deadlineQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *deadlineQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *deadlineQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*q = old[:n-1]
	return item
}
