package repo

import "github.com/odvcencio/gitlet/pkg/object"

// commitQueue is the FIFO frontier of a breadth-first commit walk. Popped
// slots are reclaimed once the head passes half the backing array.
type commitQueue struct {
	items []object.Hash
	head  int
}

func (q *commitQueue) Len() int { return len(q.items) - q.head }

func (q *commitQueue) Push(h object.Hash) {
	q.items = append(q.items, h)
}

func (q *commitQueue) Pop() (object.Hash, bool) {
	if q.Len() == 0 {
		return "", false
	}
	h := q.items[q.head]
	q.items[q.head] = ""
	q.head++
	if q.head > len(q.items)/2 {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return h, true
}
