package session

import "slices"

// RecentLimit is how many final picks are kept out of the next draw.
const RecentLimit = 3

// RecentQueue holds the last few distinct picks, most recent last.
type RecentQueue struct {
	items []string
}

// NewRecentQueue builds a queue by pushing titles in order.
func NewRecentQueue(titles ...string) *RecentQueue {
	q := &RecentQueue{}
	for _, t := range titles {
		q.Push(t)
	}
	return q
}

// Push moves title to the end of the queue and drops the oldest entries
// beyond RecentLimit.
func (q *RecentQueue) Push(title string) {
	q.items = slices.DeleteFunc(q.items, func(s string) bool { return s == title })
	q.items = append(q.items, title)
	if over := len(q.items) - RecentLimit; over > 0 {
		q.items = slices.Delete(q.items, 0, over)
	}
}

// Contains reports whether title is in the queue.
func (q *RecentQueue) Contains(title string) bool {
	return slices.Contains(q.items, title)
}

// Items returns a copy of the queue, oldest first.
func (q *RecentQueue) Items() []string {
	return slices.Clone(q.items)
}

// Len returns the number of queued titles.
func (q *RecentQueue) Len() int {
	return len(q.items)
}

// Filter returns the pool entries not in the queue. When that leaves nothing
// the full pool is returned so a pick is always possible.
func (q *RecentQueue) Filter(pool []string) []string {
	candidates := make([]string, 0, len(pool))
	for _, title := range pool {
		if !q.Contains(title) {
			candidates = append(candidates, title)
		}
	}
	if len(candidates) == 0 {
		return pool
	}
	return candidates
}
