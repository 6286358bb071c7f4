package reactive

import "container/heap"

// queueItem is a snapshot of a node's ordering key taken at enqueue time.
// Memos sort before effects, then lower heights first, then creation order.
type queueItem struct {
	rank   uint8
	height int
	id     NodeID
	n      *node
}

// nodeQueue is a min-heap of pending computations.
// Entries are never removed eagerly: a disposed or already clean node is
// skipped when popped.
type nodeQueue []queueItem

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.rank != b.rank {
		return a.rank < b.rank
	}
	if a.height != b.height {
		return a.height < b.height
	}
	return a.id < b.id
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *nodeQueue) Pop() any {
	old := *q
	last := len(old) - 1
	item := old[last]
	old[last] = queueItem{}
	*q = old[:last]
	return item
}

// push enqueues n unless it is already queued.
func (q *nodeQueue) push(n *node) {
	if n.queued {
		return
	}
	n.queued = true
	var rank uint8
	if n.kind == kindEffect {
		rank = 1
	}
	heap.Push(q, queueItem{rank: rank, height: n.height, id: n.id, n: n})
}

// pop removes and returns the next node, clearing its queued flag.
func (q *nodeQueue) pop() *node {
	item := heap.Pop(q).(queueItem)
	item.n.queued = false
	return item.n
}

// drain empties the queue, resetting every pending node to clean.
func (q *nodeQueue) drain() int {
	dropped := 0
	for q.Len() > 0 {
		n := q.pop()
		if !n.disposed && n.state != stateClean {
			n.state = stateClean
			dropped++
		}
	}
	return dropped
}
