package jobs

import "container/heap"

type waiting struct {
	id  string
	cfg Config
	seq uint64
}

// waitHeap orders waiting jobs by priority, then by arrival.
type waitHeap []waiting

func (h waitHeap) Len() int { return len(h) }

func (h waitHeap) Less(i, j int) bool {
	ri, rj := h[i].cfg.Priority.rank(), h[j].cfg.Priority.rank()
	if ri == rj {
		return h[i].seq < h[j].seq
	}
	return ri < rj
}

func (h waitHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *waitHeap) Push(x interface{}) {
	*h = append(*h, x.(waiting))
}

func (h *waitHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// admission bounds the number of running units. It is not synchronized,
// the service guards it with its own mutex.
type admission struct {
	limit int
	queue waitHeap
	seq   uint64
}

func newAdmission(limit int) *admission {
	a := &admission{limit: limit}
	heap.Init(&a.queue)
	return a
}

func (a *admission) push(id string, cfg Config) {
	a.seq++
	heap.Push(&a.queue, waiting{id: id, cfg: cfg, seq: a.seq})
}

// next returns the next waiting job if fewer than limit units are running.
func (a *admission) next(running int) (waiting, bool) {
	if running >= a.limit || a.queue.Len() == 0 {
		return waiting{}, false
	}
	return heap.Pop(&a.queue).(waiting), true
}

// remove drops a waiting job and reports whether it was queued.
func (a *admission) remove(id string) bool {
	for i, w := range a.queue {
		if w.id == id {
			heap.Remove(&a.queue, i)
			return true
		}
	}
	return false
}

func (a *admission) pending() int {
	return a.queue.Len()
}
