package planner

import "container/heap"

// candidate is one scored record while a search is in flight.
type candidate struct {
	id       int64
	content  string
	distance float64
}

// worse reports whether a ranks after b: larger distance, or equal
// distance within tieEpsilon and larger id. This single ordering rule
// makes both heap eviction and final ordering deterministic no matter
// what order candidates arrive in.
func worse(a, b candidate, eps float64) bool {
	d := a.distance - b.distance
	if d > eps {
		return true
	}
	if d < -eps {
		return false
	}
	return a.id > b.id
}

// Compile-time check that candidateHeap satisfies the heap interface.
var _ heap.Interface = (*candidateHeap)(nil)

// candidateHeap is a bounded max-heap over distance: the root is the
// worst candidate currently kept, so it is the one evicted when a
// better candidate arrives.
type candidateHeap struct {
	items []candidate
	eps   float64
}

func (h *candidateHeap) Len() int { return len(h.items) }

func (h *candidateHeap) Less(i, j int) bool {
	return worse(h.items[i], h.items[j], h.eps)
}

func (h *candidateHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *candidateHeap) Push(x any) {
	h.items = append(h.items, x.(candidate))
}

func (h *candidateHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// pushBounded keeps the k best candidates. When full, the new candidate
// replaces the root only if it ranks strictly before it.
func (h *candidateHeap) pushBounded(c candidate, k int) {
	if len(h.items) < k {
		heap.Push(h, c)
		return
	}
	if worse(h.items[0], c, h.eps) {
		h.items[0] = c
		heap.Fix(h, 0)
	}
}

// drainSorted empties the heap and returns candidates best-first.
func (h *candidateHeap) drainSorted() []candidate {
	out := make([]candidate, len(h.items))
	for i := len(h.items) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(candidate)
	}
	return out
}
