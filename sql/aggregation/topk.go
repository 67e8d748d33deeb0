package aggregation

import (
	"container/heap"
	"sort"

	"github.com/heavyql/qkernel/sql/errcode"
)

// topKAccumulator backs AggTopK (see DESIGN.md): it keeps the k largest
// values seen via a min-heap of size k, evicting the current smallest
// whenever a larger value arrives. No ecosystem top-k library is wired,
// so this is built directly on container/heap (see DESIGN.md's
// standard-library justifications).
type topKAccumulator struct {
	k    int
	heap minHeap
}

type minHeap []float64

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)         { *h = append(*h, x.(float64)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

func newTopKAccumulator(k int) *topKAccumulator {
	if k <= 0 {
		k = 1
	}
	return &topKAccumulator{k: k}
}

func (t *topKAccumulator) Update(value any, isNull bool) errcode.Code {
	if isNull {
		return errcode.OK
	}
	f, ok := toFloat64(value)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	t.offer(f)
	return errcode.OK
}

func (t *topKAccumulator) offer(f float64) {
	if t.heap.Len() < t.k {
		heap.Push(&t.heap, f)
		return
	}
	if t.heap.Len() > 0 && f > t.heap[0] {
		heap.Pop(&t.heap)
		heap.Push(&t.heap, f)
	}
}

func (t *topKAccumulator) Merge(other Accumulator) errcode.Code {
	o, ok := other.(*topKAccumulator)
	if !ok {
		return errcode.ErrOutOfSlots
	}
	for _, f := range o.heap {
		t.offer(f)
	}
	return errcode.OK
}

func (t *topKAccumulator) Eval() (any, bool) {
	if t.heap.Len() == 0 {
		return nil, true
	}
	out := make([]float64, len(t.heap))
	copy(out, t.heap)
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out, false
}

func (t *topKAccumulator) Reset() {
	t.heap = nil
}
