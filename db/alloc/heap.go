package alloc

// freeBlock is a free block indexed by the allocator.
type freeBlock struct {
	off       uint64 // block start (header address)
	size      uint64 // total size including header
	pool      Pool
	sc        int // size class (which heap this belongs to)
	heapIndex int // position in heap (for heap.Remove)
}

func (b *freeBlock) end() uint64 { return b.off + b.size }

// freeHeap is a min-heap keyed on block size, so heap[0] is the best fit
// whenever it fits at all. Ties break on offset to keep placement
// deterministic.
type freeHeap []*freeBlock

func (h *freeHeap) Len() int { return len(*h) }

func (h *freeHeap) Less(i, j int) bool {
	a, b := (*h)[i], (*h)[j]
	if a.size != b.size {
		return a.size < b.size
	}
	return a.off < b.off
}

func (h *freeHeap) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
	(*h)[i].heapIndex = i
	(*h)[j].heapIndex = j
}

func (h *freeHeap) Push(x any) {
	b := x.(*freeBlock) //nolint:errcheck // heap.Interface contract guarantees type
	b.heapIndex = len(*h)
	*h = append(*h, b)
}

func (h *freeHeap) Pop() any {
	old := *h
	n := len(old)
	b := old[n-1]
	old[n-1] = nil
	b.heapIndex = -1
	*h = old[:n-1]
	return b
}

// poolLists holds one heap per size class plus the large list at the end.
type poolLists struct {
	classes []freeHeap
}
