package datastructure

import (
	"cmp"
	"errors"
)

var (
	ErrEmptyHeap    = errors.New("heap is empty")
	ErrItemNotFound = errors.New("item not found in heap")
)

type PriorityQueueNode[T cmp.Ordered] struct {
	Rank float64
	Item T
}

// MinHeap binary heap priority queue. Ties on Rank are broken by the smaller Item,
// so the extraction order is fully determined by the inserted nodes.
type MinHeap[T cmp.Ordered] struct {
	heap []PriorityQueueNode[T]
	pos  map[T]int
}

func NewMinHeap[T cmp.Ordered]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
		pos:  make(map[T]int),
	}
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) less(i, j int) bool {
	a, b := h.heap[i], h.heap[j]
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	return a.Item < b.Item
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.pos[h.heap[i].Item] = i
	h.pos[h.heap[j].Item] = j
}

// heapifyUp swap dengan parent selama parent lebih besar. O(logN)
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.less(index, h.parent(index)) {
		h.swap(index, h.parent(index))
		index = h.parent(index)
	}
}

// heapifyDown swap dengan child terkecil selama child lebih kecil. O(logN)
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)

		if left < len(h.heap) && h.less(left, smallest) {
			smallest = left
		}
		if right < len(h.heap) && h.less(right, smallest) {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) Contains(item T) bool {
	_, ok := h.pos[item]
	return ok
}

func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrEmptyHeap
	}
	return h.heap[0], nil
}

// Insert adds a new node. Inserting an item that is already queued updates its rank instead.
func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	if idx, ok := h.pos[node.Item]; ok {
		h.heap[idx].Rank = node.Rank
		h.heapifyUp(idx)
		h.heapifyDown(h.pos[node.Item])
		return
	}
	h.heap = append(h.heap, node)
	index := len(h.heap) - 1
	h.pos[node.Item] = index
	h.heapifyUp(index)
}

func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrEmptyHeap
	}
	root := h.heap[0]
	last := len(h.heap) - 1
	h.swap(0, last)
	h.heap = h.heap[:last]
	delete(h.pos, root.Item)
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}
	return root, nil
}

// DecreaseKey lowers the rank of an already queued item.
func (h *MinHeap[T]) DecreaseKey(node PriorityQueueNode[T]) error {
	idx, ok := h.pos[node.Item]
	if !ok {
		return ErrItemNotFound
	}
	if node.Rank > h.heap[idx].Rank {
		return nil
	}
	h.heap[idx].Rank = node.Rank
	h.heapifyUp(idx)
	return nil
}
