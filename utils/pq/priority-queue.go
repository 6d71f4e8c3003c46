// Package pq provides a priority queue without duplicate elements.
package pq

import "container/heap"

type lessFunc[T any] func(T, T) bool

// _heap satisfies heap.Interface over a slice ordered by less.
type _heap[T any] struct {
	list []T
	less lessFunc[T]
}

func (h _heap[T]) Len() int {
	return len(h.list)
}

func (h _heap[T]) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h _heap[T]) Less(i, j int) bool {
	return h.less(h.list[i], h.list[j])
}

func (h *_heap[T]) Push(x any) {
	h.list = append(h.list, x.(T))
}

func (h *_heap[T]) Pop() any {
	old := h.list
	n := len(old)
	x := old[n-1]
	h.list = old[:n-1]
	return x
}

var _ heap.Interface = (*_heap[int])(nil)

// PriorityQueue yields its least element first. An element is queued at
// most once until it is popped.
type PriorityQueue[T comparable] struct {
	heap     _heap[T]
	elements map[T]struct{}
}

// Empty creates an empty priority queue ordered by less.
func Empty[T comparable](less lessFunc[T]) PriorityQueue[T] {
	return PriorityQueue[T]{
		heap:     _heap[T]{nil, less},
		elements: make(map[T]struct{}),
	}
}

func (p *PriorityQueue[T]) IsEmpty() bool {
	return p.Len() == 0
}

// Len is the number of queued elements.
func (p *PriorityQueue[T]) Len() int {
	return len(p.heap.list)
}

// GetNext pops the least element.
func (p *PriorityQueue[T]) GetNext() T {
	el := heap.Pop(&p.heap).(T)
	delete(p.elements, el)
	return el
}

// Add queues x, unless it is already queued.
func (p *PriorityQueue[T]) Add(x T) {
	if _, found := p.elements[x]; found {
		return
	}

	p.elements[x] = struct{}{}
	heap.Push(&p.heap, x)
}

// Rebuild restores the heap order after the priorities of queued
// elements changed.
func (p *PriorityQueue[T]) Rebuild() {
	heap.Init(&p.heap)
}
