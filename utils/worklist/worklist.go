// Package worklist provides a FIFO worklist for fixed-point iterations and
// for distributing independent jobs over goroutines.
package worklist

import "sync"

// Worklist is a FIFO queue. The Conc methods may be used concurrently; the
// others may not.
type Worklist[T any] struct {
	mu    sync.Mutex
	queue []T
	head  int
}

// Empty creates a worklist with no elements.
func Empty[T any]() Worklist[T] {
	return Worklist[T]{}
}

// StartV processes a worklist initially holding the elements of start, in
// order. See Process.
func StartV[T any](start []T, do func(next T, add func(el T))) {
	W := Empty[T]()
	for _, el := range start {
		W.Add(el)
	}
	W.Process(do)
}

// Process calls do for every element until the worklist is empty. Elements
// passed to add are processed after the elements already queued.
func (w *Worklist[T]) Process(do func(next T, add func(el T))) {
	for !w.IsEmpty() {
		do(w.GetNext(), w.Add)
	}
}

// ProcessConc drains the worklist with the given number of goroutines, and
// returns when all of them are done. A goroutine stops as soon as it finds
// the worklist empty, so elements are best queued upfront.
func (w *Worklist[T]) ProcessConc(workers int, do func(next T, add func(el T))) {
	var wg sync.WaitGroup
	for i := 0; i < max(workers, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for next, ok := w.GetNextConc(); ok; next, ok = w.GetNextConc() {
				do(next, w.AddConc)
			}
		}()
	}
	wg.Wait()
}

func (w *Worklist[T]) IsEmpty() bool {
	return w.head == len(w.queue)
}

func (w *Worklist[T]) Add(el T) {
	w.queue = append(w.queue, el)
}

// GetNext pops the oldest element, or the zero value if there is none.
func (w *Worklist[T]) GetNext() (next T) {
	if w.IsEmpty() {
		return
	}

	var zero T
	next, w.queue[w.head] = w.queue[w.head], zero
	w.head++
	if w.IsEmpty() {
		w.queue, w.head = w.queue[:0], 0
	}
	return next
}

func (w *Worklist[T]) AddConc(el T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Add(el)
}

// GetNextConc pops the oldest element, if any.
func (w *Worklist[T]) GetNextConc() (next T, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.IsEmpty() {
		return next, false
	}
	return w.GetNext(), true
}
