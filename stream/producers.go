package stream

import (
	"math"
	"sync"
)

// Trivial producers implement Read() directly on top of *base[T] rather
// than going through BufferedIterator — per the layering the collaborators
// describe, Empty/Singleton/Array/IntegerRange have no asynchronous
// production step to buffer ahead of.

// emptyIterator is already ENDED at construction.
type emptyIterator[T any] struct {
	*base[T]
}

// Empty returns an iterator that is already ended.
func Empty[T any]() Iterator[T] {
	e := &emptyIterator[T]{}
	e.base = newBase[T](e)
	e.state = StateEnded
	schedule(func() {
		e.em.Emit(EventEnd)
		e.releaseTerminalListeners()
	})
	return e
}

func (e *emptyIterator[T]) Read() (T, bool) {
	var zero T
	return zero, false
}

// singletonIterator yields exactly one item, then closes.
type singletonIterator[T any] struct {
	*base[T]
	mu   chanMutex
	item T
	has  bool
}

// chanMutex is a mutex alias kept distinct from base.mu so producers can
// guard their own small bit of state without reaching into base internals.
type chanMutex = sync.Mutex

// Singleton returns an iterator yielding item exactly once. Since this
// package's item type is a Go value type with no null, pass hasItem=false
// to model Singleton(null): the iterator closes immediately and yields
// nothing.
func Singleton[T any](item T, hasItem bool) Iterator[T] {
	s := &singletonIterator[T]{item: item, has: hasItem}
	s.base = newBase[T](s)
	if !hasItem {
		s.Close()
		return s
	}
	s.setReadable(true)
	return s
}

func (s *singletonIterator[T]) Read() (T, bool) {
	s.mu.Lock()
	if !s.has {
		s.mu.Unlock()
		var zero T
		return zero, false
	}
	item := s.item
	s.has = false
	s.mu.Unlock()

	s.setReadable(false)
	s.Close()
	return item, true
}

// arrayIterator drains a fixed, pre-sliced owned buffer front-to-back.
type arrayIterator[T any] struct {
	*base[T]
	mu    chanMutex
	items []T
}

// FromArray returns an iterator yielding each element of items in order.
func FromArray[T any](items []T) Iterator[T] {
	a := &arrayIterator[T]{items: append([]T(nil), items...)}
	a.base = newBase[T](a)
	if len(a.items) == 0 {
		schedule(a.finish)
		return a
	}
	a.setReadable(true)
	return a
}

func (a *arrayIterator[T]) Read() (T, bool) {
	a.mu.Lock()
	if len(a.items) == 0 {
		a.mu.Unlock()
		var zero T
		return zero, false
	}
	item := a.items[0]
	a.items = a.items[1:]
	empty := len(a.items) == 0
	a.mu.Unlock()
	if empty {
		a.items = nil
		a.setReadable(false)
		a.Close()
	}
	return item, true
}

// IntegerRangeOptions configures IntegerRange. Zero values select the
// documented defaults (start=0, step=1, end=+Inf for step>0 / -Inf for
// step<0).
type IntegerRangeOptions struct {
	Start    float64
	End      float64
	Step     float64
	HasStart bool
	HasEnd   bool
	HasStep  bool
}

// integerRangeIterator yields truncated integers from Start to End
// (inclusive, direction-aware) stepping by Step.
type integerRangeIterator[T ~int | ~int32 | ~int64 | ~float64] struct {
	*base[T]
	mu      chanMutex
	current float64
	end     float64
	step    float64
}

// IntegerRange returns an integer-range producer. Start, End and Step are
// truncated toward zero; unset fields take the defaults listed on
// IntegerRangeOptions.
func IntegerRange[T ~int | ~int32 | ~int64 | ~float64](opts IntegerRangeOptions) Iterator[T] {
	step := math.Trunc(opts.Step)
	if !opts.HasStep {
		step = 1
	}
	start := math.Trunc(opts.Start)
	if !opts.HasStart {
		start = 0
	}
	end := math.Trunc(opts.End)
	if !opts.HasEnd {
		if step >= 0 {
			end = math.Inf(1)
		} else {
			end = math.Inf(-1)
		}
	}

	r := &integerRangeIterator[T]{current: start, end: end, step: step}
	r.base = newBase[T](r)

	if math.IsNaN(start) || math.IsInf(start, 0) || step == 0 || rangeEmpty(start, end, step) {
		schedule(r.finish)
		return r
	}
	r.setReadable(true)
	return r
}

func rangeEmpty(start, end, step float64) bool {
	if step > 0 {
		return start > end
	}
	return start < end
}

func (r *integerRangeIterator[T]) Read() (T, bool) {
	r.mu.Lock()
	if r.Done() {
		r.mu.Unlock()
		var zero T
		return zero, false
	}
	value := r.current
	next := r.current + r.step
	r.current = next
	exhausted := rangeEmpty(next, r.end, r.step)
	r.mu.Unlock()
	if exhausted {
		r.setReadable(false)
		r.Close()
	}
	return T(value), true
}
