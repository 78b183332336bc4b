package stream

import (
	"errors"
	"testing"
	"time"

	"github.com/kbukum/iterflow/streamerr"
)

// waitFor polls cond until it returns true or the timeout elapses,
// matching the polling style the teacher's own async tests use for
// channel/goroutine-backed state (see sse's client tests).
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	if !cond() {
		t.Fatalf("condition not met within %s", timeout)
	}
}

// collectFlow drains it in flow mode until "end", returning every item
// observed in emission order.
func collectFlow[T any](t *testing.T, it Iterator[T], timeout time.Duration) []T {
	t.Helper()
	var items []T
	ended := false
	it.On(EventEnd, func(args ...any) { ended = true })
	it.ForEach(func(item T) { items = append(items, item) })
	waitFor(t, timeout, func() bool { return ended })
	return items
}

func TestFromArrayMapScenario(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	mapped := Map(src, func(x int) int { return x + 1 })
	got := collectFlow(t, mapped, time.Second)
	want := []int{2, 3, 4}
	assertIntSlice(t, got, want)
}

func TestIntegerRangeFlowMode(t *testing.T) {
	it := IntegerRange[int](IntegerRangeOptions{HasStart: true, Start: 0, HasEnd: true, End: 4})
	got := collectFlow(t, it, time.Second)
	want := []int{0, 1, 2, 3, 4}
	assertIntSlice(t, got, want)
}

func TestTransformOffsetLimitPrependAppend(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	out := Transform(src, TransformOptions[int, int]{
		Offset:  1,
		Limit:   intPtr(1),
		Prepend: FromArray([]int{9}),
		Append:  FromArray([]int{8}),
	})
	got := collectFlow(t, out, time.Second)
	want := []int{9, 2, 8}
	assertIntSlice(t, got, want)
}

func TestCloneIndependentConsumers(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	a := Clone[int](src)
	b := Clone[int](src)

	gotA := collectFlow(t, a, time.Second)
	gotB := collectFlow(t, b, time.Second)

	assertIntSlice(t, gotA, []int{1, 2, 3})
	assertIntSlice(t, gotB, []int{1, 2, 3})
}

func TestCloneAfterSourceEnded(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	a := Clone[int](src)
	assertIntSlice(t, collectFlow(t, a, time.Second), []int{1, 2, 3})

	// src's history is now ended; a second Clone must still register
	// cleanly against it and replay the buffered history instead of
	// panicking on a nilled clones map.
	b := Clone[int](src)
	assertIntSlice(t, collectFlow(t, b, time.Second), []int{1, 2, 3})
}

func TestSourceBindingRejectsDoubleSetSource(t *testing.T) {
	sb := newSourceBinding[int](false)
	a := FromArray([]int{1, 2, 3})
	b := FromArray([]int{4, 5, 6})

	if err := sb.setSource(a); err != nil {
		t.Fatalf("unexpected error binding first source: %v", err)
	}
	err := sb.setSource(b)
	if err == nil {
		t.Fatal("expected an error binding a second source onto the same binding")
	}
	se, ok := err.(*streamerr.Error)
	if !ok || se.Code != streamerr.CodeSourceReplaced {
		t.Fatalf("expected CodeSourceReplaced, got %v", err)
	}
	// The rejected rebind must not have disturbed the original binding.
	item, ok := sb.read()
	if !ok || item != 1 {
		t.Fatalf("binding corrupted by rejected rebind: got (%v, %v)", item, ok)
	}
}

func TestSourceBindingRejectsAlreadyBoundSource(t *testing.T) {
	src := FromArray([]int{1, 2, 3})

	a := newSourceBinding[int](false)
	if err := a.setSource(src); err != nil {
		t.Fatalf("unexpected error binding first destination: %v", err)
	}

	b := newSourceBinding[int](false)
	err := b.setSource(src)
	if err == nil {
		t.Fatal("expected an error binding a source that already has a destination")
	}
	se, ok := err.(*streamerr.Error)
	if !ok || se.Code != streamerr.CodeSourceBound {
		t.Fatalf("expected CodeSourceBound, got %v", err)
	}
	// The failed claim must leave b unbound rather than half-attached.
	if _, ok := b.read(); ok {
		t.Fatal("expected the rejected binding to have no readable source")
	}
	if !b.ended() {
		t.Fatal("expected a binding with no source to report ended")
	}
}

func TestTransformAsyncDuplication(t *testing.T) {
	src := FromArray([]int{1, 2})
	out := Transform(src, TransformOptions[int, int]{
		Transform: func(item int, push func(int), done func(error)) {
			push(item)
			push(item * 10)
			done(nil)
		},
	})
	got := collectFlow(t, out, time.Second)
	want := []int{1, 10, 2, 20}
	assertIntSlice(t, got, want)
}

func TestFilterAndMapScenario(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	out := Transform(src, TransformOptions[int, int]{
		Filter: func(x int) bool { return x%2 == 1 },
		Map:    func(x int) (int, bool) { return x * x, true },
	})
	got := collectFlow(t, out, time.Second)
	want := []int{1, 9}
	assertIntSlice(t, got, want)
}

func TestDestroyEmitsErrorNotEnd(t *testing.T) {
	it := Wrap[int](WrapOptions[int]{})
	var gotErr error
	ended := false
	it.On(EventError, func(args ...any) {
		if len(args) == 1 {
			gotErr, _ = args[0].(error)
		}
	})
	it.On(EventEnd, func(args ...any) { ended = true })

	cause := errors.New("boom")
	it.Destroy(cause)

	waitFor(t, time.Second, func() bool { return it.Destroyed() })
	if ended {
		t.Error("expected no end event on the destroy path")
	}
	if gotErr != cause {
		t.Errorf("expected error %v, got %v", cause, gotErr)
	}
	if !it.Destroyed() {
		t.Error("expected destroyed==true")
	}
}

func TestEmptySourceThroughTransformYieldsEmpty(t *testing.T) {
	out := Map(Empty[int](), func(x int) int { return x })
	got := collectFlow(t, out, time.Second)
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestLimitZeroYieldsEmpty(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	out := Transform(src, TransformOptions[int, int]{Limit: intPtr(0)})
	got := collectFlow(t, out, time.Second)
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestOffsetBeyondLengthYieldsEmpty(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	out := Skip(src, 10)
	got := collectFlow(t, out, time.Second)
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestIntegerRangeEmptyWhenDirectionMismatched(t *testing.T) {
	it := IntegerRange[int](IntegerRangeOptions{HasStart: true, Start: 5, HasEnd: true, End: 3, HasStep: true, Step: 1})
	got := collectFlow(t, it, time.Second)
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestIntegerRangeDescending(t *testing.T) {
	it := IntegerRange[int](IntegerRangeOptions{HasStart: true, Start: 5, HasEnd: true, End: 3, HasStep: true, Step: -1})
	got := collectFlow(t, it, time.Second)
	assertIntSlice(t, got, []int{5, 4, 3})
}

func TestSingletonOfAbsentItemClosesImmediately(t *testing.T) {
	var zero int
	it := Singleton(zero, false)
	got := collectFlow(t, it, time.Second)
	if len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestIdentityMapMatchesSource(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	identity := Map(src, func(x int) int { return x })
	got := collectFlow(t, identity, time.Second)
	assertIntSlice(t, got, []int{1, 2, 3})
}

func TestSkipTakeMatchesRange(t *testing.T) {
	skipTake := Take(Skip(IntegerRange[int](IntegerRangeOptions{HasStart: true, Start: 0, HasEnd: true, End: 9}), 2), 3)
	rangeEquivalent := RangeOf(IntegerRange[int](IntegerRangeOptions{HasStart: true, Start: 0, HasEnd: true, End: 9}), 2, 4)

	gotA := collectFlow(t, skipTake, time.Second)
	gotB := collectFlow(t, rangeEquivalent, time.Second)
	assertIntSlice(t, gotA, gotB)
	assertIntSlice(t, gotA, []int{2, 3, 4})
}

func TestCloseAfterCloseIsNoop(t *testing.T) {
	it := FromArray([]int{1, 2, 3})
	it.Close()
	it.Close()
	waitFor(t, time.Second, func() bool { return it.Ended() })
}

func TestDestroyAfterDestroyIsNoop(t *testing.T) {
	it := Wrap[int](WrapOptions[int]{})
	it.Destroy(nil)
	it.Destroy(errors.New("second"))
	waitFor(t, time.Second, func() bool { return it.Destroyed() })
}

func TestBufferNeverExceedsMaxBufferSize(t *testing.T) {
	pushed := 0
	it := Wrap[int](WrapOptions[int]{
		MaxBufferSize: 2,
		AutoStart:     true,
		Read: func(count int, push func(int), done func()) {
			for i := 0; i < count && pushed < 100; i++ {
				pushed++
				push(pushed)
			}
			done()
		},
	})
	bi := it.(*wrapped[int]).BufferedIterator
	waitFor(t, time.Second, func() bool {
		bi.bmu.Lock()
		defer bi.bmu.Unlock()
		return len(bi.buffer) > 0
	})
	bi.bmu.Lock()
	ln := len(bi.buffer)
	bi.bmu.Unlock()
	if ln > 2 {
		t.Errorf("buffer exceeded max size: %d", ln)
	}
	it.Destroy(nil)
}

func TestTransformRejectsNegativeOffset(t *testing.T) {
	src := FromArray([]int{1, 2, 3})
	out := Transform(src, TransformOptions[int, int]{Offset: -1})

	var gotErr error
	out.On(EventError, func(args ...any) {
		if len(args) == 1 {
			gotErr, _ = args[0].(error)
		}
	})
	waitFor(t, time.Second, func() bool { return out.Destroyed() })
	if gotErr == nil {
		t.Fatal("expected a validation error")
	}
}

func assertIntSlice(t *testing.T, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
