package stream

import "sync"

// DefaultMaxBufferSize is the default bound on a BufferedIterator's
// internal queue.
const DefaultMaxBufferSize = 4

// bufferedSource is the hook interface a concrete generator (Transform,
// SimpleTransform, MultiTransform) implements so BufferedIterator can drive
// its async production protocol without virtual dispatch. This is the
// composition-over-inheritance translation of the subclass-overrides-
// _begin/_read/_flush/_destroy pattern.
type bufferedSource[T any] interface {
	// begin runs once before the iterator transitions to OPEN. done must
	// be called exactly once.
	begin(done func())
	// readInto requests up to count items be pushed via push; done must
	// be called exactly once when the request is satisfied (or the
	// source is exhausted).
	readInto(count int, push func(T), done func())
	// flush runs once while transitioning through CLOSED, draining any
	// terminating items (e.g. an appender). done must be called exactly
	// once.
	flush(push func(T), done func())
	// destroy runs on the destroy path before the buffer is cleared.
	destroy(cause error, done func())
}

// readingState models the Buf single-flight lock as a small enum guarded
// by bi.bmu. Go callers can reach iterator methods from multiple
// goroutines, so bmu is a real mutex.
type readingState int

const (
	readingIdle readingState = iota
	readingActive
	readingClosing
)

// BufferedIterator is the bounded-buffer generator core: §4.Buf of the
// package's layered design. It coordinates a source's asynchronous
// production callbacks, a capacity-bounded queue, and the
// readable/data/end signaling contract.
type BufferedIterator[T any] struct {
	*base[T]

	bmu sync.Mutex

	buffer      []T
	maxBuffer   int
	autoStart   bool
	reading     readingState
	pushedCount int

	source bufferedSource[T]

	doneCalled bool
}

// BufferedOptions configures a BufferedIterator.
type BufferedOptions struct {
	MaxBufferSize int
	AutoStart     bool
}

// newBufferedIterator wires src as the generator's production hook and
// kicks off the deferred _init(auto_start) step. self must be the concrete
// type embedding this BufferedIterator (for flow-mode dispatch).
func newBufferedIterator[T any](self Iterator[T], src bufferedSource[T], opts BufferedOptions) *BufferedIterator[T] {
	maxBuf := opts.MaxBufferSize
	if maxBuf <= 0 {
		maxBuf = DefaultMaxBufferSize
	}
	bi := &BufferedIterator[T]{
		maxBuffer: maxBuf,
		autoStart: opts.AutoStart,
		reading:   readingActive,
		source:    src,
	}
	bi.base = newBase[T](self)
	bi.onDestroy = bi.runDestroy
	schedule(func() { bi.init(opts.AutoStart) })
	return bi
}

func (bi *BufferedIterator[T]) init(autoStart bool) {
	called := false
	bi.source.begin(func() {
		if called {
			fatalDoubleCallback("BufferedIterator._begin")
			return
		}
		called = true

		bi.bmu.Lock()
		bi.reading = readingIdle
		bi.bmu.Unlock()

		bi.mu.Lock()
		bi.changeState(StateOpen)
		bi.mu.Unlock()

		if autoStart {
			schedule(bi.fillBuffer)
		} else {
			bi.setReadable(true)
		}
	})
}

// Read implements the Buf read() algorithm: pop the buffer front if any is
// present, otherwise report unavailable; then, if not already reading and
// there is room, kick off the next fill (or the terminal end if closed and
// drained).
func (bi *BufferedIterator[T]) Read() (T, bool) {
	if bi.Done() {
		var zero T
		return zero, false
	}

	bi.bmu.Lock()
	var item T
	var ok bool
	if len(bi.buffer) > 0 {
		item = bi.buffer[0]
		bi.buffer = bi.buffer[1:]
		ok = true
	}
	needsFill := bi.reading == readingIdle && len(bi.buffer) < bi.maxBuffer
	closed := bi.Closed()
	emptyAfter := len(bi.buffer) == 0
	bi.bmu.Unlock()

	if ok {
		recordDrain(1)
	} else {
		bi.setReadable(false)
	}

	if needsFill {
		if !closed {
			schedule(bi.fillBuffer)
		} else if emptyAfter {
			schedule(bi.finish)
		}
	}
	return item, ok
}

// push appends item to the buffer; a no-op once the iterator is done, per
// the silent-drop-after-end policy.
func (bi *BufferedIterator[T]) push(item T) {
	if bi.Done() {
		return
	}
	bi.bmu.Lock()
	bi.pushedCount++
	bi.buffer = append(bi.buffer, item)
	bi.bmu.Unlock()
	bi.setReadable(true)
	recordPush(1)
}

// fillBuffer is the heart of the generator: single-flight guarded,
// bounded to 128 items per request, and chained back into itself when the
// buffer drops below half capacity.
func (bi *BufferedIterator[T]) fillBuffer() {
	bi.bmu.Lock()
	if bi.reading != readingIdle {
		bi.bmu.Unlock()
		return
	}
	if bi.Closed() {
		bi.bmu.Unlock()
		bi.completeClose()
		return
	}
	needed := bi.maxBuffer - len(bi.buffer)
	if needed > 128 {
		needed = 128
	}
	if needed <= 0 {
		bi.bmu.Unlock()
		return
	}
	bi.pushedCount = 0
	bi.reading = readingActive
	bi.bmu.Unlock()

	called := false
	bi.source.readInto(needed, bi.push, func() {
		if called {
			fatalDoubleCallback("BufferedIterator._read")
			return
		}
		called = true

		bi.bmu.Lock()
		bi.reading = readingIdle
		pushed := bi.pushedCount
		bufLen := len(bi.buffer)
		closedNow := bi.Closed()
		bi.bmu.Unlock()

		if closedNow {
			bi.completeClose()
			return
		}
		if pushed > 0 {
			bi.setReadable(true)
			if bufLen < bi.maxBuffer/2 {
				schedule(bi.fillBuffer)
			}
		}
	})
}

// Close requests graceful termination. If no production is in flight it
// completes the close immediately; otherwise it marks CLOSING and lets the
// in-flight read callback finish the job.
func (bi *BufferedIterator[T]) Close() {
	bi.bmu.Lock()
	reading := bi.reading != readingIdle
	bi.bmu.Unlock()

	bi.mu.Lock()
	already := bi.state >= StateClosing
	bi.mu.Unlock()
	if already {
		return
	}

	if !reading {
		bi.completeClose()
		return
	}
	bi.mu.Lock()
	bi.changeState(StateClosing)
	bi.mu.Unlock()
}

func (bi *BufferedIterator[T]) completeClose() {
	bi.mu.Lock()
	bi.changeState(StateClosing)
	bi.changeState(StateClosed)
	bi.mu.Unlock()

	bi.bmu.Lock()
	bi.reading = readingActive
	bi.bmu.Unlock()

	called := false
	bi.source.flush(bi.push, func() {
		if called {
			fatalDoubleCallback("BufferedIterator._flush")
			return
		}
		called = true

		bi.bmu.Lock()
		bi.reading = readingIdle
		empty := len(bi.buffer) == 0
		bi.bmu.Unlock()

		if empty {
			schedule(bi.finish)
		}
	})
}

func (bi *BufferedIterator[T]) runDestroy(cause error, done func()) {
	bi.bmu.Lock()
	recordDrain(int64(len(bi.buffer)))
	bi.buffer = nil
	bi.bmu.Unlock()
	bi.source.destroy(cause, done)
}
