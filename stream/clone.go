package stream

import "sync"

// history is owned by the source of a clone chain (installed into the
// source's destination slot the first time Clone is called on it). It
// lazily replays the source's items to however many clones have
// registered, each tracking its own read position.
type history[T any] struct {
	mu      sync.Mutex
	source  Iterator[T]
	buf     []T
	clones  map[*cloneIterator[T]]struct{}
	ended   bool
	unsub   []func()
}

func newHistory[T any](source Iterator[T]) *history[T] {
	h := &history[T]{source: source, clones: make(map[*cloneIterator[T]]struct{})}
	h.unsub = append(h.unsub,
		source.On(EventReadable, func(args ...any) { h.onSourceReadable() }),
		source.On(EventEnd, func(args ...any) { h.onSourceEnd() }),
		source.On(EventError, func(args ...any) {
			if len(args) == 1 {
				if err, ok := args[0].(error); ok {
					h.onSourceError(err)
				}
			}
		}),
	)
	return h
}

// register attaches a new clone, starting at position 0 so it observes
// the full history regardless of how far other clones have advanced. A
// clone registered after the source already ended still replays correctly
// from h.buf; h.clones itself may have been nilled by onSourceEnd, so it's
// re-initialized here rather than assumed live.
func (h *history[T]) register(c *cloneIterator[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clones == nil {
		h.clones = make(map[*cloneIterator[T]]struct{})
	}
	h.clones[c] = struct{}{}
}

func (h *history[T]) unregister(c *cloneIterator[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clones, c)
}

// readAt is the history's core: serve from the buffer if pos is already
// materialized; otherwise pull once from the (single, shared) source.
func (h *history[T]) readAt(pos int) (T, bool) {
	h.mu.Lock()
	if pos < len(h.buf) {
		item := h.buf[pos]
		h.mu.Unlock()
		return item, true
	}
	ended := h.ended
	h.mu.Unlock()

	var zero T
	if ended {
		return zero, false
	}

	item, ok := h.source.Read()
	if !ok {
		return zero, false
	}
	h.mu.Lock()
	h.buf = append(h.buf, item)
	h.mu.Unlock()
	return item, true
}

func (h *history[T]) endsAt(pos int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ended && len(h.buf) == pos
}

func (h *history[T]) onSourceReadable() {
	h.mu.Lock()
	clones := make([]*cloneIterator[T], 0, len(h.clones))
	for c := range h.clones {
		clones = append(clones, c)
	}
	h.mu.Unlock()
	for _, c := range clones {
		c.setReadable(true)
	}
}

func (h *history[T]) onSourceEnd() {
	h.mu.Lock()
	h.ended = true
	clones := make([]*cloneIterator[T], 0, len(h.clones))
	for c := range h.clones {
		clones = append(clones, c)
	}
	h.clones = nil
	for _, fn := range h.unsub {
		fn()
	}
	bufLen := len(h.buf)
	h.mu.Unlock()

	for _, c := range clones {
		if c.position() == bufLen {
			c.Close()
		}
	}
}

func (h *history[T]) onSourceError(err error) {
	h.mu.Lock()
	clones := make([]*cloneIterator[T], 0, len(h.clones))
	for c := range h.clones {
		clones = append(clones, c)
	}
	h.mu.Unlock()
	for _, c := range clones {
		c.em.Emit(EventError, err)
	}
}

// cloneIterator is §4.C: a consumer of a shared History, with no self
// buffer of its own.
type cloneIterator[T any] struct {
	*base[T]
	hist *history[T]
	pos  int
	pmu  sync.Mutex
}

// Clone returns a new independent consumer of src's items. The first call
// on a given source lazily installs a History in its destination slot;
// later calls register additional clones against the same history.
func Clone[T any](src Iterator[T]) Iterator[T] {
	hist, ok := getCloneHistory[T](src)
	if !ok {
		hist = newHistory[T](src)
		setCloneHistory[T](src, hist)
		if dc, ok := any(src).(destinationClaimer); ok {
			dc.claimDestination()
		}
	}

	c := &cloneIterator[T]{hist: hist}
	c.base = newBase[T](c)
	c.onDestroy = func(cause error, done func()) {
		hist.unregister(c)
		done()
	}
	hist.register(c)
	c.setReadable(true)
	return c
}

func (c *cloneIterator[T]) position() int {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	return c.pos
}

func (c *cloneIterator[T]) Read() (T, bool) {
	c.pmu.Lock()
	pos := c.pos
	c.pmu.Unlock()

	item, ok := c.hist.readAt(pos)
	if !ok {
		c.setReadable(false)
		if c.hist.endsAt(pos) {
			c.Close()
		}
		var zero T
		return zero, false
	}
	c.pmu.Lock()
	c.pos++
	c.pmu.Unlock()
	return item, true
}

// Close bypasses any buffered-iterator shutdown (a clone has no self
// buffer) and goes straight to the base close.
func (c *cloneIterator[T]) Close() {
	c.base.Close()
}

// cloneHistories maps a source iterator to its lazily-created History.
// Go methods can't introduce new type parameters, so getCloneHistory and
// setCloneHistory are free functions; the map itself is untyped (any->any)
// since a single package-level variable must serve every instantiation of
// Clone[T], and each entry's key (the source Iterator[T] value, always a
// pointer to a concrete generator type) is already a valid map key on its
// own — no reflection needed.
var (
	cloneHistoriesMu sync.Mutex
	cloneHistories   = make(map[any]any)
)

func getCloneHistory[T any](src Iterator[T]) (*history[T], bool) {
	cloneHistoriesMu.Lock()
	defer cloneHistoriesMu.Unlock()
	h, ok := cloneHistories[src]
	if !ok {
		return nil, false
	}
	return h.(*history[T]), true
}

func setCloneHistory[T any](src Iterator[T], h *history[T]) {
	cloneHistoriesMu.Lock()
	cloneHistories[src] = h
	cloneHistoriesMu.Unlock()
}
