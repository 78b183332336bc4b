package stream

import "sync"

// Iterator is the contract every stream type in this package satisfies. Go
// methods cannot introduce new type parameters, so the type-changing
// operators (Map, Filter, Transform, Clone, ...) are free functions (in
// factory.go, simple_transform.go and clone.go) that accept and return
// Iterator[T] rather than methods on it —
// the same shape the teacher's pipeline package uses for Map[I,O], Filter[T]
// and FlatMap[I,O].
type Iterator[T any] interface {
	// Read pulls one item. ok is false when no item is currently
	// available; it never distinguishes "no item yet" from "ended" —
	// callers use Done/Ended for that.
	Read() (item T, ok bool)

	Close()
	Destroy(cause error)

	Readable() bool
	Closed() bool
	Ended() bool
	Destroyed() bool
	Done() bool
	State() State

	On(event string, fn func(args ...any)) func()
	HasListeners(event string) bool

	GetProperty(name string) (any, bool)
	GetPropertyAsync(name string, cb func(any))
	SetProperty(name string, value any)
	SetProperties(map[string]any)
	GetProperties() map[string]any

	// ForEach attaches cb as a data listener, entering flow mode.
	ForEach(cb func(T))
}

// base is embedded by every concrete iterator in this package. It owns the
// state machine, the event bus, the property store, and the flow-mode
// engagement switch described for the base iterator. It does not implement
// Read itself — concrete types supply that, since Go has no virtual method
// dispatch through an embedded struct for self-calls; base instead exposes
// hooks concrete types configure at construction.
type base[T any] struct {
	mu    sync.Mutex
	state State
	em    *emitter
	props *propertyStore

	readableFlag bool

	// self lets base schedule operations that must invoke the concrete
	// type's own Read/Close overrides via the Iterator[T] interface
	// (dynamic dispatch works through an interface value even though it
	// does not work through an embedded-struct self-call). Concrete
	// constructors set this to themselves immediately after allocation.
	self Iterator[T]

	// onDestroy is the per-type teardown hook invoked by Destroy after
	// the state transition decision but before emitting error/DESTROYED.
	onDestroy func(cause error, done func())

	// flowDetach un-registers the internal readable handler installed by
	// the flow-mode engagement switch; nil when not engaged.
	flowDetach func()
	// newListenerDetach un-registers the newListener hook; reinstalled
	// each time flow mode disengages.
	newListenerDetach func()

	// hasDestination implements the source's destination-slot invariant:
	// a source carries at most one destination at a time, except when a
	// History multiplexes several clones (History claims the slot once,
	// on behalf of all of them).
	hasDestination bool
}

// claimDestination enforces the at-most-one-destination invariant. It
// returns false if the slot is already occupied.
func (b *base[T]) claimDestination() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasDestination {
		return false
	}
	b.hasDestination = true
	return true
}

// releaseDestination frees the destination slot, e.g. when a Transform
// unsubscribes from its source on _end.
func (b *base[T]) releaseDestination() {
	b.mu.Lock()
	b.hasDestination = false
	b.mu.Unlock()
}

// destinationClaimer is implemented by every concrete iterator (via the
// embedded *base) so a Transform can enforce the single-destination
// invariant on an arbitrary Iterator[S] value.
type destinationClaimer interface {
	claimDestination() bool
	releaseDestination()
}

func newBase[T any](self Iterator[T]) *base[T] {
	b := &base[T]{
		state: StateInit,
		em:    newEmitter(),
		props: newPropertyStore(),
		self:  self,
	}
	b.armNewListenerHook()
	return b
}

func (b *base[T]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *base[T]) Closed() bool    { return b.State() >= StateClosing }
func (b *base[T]) Ended() bool     { return b.State() == StateEnded }
func (b *base[T]) Destroyed() bool { return b.State() == StateDestroyed }
func (b *base[T]) Done() bool      { return b.State() >= StateEnded }

// changeState applies the forward-only transition rule: new > state &&
// state < ENDED. Callers must hold b.mu.
func (b *base[T]) changeState(new State) bool {
	if new > b.state && b.state < StateEnded {
		b.state = new
		return true
	}
	return false
}

func (b *base[T]) Readable() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readableFlag
}

// setReadable applies the base setter's coercion: new = new && !done. On a
// false->true transition it schedules a deferred "readable" emission.
func (b *base[T]) setReadable(new bool) {
	b.mu.Lock()
	if b.state >= StateEnded {
		new = false
	}
	changed := new && !b.readableFlag
	b.readableFlag = new
	b.mu.Unlock()
	if changed {
		schedule(func() { b.em.Emit(EventReadable) })
	}
}

// releaseTerminalListeners drops readable/data/end listeners once the
// iterator reaches a terminal state, per the base iterator's invariant.
func (b *base[T]) releaseTerminalListeners() {
	b.em.RemoveAllListeners(EventReadable)
	b.em.RemoveAllListeners(EventData)
	b.em.RemoveAllListeners(EventEnd)
}

// Close requests termination. The base behavior transitions to CLOSED and
// schedules a deferred end(); it is a no-op if already closed or done.
// Concrete types with their own shutdown protocol (BufferedIterator, Clone)
// shadow this method.
func (b *base[T]) Close() {
	b.mu.Lock()
	if b.state >= StateClosing {
		b.mu.Unlock()
		return
	}
	b.changeState(StateClosing)
	b.changeState(StateClosed)
	b.mu.Unlock()
	schedule(b.finish)
}

// finish performs the CLOSED->ENDED transition and the single end emission.
func (b *base[T]) finish() {
	b.mu.Lock()
	if !b.changeState(StateEnded) {
		b.mu.Unlock()
		return
	}
	b.readableFlag = false
	b.mu.Unlock()
	b.em.Emit(EventEnd)
	b.releaseTerminalListeners()
}

// Destroy forces termination, discarding buffered items. cause, if
// non-nil, is emitted as a single "error" event; no "end" is ever emitted
// on this path.
func (b *base[T]) Destroy(cause error) {
	b.mu.Lock()
	if b.state == StateDestroyed || b.state == StateEnded {
		b.mu.Unlock()
		return
	}
	hook := b.onDestroy
	b.mu.Unlock()

	done := func() {
		b.mu.Lock()
		b.state = StateDestroyed
		b.readableFlag = false
		b.mu.Unlock()
		if cause != nil {
			b.em.Emit(EventError, cause)
		}
		b.releaseTerminalListeners()
		b.em.RemoveAllListeners(EventError)
	}
	if hook != nil {
		hook(cause, done)
	} else {
		done()
	}
}

func (b *base[T]) On(event string, fn func(args ...any)) func() {
	return b.em.On(event, fn)
}

func (b *base[T]) HasListeners(event string) bool {
	return b.em.HasListeners(event)
}

func (b *base[T]) GetProperty(name string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.props.get(name)
}

func (b *base[T]) GetPropertyAsync(name string, cb func(any)) {
	b.mu.Lock()
	thunk := b.props.getAsync(name, cb)
	b.mu.Unlock()
	thunk()
}

func (b *base[T]) SetProperty(name string, value any) {
	b.mu.Lock()
	cbs := b.props.set(name, value)
	b.mu.Unlock()
	if len(cbs) > 0 {
		schedule(func() {
			for _, cb := range cbs {
				cb(value)
			}
		})
	}
}

func (b *base[T]) SetProperties(values map[string]any) {
	for k, v := range values {
		b.SetProperty(k, v)
	}
}

func (b *base[T]) GetProperties() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.props.snapshot()
}

// ForEach attaches cb as a data listener, which — via the newListener hook
// armed below — engages flow mode.
func (b *base[T]) ForEach(cb func(T)) {
	b.em.On(EventData, func(args ...any) {
		if len(args) == 1 {
			if item, ok := args[0].(T); ok {
				cb(item)
			}
		}
	})
}

// armNewListenerHook installs the one-shot newListener('data') trigger that
// engages flow mode, per the base iterator's flow-mode engagement rule.
func (b *base[T]) armNewListenerHook() {
	b.newListenerDetach = b.em.On(EventNewListener, func(args ...any) {
		if len(args) != 1 {
			return
		}
		name, _ := args[0].(string)
		if name != EventData {
			return
		}
		b.engageFlowMode()
	})
}

func (b *base[T]) engageFlowMode() {
	b.mu.Lock()
	if b.newListenerDetach != nil {
		detach := b.newListenerDetach
		b.newListenerDetach = nil
		b.mu.Unlock()
		detach()
	} else {
		b.mu.Unlock()
	}

	b.flowDetach = b.em.On(EventReadable, func(args ...any) { b.drain() })
	if b.Readable() {
		schedule(b.drain)
	}
}

// drain repeatedly calls Read through the concrete type while data
// listeners exist and items are available, emitting each as "data". When
// listeners disappear (and the iterator is not done) it disengages flow
// mode and re-arms the newListener hook.
func (b *base[T]) drain() {
	for b.em.HasListeners(EventData) {
		item, ok := b.self.Read()
		if !ok {
			break
		}
		b.em.Emit(EventData, item)
	}
	if !b.em.HasListeners(EventData) && !b.Done() {
		b.mu.Lock()
		if b.flowDetach != nil {
			detach := b.flowDetach
			b.flowDetach = nil
			b.mu.Unlock()
			detach()
		} else {
			b.mu.Unlock()
		}
		b.armNewListenerHook()
	}
}
