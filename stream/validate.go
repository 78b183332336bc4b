package stream

// rejectedIterator never yields an item; it exists only to carry a single
// "error" event for a constructor that rejected its options before
// attaching any source.
type rejectedIterator[T any] struct {
	*base[T]
}

func (r *rejectedIterator[T]) Read() (T, bool) {
	var zero T
	return zero, false
}

// rejectedOptions builds an iterator that destroys itself on the next tick,
// carrying cause as its single "error" event. Constructors that take a
// malformed options struct return this instead of partially wiring a
// source, so a validation failure never leaves a dangling subscription.
func rejectedOptions[T any](cause error) Iterator[T] {
	r := &rejectedIterator[T]{}
	r.base = newBase[T](r)
	schedule(func() { r.Destroy(cause) })
	return r
}
