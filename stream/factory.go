package stream

// WrapOptions exposes the BufferedIterator production hooks directly so an
// external pull source (the adapters package's Kafka/Redis/SQL/SSE
// producers) can be wrapped into this package's buffered-generator
// protocol without writing a bespoke bufferedSource implementation. This
// is §6's wrap(source, opts) factory.
type WrapOptions[T any] struct {
	MaxBufferSize int
	AutoStart     bool

	Begin   func(done func())
	Read    func(count int, push func(T), done func())
	Flush   func(push func(T), done func())
	Destroy func(cause error, done func())
}

type wrapped[T any] struct {
	*BufferedIterator[T]
	opts WrapOptions[T]
}

func (w *wrapped[T]) begin(done func()) {
	if w.opts.Begin == nil {
		done()
		return
	}
	w.opts.Begin(done)
}

func (w *wrapped[T]) readInto(count int, push func(T), done func()) {
	if w.opts.Read == nil {
		done()
		return
	}
	w.opts.Read(count, push, done)
}

func (w *wrapped[T]) flush(push func(T), done func()) {
	if w.opts.Flush == nil {
		done()
		return
	}
	w.opts.Flush(push, done)
}

func (w *wrapped[T]) destroy(cause error, done func()) {
	if w.opts.Destroy == nil {
		done()
		return
	}
	w.opts.Destroy(cause, done)
}

// Wrap adapts an external pull source into a stream.Iterator[T] driven by
// this package's buffered-generator protocol.
func Wrap[T any](opts WrapOptions[T]) Iterator[T] {
	w := &wrapped[T]{opts: opts}
	w.BufferedIterator = newBufferedIterator[T](w, w, BufferedOptions{
		MaxBufferSize: opts.MaxBufferSize,
		AutoStart:     opts.AutoStart,
	})
	return w
}

// Single is an alias for Singleton(item, true), matching §6's single(item)
// factory name for the common case of a present item.
func Single[T any](item T) Iterator[T] { return Singleton(item, true) }

// Map transforms every item of src through fn.
func Map[S, D any](src Iterator[S], fn func(S) D) Iterator[D] {
	return Transform(src, TransformOptions[S, D]{
		Map: func(s S) (D, bool) { return fn(s), true },
	})
}

// Filter keeps only items of src for which keep returns true.
func Filter[T any](src Iterator[T], keep func(T) bool) Iterator[T] {
	return Transform(src, TransformOptions[T, T]{Filter: keep})
}

// Prepend emits items first, then src.
func Prepend[T any](src Iterator[T], items ...T) Iterator[T] {
	return Transform(src, TransformOptions[T, T]{Prepend: FromArray(items)})
}

// Append emits src first, then items.
func Append[T any](src Iterator[T], items ...T) Iterator[T] {
	return Transform(src, TransformOptions[T, T]{Append: FromArray(items)})
}

// Surround prepends before and appends after, in one transform.
func Surround[T any](src Iterator[T], before, after []T) Iterator[T] {
	return Transform(src, TransformOptions[T, T]{
		Prepend: FromArray(before),
		Append:  FromArray(after),
	})
}

// Skip drops the first n items of src.
func Skip[T any](src Iterator[T], n int) Iterator[T] {
	return Transform(src, TransformOptions[T, T]{Offset: n})
}

// Take yields at most n items of src.
func Take[T any](src Iterator[T], n int) Iterator[T] {
	return Transform(src, TransformOptions[T, T]{Limit: intPtr(n)})
}

// RangeOf yields src items at positions [start, end] inclusive, matching
// skip(start).take(end-start+1) semantics.
func RangeOf[T any](src Iterator[T], start, end int) Iterator[T] {
	limit := end - start + 1
	if limit < 0 {
		limit = 0
	}
	return Transform(src, TransformOptions[T, T]{Offset: start, Limit: intPtr(limit)})
}

func intPtr(v int) *int { return &v }
