package stream

import (
	"github.com/kbukum/iterflow/internal/validate"
	"github.com/kbukum/iterflow/resilience"
	"github.com/kbukum/iterflow/streamerr"
)

// MultiTransformOptions configures MultiTransform: each source item is
// expanded into its own sub-iterator by CreateTransformer, and the results
// are concatenated in source order.
type MultiTransformOptions[S, D any] struct {
	MaxBufferSize int `validate:"gte=0"`

	// CreateTransformer builds the per-item sub-iterator. A nil return
	// value is treated as an empty iterator.
	CreateTransformer func(item S) Iterator[D] `validate:"-"`
	Optional          bool

	Source          Iterator[S] `validate:"-"`
	NoDestroySource bool

	// Bulkhead bounds how many sub-iterators may be open concurrently,
	// distinct from MaxBufferSize's bound on the {item, transformer}
	// queue length. Unset means unbounded.
	Bulkhead *resilience.Bulkhead `validate:"-"`
}

type mtRecord[S, D any] struct {
	item        S
	hasItem     bool // sentinel: cleared once an item has been pushed for this record
	transformer Iterator[D]
	unsubscribe []func()
	released    bool // bulkhead slot released
}

// multiTransform implements §4.MT on top of BufferedIterator[D].
type multiTransform[S, D any] struct {
	*BufferedIterator[D]
	binding *sourceBinding[S]
	opts    MultiTransformOptions[S, D]

	queue []*mtRecord[S, D]
}

// MultiTransform builds a multiTransform over src per opts.
func MultiTransform[S, D any](src Iterator[S], opts MultiTransformOptions[S, D]) Iterator[D] {
	if err := validate.Validate(opts); err != nil {
		return rejectedOptions[D](streamerr.Wrap(streamerr.CodeInvalidOptions, "invalid MultiTransformOptions", err))
	}
	if opts.CreateTransformer == nil {
		opts.CreateTransformer = func(item S) Iterator[D] {
			var d D
			if v, ok := any(item).(D); ok {
				d = v
			}
			return Singleton(d, true)
		}
	}

	mt := &multiTransform[S, D]{opts: opts}
	mt.binding = newSourceBinding[S](!opts.NoDestroySource)

	bopts := BufferedOptions{MaxBufferSize: opts.MaxBufferSize, AutoStart: true}
	mt.BufferedIterator = newBufferedIterator[D](mt, mt, bopts)

	mt.binding.onReadable = mt.fillBuffer
	mt.binding.onError = func(err error) { mt.em.Emit(EventError, err) }
	mt.binding.onEnd = func() {
		if len(mt.queue) == 0 {
			mt.Close()
		}
	}

	source := opts.Source
	if source == nil {
		source = src
	}
	if source != nil {
		if err := mt.binding.setSource(source); err != nil {
			reportSourceBindError(err)
		}
	}
	return mt
}

func (mt *multiTransform[S, D]) begin(done func()) { done() }
func (mt *multiTransform[S, D]) flush(push func(D), done func()) { done() }

func (mt *multiTransform[S, D]) destroy(cause error, done func()) {
	for _, rec := range mt.queue {
		mt.releaseRecord(rec)
	}
	mt.queue = nil
	mt.binding.end()
	done()
}

func (mt *multiTransform[S, D]) acquireBulkhead() bool {
	if mt.opts.Bulkhead == nil {
		return true
	}
	return mt.opts.Bulkhead.TryAcquire()
}

func (mt *multiTransform[S, D]) releaseRecord(rec *mtRecord[S, D]) {
	for _, fn := range rec.unsubscribe {
		fn()
	}
	if mt.opts.Bulkhead != nil && !rec.released {
		rec.released = true
		mt.opts.Bulkhead.Release()
	}
}

// readInto implements §4.MT's _read algorithm: drop ended leading records
// (optionally substituting the original item), refill the queue from the
// source up to MaxBufferSize records, then drain up to count items from the
// head transformer.
func (mt *multiTransform[S, D]) readInto(count int, push func(D), done func()) {
	pushed := 0

	for len(mt.queue) > 0 && mt.queue[0].transformer.Done() {
		rec := mt.queue[0]
		mt.queue = mt.queue[1:]
		if mt.opts.Optional && rec.hasItem {
			if d, ok := any(rec.item).(D); ok {
				push(d)
				pushed++
			}
		}
		mt.releaseRecord(rec)
	}

	maxQueue := mt.BufferedIterator.maxBuffer
	for !mt.binding.ended() && len(mt.queue) < maxQueue {
		if mt.opts.Bulkhead != nil && !mt.acquireBulkhead() {
			break
		}
		item, ok := mt.binding.read()
		if !ok {
			if mt.opts.Bulkhead != nil {
				mt.opts.Bulkhead.Release()
			}
			break
		}
		mt.enqueue(item)
	}

	if len(mt.queue) > 0 {
		head := mt.queue[0]
		for pushed < count {
			item, ok := head.transformer.Read()
			if !ok {
				break
			}
			push(item)
			pushed++
			if mt.opts.Optional {
				head.hasItem = false
			}
		}
	}

	if mt.binding.ended() && len(mt.queue) == 0 {
		mt.Close()
	}
	done()
}

func (mt *multiTransform[S, D]) enqueue(item S) {
	transformer := mt.opts.CreateTransformer(item)
	if transformer == nil {
		transformer = Empty[D]()
	}
	rec := &mtRecord[S, D]{item: item, hasItem: true, transformer: transformer}
	rec.unsubscribe = append(rec.unsubscribe,
		transformer.On(EventEnd, func(args ...any) { mt.fillBuffer() }),
		transformer.On(EventReadable, func(args ...any) { mt.fillBuffer() }),
		transformer.On(EventError, func(args ...any) {
			if len(args) == 1 {
				if err, ok := args[0].(error); ok {
					mt.em.Emit(EventError, err)
				}
			}
		}),
	)
	mt.queue = append(mt.queue, rec)
}
