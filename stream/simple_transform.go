package stream

import (
	"github.com/kbukum/iterflow/internal/validate"
	"github.com/kbukum/iterflow/logging"
	"github.com/kbukum/iterflow/resilience"
	"github.com/kbukum/iterflow/streamerr"
)

// TransformOptions configures Map/Filter/Transform and the simpleTransform
// built from them: offset/limit/filter/map/transform/optional plus
// prepend/append sequences, the buffering knobs, and two resilience hooks
// with no equivalent in the original distillation (Retry/Breaker) that stay
// inert no-ops when left unset.
type TransformOptions[S, D any] struct {
	MaxBufferSize int `validate:"gte=0"`
	AutoStart     bool

	Offset int `validate:"gte=0"`

	// Limit bounds how many items this transform yields; nil means
	// unbounded (spec default: infinity). A pointer, not a bare int, so
	// the zero value of TransformOptions (Limit unset) is distinguishable
	// from an explicit Limit=0, which per spec yields empty regardless of
	// source.
	Limit *int `validate:"-"`

	Filter func(S) bool    `validate:"-"`
	Map    func(S) (D, bool) `validate:"-"` // ok=false means "skip" (spec: map returned null)

	// Transform runs asynchronously; push may be called zero or more
	// times before done. err, if non-nil, is surfaced as an "error"
	// event (and retried/circuit-broken per Retry/Breaker below) instead
	// of advancing pushedCount.
	Transform func(item S, push func(D), done func(err error)) `validate:"-"`
	Optional  bool

	Prepend Iterator[D] `validate:"-"`
	Append  Iterator[D] `validate:"-"`

	Source Iterator[S] `validate:"-"`

	// NoDestroySource opts out of the default destroy-source-on-end
	// behavior (spec default: destroy_source=true).
	NoDestroySource bool

	Retry   *resilience.RetryConfig   `validate:"-"`
	Breaker *resilience.CircuitBreaker `validate:"-"`
}

func (o TransformOptions[S, D]) withDefaults() TransformOptions[S, D] {
	if o.Filter == nil {
		o.Filter = func(S) bool { return true }
	}
	return o
}

// simpleTransform implements §4.ST on top of BufferedIterator[D], wired in
// through sourceBinding[S] for the shared §4.T lifecycle-forwarding piece.
type simpleTransform[S, D any] struct {
	*BufferedIterator[D]
	binding *sourceBinding[S]
	opts    TransformOptions[S, D]

	offsetRemaining int
	limitRemaining  int // negative means unbounded
}

// Transform builds a simpleTransform over src per opts, matching the
// map/filter/offset/limit/prepend/append/transform/optional contract of
// §4.ST.
func Transform[S, D any](src Iterator[S], opts TransformOptions[S, D]) Iterator[D] {
	opts = opts.withDefaults()

	if err := validate.Validate(opts); err != nil {
		return rejectedOptions[D](streamerr.Wrap(streamerr.CodeInvalidOptions, "invalid TransformOptions", err))
	}

	limit := -1
	if opts.Limit != nil {
		limit = *opts.Limit
		if limit < 0 {
			limit = 0
		}
	}

	st := &simpleTransform[S, D]{
		opts:            opts,
		offsetRemaining: opts.Offset,
		limitRemaining:  limit,
	}
	st.binding = newSourceBinding[S](!opts.NoDestroySource)

	bopts := BufferedOptions{MaxBufferSize: opts.MaxBufferSize, AutoStart: true}
	st.BufferedIterator = newBufferedIterator[D](st, st, bopts)

	st.binding.onReadable = st.fillBuffer
	st.binding.onError = func(err error) { st.em.Emit(EventError, err) }
	st.binding.onEnd = st.closeWhenDone

	source := opts.Source
	if source == nil {
		source = src
	}
	if source != nil {
		if err := st.binding.setSource(source); err != nil {
			reportSourceBindError(err)
		}
	}

	return st
}

func (st *simpleTransform[S, D]) closeWhenDone() {
	st.Close()
}

// begin wires the prepend sequence: its items are pushed ahead of anything
// read from the source, per §4.ST's _begin.
func (st *simpleTransform[S, D]) begin(done func()) {
	if st.opts.Prepend == nil {
		done()
		return
	}
	drainSequence(st.opts.Prepend, func(item D) { st.push(item) }, done)
}

// flush wires the append sequence, run once the transform has closed.
func (st *simpleTransform[S, D]) flush(push func(D), done func()) {
	if st.opts.Append == nil {
		done()
		return
	}
	drainSequence(st.opts.Append, push, done)
}

func drainSequence[D any](seq Iterator[D], push func(D), done func()) {
	detachData := seq.On(EventData, func(args ...any) {
		if len(args) == 1 {
			if item, ok := args[0].(D); ok {
				push(item)
			}
		}
	})
	var detachEnd func()
	detachEnd = seq.On(EventEnd, func(args ...any) {
		detachData()
		detachEnd()
		done()
	})
	seq.ForEach(func(D) {})
}

func (st *simpleTransform[S, D]) destroy(cause error, done func()) {
	st.binding.end()
	done()
}

// readInto is §4.ST's _read: loop pulling from the source, applying
// filter/offset/map/transform, pushing results, honoring limit, until
// count items have been pushed or the source is exhausted.
func (st *simpleTransform[S, D]) readInto(count int, push func(D), done func()) {
	pushed := 0
	for !st.Closed() && pushed < count {
		if st.limitRemaining == 0 {
			st.Close()
			break
		}
		item, ok := st.binding.read()
		if !ok {
			if st.binding.ended() {
				done()
				return
			}
			break
		}
		if !st.opts.Filter(item) {
			continue
		}
		if st.offsetRemaining > 0 {
			st.offsetRemaining--
			continue
		}

		if st.opts.Transform != nil {
			st.runItemTransform(item, func(d D) {
				if st.limitRemaining == 0 {
					return
				}
				push(d)
				if st.limitRemaining > 0 {
					st.limitRemaining--
				}
			})
			pushed++
			continue
		}

		mapped, keep := item, true
		var out D
		if st.opts.Map != nil {
			out, keep = st.opts.Map(item)
			if !keep {
				if st.opts.Optional {
					if z, ok2 := any(item).(D); ok2 {
						out = z
						keep = true
					}
				}
				if !keep {
					continue
				}
			}
		} else if z, ok2 := any(mapped).(D); ok2 {
			out = z
		}
		push(out)
		pushed++
		if st.limitRemaining > 0 {
			st.limitRemaining--
		}
	}
	done()
}

func (st *simpleTransform[S, D]) runItemTransform(item S, push func(D)) {
	call := func(done func(error)) {
		st.opts.Transform(item, push, done)
	}
	if st.opts.Breaker != nil {
		call = breakerWrap(st.opts.Breaker, call)
	}
	if st.opts.Retry != nil {
		call = retryWrap(st.opts.Retry, call)
	}
	call(func(err error) {
		if err != nil {
			st.em.Emit(EventError, streamerr.Wrap(streamerr.CodeUpstream, "transform failed", err))
		}
	})
}

func breakerWrap(cb *resilience.CircuitBreaker, call func(done func(error))) func(done func(error)) {
	return func(done func(error)) {
		if !cb.Allow() {
			done(streamerr.New(streamerr.CodeExhausted, "circuit open"))
			return
		}
		call(func(err error) {
			if err != nil {
				cb.RecordFailure(err)
			} else {
				cb.RecordSuccess()
			}
			done(err)
		})
	}
}

func retryWrap(cfg *resilience.RetryConfig, call func(done func(error))) func(done func(error)) {
	return func(done func(error)) {
		attempt := 0
		var run func()
		run = func() {
			attempt++
			call(func(err error) {
				if err == nil || attempt >= cfg.MaxAttempts {
					done(err)
					return
				}
				schedule(run)
			})
		}
		run()
	}
}

// reportSourceBindError handles a setSource failure at construction time.
// Binding a source twice, or to a source that already has a destination,
// is the same class of programming error as a double done() call, so it
// goes through the same fatal path as fatalDoubleCallback rather than
// being swallowed or surfaced as a recoverable stream error.
func reportSourceBindError(err error) {
	logging.Global().Fatal("source bind failed", map[string]any{"error": err.Error()})
}
