package stream

import (
	"fmt"
	"sync"

	"github.com/kbukum/iterflow/streamerr"
)

// sourceBinding is the §4.T "Transform iterator" piece factored out as a
// standalone helper so both SimpleTransform and MultiTransform can bind one
// upstream source and forward its lifecycle without each re-implementing
// the subscription bookkeeping. It enforces that a source is set at most
// once and that it carries no other destination.
type sourceBinding[S any] struct {
	mu            sync.Mutex
	source        Iterator[S]
	set           bool
	destroySource bool
	unsubscribe   []func()

	onEnd      func()
	onReadable func()
	onError    func(err error)
}

func newSourceBinding[S any](destroySource bool) *sourceBinding[S] {
	return &sourceBinding[S]{destroySource: destroySource}
}

// setSource attaches src, subscribing to its end/readable/error events.
// Calling it twice, or attaching a source that already has a destination,
// is a programming error reported via streamerr rather than silently
// tolerated.
func (sb *sourceBinding[S]) setSource(src Iterator[S]) error {
	sb.mu.Lock()
	if sb.set {
		sb.mu.Unlock()
		return streamerr.New(streamerr.CodeSourceReplaced, "source already set on this transform")
	}
	sb.mu.Unlock()

	// Claim before committing sb.source/sb.set: a failed claim must leave
	// this binding exactly as unset as it was before the call, or the
	// caller would go on reading a source no other transform has actually
	// bound, racing the real destination for items.
	if dc, ok := any(src).(destinationClaimer); ok {
		if !dc.claimDestination() {
			return streamerr.New(streamerr.CodeSourceBound, "source already has a destination")
		}
	}

	sb.mu.Lock()
	sb.set = true
	sb.source = src
	sb.mu.Unlock()

	if src.Done() {
		if sb.onEnd != nil {
			schedule(sb.onEnd)
		}
		return nil
	}

	sb.unsubscribe = append(sb.unsubscribe,
		src.On(EventEnd, func(args ...any) {
			if sb.onEnd != nil {
				sb.onEnd()
			}
		}),
		src.On(EventReadable, func(args ...any) {
			if sb.onReadable != nil {
				sb.onReadable()
			}
		}),
		src.On(EventError, func(args ...any) {
			if len(args) == 1 && sb.onError != nil {
				if err, ok := args[0].(error); ok {
					sb.onError(err)
				} else {
					sb.onError(fmt.Errorf("%v", args[0]))
				}
			}
		}),
	)
	return nil
}

func (sb *sourceBinding[S]) read() (S, bool) {
	sb.mu.Lock()
	src := sb.source
	sb.mu.Unlock()
	if src == nil {
		var zero S
		return zero, false
	}
	return src.Read()
}

func (sb *sourceBinding[S]) ended() bool {
	sb.mu.Lock()
	src := sb.source
	sb.mu.Unlock()
	return src == nil || src.Done()
}

// end unsubscribes from the source, frees its destination slot, and
// destroys it unless destroySource is false.
func (sb *sourceBinding[S]) end() {
	sb.mu.Lock()
	src := sb.source
	unsub := sb.unsubscribe
	sb.unsubscribe = nil
	destroy := sb.destroySource
	sb.mu.Unlock()

	for _, fn := range unsub {
		fn()
	}
	if src == nil {
		return
	}
	if dc, ok := any(src).(destinationClaimer); ok {
		dc.releaseDestination()
	}
	if destroy {
		src.Destroy(nil)
	}
}
