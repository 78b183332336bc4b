package stream

import (
	"context"
	"errors"

	"github.com/kbukum/iterflow/provider"
)

// FromProvider adapts a synchronous, context-based provider.Iterator[T]
// (the shape backend adapters speak: Next(ctx) (T, bool, error)) into this
// package's event-driven Iterator[T], driven through the buffered-generator
// protocol the same way Wrap adapts any other external pull source. ctx
// governs every Next call; cancelling it surfaces as an "error" event and
// destroys the resulting iterator.
func FromProvider[T any](p provider.Iterator[T], ctx context.Context) Iterator[T] {
	var it Iterator[T]
	it = Wrap[T](WrapOptions[T]{
		Read: func(count int, push func(T), done func()) {
			for i := 0; i < count; i++ {
				item, ok, err := p.Next(ctx)
				if err != nil {
					done()
					schedule(func() { it.Destroy(err) })
					return
				}
				if !ok {
					it.Close()
					done()
					return
				}
				push(item)
			}
			done()
		},
		Destroy: func(cause error, done func()) {
			_ = p.Close()
			done()
		},
	})
	return it
}

// providerIterator adapts a stream.Iterator[T] into provider.Iterator[T] by
// pulling it into flow mode and relaying each item across a channel, so
// code written against the synchronous Next(ctx) contract (health checks,
// gRPC streaming handlers, CLI consumers) can consume a stream.Iterator
// without learning its event protocol.
type providerIterator[T any] struct {
	src    Iterator[T]
	items  chan T
	errc   chan error
	done   chan struct{}
	closed bool
}

// ToProvider adapts src into a provider.Iterator[T]. src is driven in flow
// mode for the adapter's lifetime; Close unsubscribes and destroys src.
func ToProvider[T any](src Iterator[T]) provider.Iterator[T] {
	p := &providerIterator[T]{
		src:   src,
		items: make(chan T, DefaultMaxBufferSize),
		errc:  make(chan error, 1),
		done:  make(chan struct{}),
	}
	src.On(EventError, func(args ...any) {
		if len(args) == 1 {
			if err, ok := args[0].(error); ok {
				p.errc <- err
			}
		}
		close(p.done)
	})
	src.On(EventEnd, func(args ...any) { close(p.done) })
	src.ForEach(func(item T) { p.items <- item })
	return p
}

var errProviderClosed = errors.New("provider iterator closed")

func (p *providerIterator[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if p.closed {
		return zero, false, errProviderClosed
	}
	select {
	case item := <-p.items:
		return item, true, nil
	case err := <-p.errc:
		return zero, false, err
	case <-p.done:
		select {
		case item := <-p.items:
			return item, true, nil
		default:
			return zero, false, nil
		}
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (p *providerIterator[T]) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.src.Destroy(nil)
	return nil
}
