package httpstream

import (
	"encoding/json"

	"github.com/kbukum/iterflow/internal/validate"
	"github.com/kbukum/iterflow/logging"
	"github.com/kbukum/iterflow/stream"
	"github.com/kbukum/iterflow/streamerr"
)

// BridgeOptions configures a Bridge.
type BridgeOptions[T any] struct {
	Source stream.Iterator[T] `validate:"-"`

	// Pattern derives the broadcast pattern for an item, e.g. partitioning
	// a multi-tenant stream by tenant ID. Defaults to "*" (every client)
	// when nil.
	Pattern func(T) string `validate:"-"`

	// Encode renders an item as the SSE payload. Defaults to JSON when nil.
	Encode func(T) ([]byte, error) `validate:"-"`

	Logger *logging.Logger `validate:"-"`
}

func (o BridgeOptions[T]) logger() *logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Global()
}

// Bridge drains a stream.Iterator[T] in flow mode and rebroadcasts every
// item, SSE-encoded, to the clients registered on a Hub. It is the
// generic counterpart of a single long-lived SSE producer writing directly
// to one http.ResponseWriter: the Hub lets many HTTP clients share the one
// upstream drain.
type Bridge[T any] struct {
	hub     *Hub
	source  stream.Iterator[T]
	pattern func(T) string
	encode  func(T) ([]byte, error)
	log     *logging.Logger

	detachData  func()
	detachError func()
}

// NewBridge wires opts.Source into hub. Call Start to begin draining.
func NewBridge[T any](hub *Hub, opts BridgeOptions[T]) (*Bridge[T], error) {
	if opts.Source == nil {
		return nil, streamerr.New(streamerr.CodeInvalidOptions, "httpstream: Source is required")
	}
	if err := validate.Validate(opts); err != nil {
		return nil, streamerr.Wrap(streamerr.CodeInvalidOptions, "invalid bridge options", err)
	}

	pattern := opts.Pattern
	if pattern == nil {
		pattern = func(T) string { return "*" }
	}
	encode := opts.Encode
	if encode == nil {
		encode = func(item T) ([]byte, error) { return json.Marshal(item) }
	}

	return &Bridge[T]{
		hub:     hub,
		source:  opts.Source,
		pattern: pattern,
		encode:  encode,
		log:     opts.logger(),
	}, nil
}

// Start puts the source iterator into flow mode, broadcasting every item to
// the hub as it arrives. Non-blocking: the drain runs on the stream
// package's scheduler, not the calling goroutine. Using On(EventData, ...)
// directly rather than ForEach keeps the detach func ForEach discards, so
// Stop can disengage without waiting for the source to end.
func (b *Bridge[T]) Start() {
	b.detachData = b.source.On(stream.EventData, func(args ...any) {
		if len(args) != 1 {
			return
		}
		item, ok := args[0].(T)
		if !ok {
			return
		}
		data, err := b.encode(item)
		if err != nil {
			b.log.Error("httpstream encode failed", map[string]any{"error": err.Error()})
			return
		}
		b.hub.BroadcastToPattern(b.pattern(item), data)
	})
	b.detachError = b.source.On(stream.EventError, func(args ...any) {
		if len(args) > 0 {
			if err, ok := args[0].(error); ok {
				b.log.Error("httpstream source error", map[string]any{"error": err.Error()})
			}
		}
	})
}

// Stop detaches from the source iterator's events. It does not destroy the
// source; callers that own its lifecycle stop it independently.
func (b *Bridge[T]) Stop() {
	if b.detachData != nil {
		b.detachData()
	}
	if b.detachError != nil {
		b.detachError()
	}
}
