package adapters

import (
	"time"

	"github.com/kbukum/iterflow/internal/validate"
	"github.com/kbukum/iterflow/logging"
	"github.com/kbukum/iterflow/streamerr"
)

// ClientStreamOptions carries the settings shared by every adapter in this
// package: how much to buffer ahead of the consumer, how long a single
// blocking BLPOP poll may run (only RedisListIterator uses PollTimeout),
// and where to log.
// Each adapter's own Options struct embeds this rather than repeating the
// fields, so a single internal/validate.Validate call at construction
// covers them all.
type ClientStreamOptions struct {
	MaxBufferSize int           `validate:"gte=0"`
	PollTimeout   time.Duration `validate:"gte=0"`
	Logger        *logging.Logger `validate:"-"`
}

func (o ClientStreamOptions) logger() *logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Global()
}

func (o ClientStreamOptions) pollTimeout(fallback time.Duration) time.Duration {
	if o.PollTimeout > 0 {
		return o.PollTimeout
	}
	return fallback
}

func validateOptions(o ClientStreamOptions) error {
	if err := validate.Validate(o); err != nil {
		return streamerr.Wrap(streamerr.CodeInvalidOptions, "invalid adapter stream options", err)
	}
	return nil
}
