package adapters

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/iterflow/component"
	"github.com/kbukum/iterflow/logging"
	"github.com/kbukum/iterflow/stream"
)

// RedisListIteratorOptions configures RedisListIterator.
type RedisListIteratorOptions struct {
	Client *goredis.Client `validate:"-"`
	Key    string

	ClientStreamOptions
}

// RedisListIterator pulls from a Redis list via BLPOP, grounded on the
// provider-wiring shape redis.Client's Name/IsAvailable pair uses: a held
// client plus a Ping-style availability check, here driving Health instead
// of provider.Provider.IsAvailable directly.
type RedisListIterator struct {
	client  *goredis.Client
	key     string
	timeout time.Duration
	log     *logging.Logger
	name    string

	ctx    context.Context
	cancel context.CancelFunc

	it stream.Iterator[string]
}

// NewRedisListIterator returns a stream.Iterator[string] that blocks on
// opts.Key via BLPOP until an item arrives, the source stream is destroyed,
// or the caller's Stop runs.
func NewRedisListIterator(opts RedisListIteratorOptions) (*RedisListIterator, error) {
	if err := validateOptions(opts.ClientStreamOptions); err != nil {
		return nil, err
	}
	log := opts.logger()
	timeout := opts.pollTimeout(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	r := &RedisListIterator{
		client:  opts.Client,
		key:     opts.Key,
		timeout: timeout,
		log:     log,
		name:    "redis:" + opts.Key,
		ctx:     ctx,
		cancel:  cancel,
	}
	r.it = stream.Wrap[string](stream.WrapOptions[string]{
		MaxBufferSize: opts.MaxBufferSize,
		AutoStart:     true,
		Read: func(count int, push func(string), done func()) {
			go r.readLoop(count, push, done)
		},
		Destroy: func(cause error, done func()) {
			r.cancel()
			done()
		},
	})
	return r, nil
}

// readLoop blocks on BLPOP until an item arrives, r.ctx is cancelled (by
// Destroy/Stop), or the client errors. A bare timeout (goredis.Nil) just
// means "nothing queued yet" and is not treated as a failed poll.
func (r *RedisListIterator) readLoop(count int, push func(string), done func()) {
	for i := 0; i < count; i++ {
		res, err := r.client.BLPop(r.ctx, r.timeout, r.key).Result()
		if err == goredis.Nil {
			i--
			continue
		}
		if err != nil {
			if r.ctx.Err() == nil {
				r.log.Error("redis blpop failed", map[string]any{"key": r.key, "error": err.Error()})
			}
			break
		}
		// BLPop returns [key, value].
		if len(res) == 2 {
			push(res[1])
		}
	}
	done()
}

// Stream returns the stream.Iterator[string] this adapter drives.
func (r *RedisListIterator) Stream() stream.Iterator[string] { return r.it }

var (
	_ component.Component   = (*RedisListIterator)(nil)
	_ component.Describable = (*RedisListIterator)(nil)
)

func (r *RedisListIterator) Name() string { return r.name }

func (r *RedisListIterator) Start(ctx context.Context) error { return nil }

func (r *RedisListIterator) Stop(ctx context.Context) error {
	r.it.Destroy(nil)
	return nil
}

func (r *RedisListIterator) Health(ctx context.Context) component.Health {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return component.Health{Name: r.name, Status: component.StatusUnhealthy, Message: err.Error()}
	}
	if r.it.Done() {
		return component.Health{Name: r.name, Status: component.StatusDegraded, Message: "stream ended"}
	}
	return component.Health{Name: r.name, Status: component.StatusHealthy}
}

func (r *RedisListIterator) Describe() component.Description {
	return component.Description{Name: "Redis List Iterator", Type: "redis", Details: r.name}
}
