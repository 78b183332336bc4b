package adapters

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kbukum/iterflow/component"
	"github.com/kbukum/iterflow/logging"
	"github.com/kbukum/iterflow/stream"
)

// KafkaIteratorOptions configures KafkaIterator. It mirrors the
// brokers/topic/group shape a kafka-go Reader needs, trimmed of the TLS and
// SASL dialer options that belong to a service's own connection setup.
type KafkaIteratorOptions struct {
	Brokers []string
	Topic   string
	GroupID string

	ClientStreamOptions
}

// KafkaIterator wraps a kafka-go Reader as a stream.Iterator[kafkago.Message],
// grounded on the reader-loop shape consumer.Consumer.Consume uses: a
// blocking ReadMessage call per item, retried on transient errors instead of
// failing the whole stream.
type KafkaIterator struct {
	reader *kafkago.Reader
	log    *logging.Logger
	name   string

	ctx    context.Context
	cancel context.CancelFunc

	it stream.Iterator[kafkago.Message]
}

// NewKafkaIterator returns a KafkaIterator whose Stream() reads opts.Topic;
// the KafkaIterator itself implements component.Component for lifecycle
// management.
func NewKafkaIterator(opts KafkaIteratorOptions) (*KafkaIterator, error) {
	if err := validateOptions(opts.ClientStreamOptions); err != nil {
		return nil, err
	}
	log := opts.logger()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     opts.Brokers,
		Topic:       opts.Topic,
		GroupID:     opts.GroupID,
		StartOffset: kafkago.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...any) {
			log.Warn("kafka reader", map[string]any{"msg": fmt.Sprintf(msg, args...)})
		}),
	})

	ctx, cancel := context.WithCancel(context.Background())
	k := &KafkaIterator{reader: reader, log: log, name: "kafka:" + opts.Topic, ctx: ctx, cancel: cancel}
	k.it = stream.Wrap[kafkago.Message](stream.WrapOptions[kafkago.Message]{
		MaxBufferSize: opts.MaxBufferSize,
		AutoStart:     true,
		Read: func(count int, push func(kafkago.Message), done func()) {
			go k.readLoop(count, push, done)
		},
		Destroy: func(cause error, done func()) {
			k.cancel()
			_ = k.reader.Close()
			done()
		},
	})
	return k, nil
}

// readLoop runs off its own goroutine (ReadMessage blocks on network I/O)
// and calls push/done back on the caller-supplied callbacks, which are
// safe to invoke from any goroutine since they only touch BufferedIterator
// state behind bi.bmu. A read error from k.ctx's own cancellation (Stop)
// is expected shutdown, not a failure worth logging.
func (k *KafkaIterator) readLoop(count int, push func(kafkago.Message), done func()) {
	for i := 0; i < count; i++ {
		msg, err := k.reader.ReadMessage(k.ctx)
		if err != nil {
			if k.ctx.Err() == nil {
				k.log.Error("kafka read failed", map[string]any{"topic": k.name, "error": err.Error()})
			}
			break
		}
		push(msg)
	}
	done()
}

// Stream returns the stream.Iterator[kafkago.Message] this adapter drives.
func (k *KafkaIterator) Stream() stream.Iterator[kafkago.Message] { return k.it }

var (
	_ component.Component   = (*KafkaIterator)(nil)
	_ component.Describable = (*KafkaIterator)(nil)
)

func (k *KafkaIterator) Name() string { return k.name }

func (k *KafkaIterator) Start(ctx context.Context) error { return nil }

func (k *KafkaIterator) Stop(ctx context.Context) error {
	k.it.Destroy(nil)
	return nil
}

func (k *KafkaIterator) Health(ctx context.Context) component.Health {
	if k.it.Done() {
		return component.Health{Name: k.name, Status: component.StatusUnhealthy, Message: "stream ended"}
	}
	return component.Health{Name: k.name, Status: component.StatusHealthy}
}

func (k *KafkaIterator) Describe() component.Description {
	return component.Description{Name: "Kafka Consumer", Type: "kafka", Details: k.name}
}
