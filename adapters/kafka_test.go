package adapters

import "testing"

func TestNewKafkaIteratorRejectsNegativeBufferSize(t *testing.T) {
	_, err := NewKafkaIterator(KafkaIteratorOptions{
		Brokers:             []string{"127.0.0.1:9092"},
		Topic:               "events",
		ClientStreamOptions: ClientStreamOptions{MaxBufferSize: -1},
	})
	if err == nil {
		t.Fatal("expected a validation error for negative MaxBufferSize")
	}
}

func TestNewKafkaIteratorRejectsNegativePollTimeout(t *testing.T) {
	_, err := NewKafkaIterator(KafkaIteratorOptions{
		Brokers:             []string{"127.0.0.1:9092"},
		Topic:               "events",
		ClientStreamOptions: ClientStreamOptions{PollTimeout: -1},
	})
	if err == nil {
		t.Fatal("expected a validation error for negative PollTimeout")
	}
}
