package adapters

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func waitForCondition(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	if !cond() {
		t.Fatalf("condition not met within %s", timeout)
	}
}

func TestRedisListIteratorDrainsPushedItems(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	if _, err := mini.Push("queue", "a"); err != nil {
		t.Fatalf("seed queue: %v", err)
	}
	if _, err := mini.Push("queue", "b"); err != nil {
		t.Fatalf("seed queue: %v", err)
	}

	r, err := NewRedisListIterator(RedisListIteratorOptions{
		Client:              client,
		Key:                 "queue",
		ClientStreamOptions: ClientStreamOptions{PollTimeout: 200 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("NewRedisListIterator: %v", err)
	}

	var got []string
	src := r.Stream()
	src.ForEach(func(item string) { got = append(got, item) })

	waitForCondition(t, 2*time.Second, func() bool { return len(got) == 2 })
	if err := r.Stop(nil); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	waitForCondition(t, 2*time.Second, func() bool { return src.Destroyed() })

	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestRedisListIteratorRejectsNegativeBufferSize(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	_, err := NewRedisListIterator(RedisListIteratorOptions{
		Client:              client,
		Key:                 "queue",
		ClientStreamOptions: ClientStreamOptions{MaxBufferSize: -1},
	})
	if err == nil {
		t.Fatal("expected a validation error for negative MaxBufferSize")
	}
}
