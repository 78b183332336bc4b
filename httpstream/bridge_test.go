package httpstream

import (
	"testing"
	"time"

	"github.com/kbukum/iterflow/stream"
)

type tick struct {
	Tenant string
	Value  int
}

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

func TestBridgeBroadcastsToMatchingClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	src := stream.FromArray([]tick{{Tenant: "a", Value: 1}, {Tenant: "b", Value: 2}, {Tenant: "a", Value: 3}})
	b, err := NewBridge(hub, BridgeOptions[tick]{
		Source:  src,
		Pattern: func(item tick) string { return "tenant:" + item.Tenant },
	})
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	b.Start()
	t.Cleanup(b.Stop)

	clientA := NewClient("tenant:a")
	clientB := NewClient("tenant:b")
	hub.Register(clientA)
	hub.Register(clientB)
	t.Cleanup(func() {
		hub.Unregister(clientA)
		hub.Unregister(clientB)
	})

	var gotA, gotB int
	done := make(chan struct{})
	go func() {
		for i := 0; i < 2; i++ {
			<-clientA.Events()
			gotA++
		}
		close(done)
	}()
	go func() {
		<-clientB.Events()
		gotB = 1
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tenant:a events")
	}
	waitForCondition(t, 2*time.Second, func() bool { return gotB == 1 })

	if gotA != 2 {
		t.Fatalf("expected 2 events for tenant a, got %d", gotA)
	}
}

func TestNewBridgeRejectsNilSource(t *testing.T) {
	hub := NewHub()
	_, err := NewBridge[tick](hub, BridgeOptions[tick]{})
	if err == nil {
		t.Fatal("expected an error for a nil Source")
	}
}
