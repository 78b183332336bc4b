package httpstream

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/iterflow/stream"
)

func TestComponentLifecycleStopsAttachedBridges(t *testing.T) {
	c := NewComponent("/events")
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	src := stream.FromArray([]int{1, 2, 3})
	b, err := NewBridge(c.Hub(), BridgeOptions[int]{Source: src})
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	b.Start()
	c.Attach(b)

	health := c.Health(context.Background())
	if health.Name != "httpstream" {
		t.Fatalf("unexpected health name: %q", health.Name)
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	waitForCondition(t, time.Second, func() bool { return c.hub.stopped })
}
