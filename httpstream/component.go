package httpstream

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/iterflow/component"
)

// Component wraps a Hub plus the Bridges feeding it as a lifecycle-managed
// component: Start launches the hub's event loop, Stop drains it and waits
// for the bridges to detach.
type Component struct {
	hub     *Hub
	bridges []stoppable
	wg      sync.WaitGroup
	mu      sync.Mutex
	path    string
}

type stoppable interface{ Stop() }

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a Component with a fresh Hub mounted at path (used
// only for the startup summary; routing is the caller's responsibility).
func NewComponent(path string) *Component {
	return &Component{hub: NewHub(), path: path}
}

// Hub returns the underlying Hub for handler/bridge wiring.
func (c *Component) Hub() *Hub { return c.hub }

// Attach registers a bridge to be stopped when the component stops. It does
// not start the bridge; call Start on it once the component itself has
// started so the hub's Run loop is already accepting registrations.
func (c *Component) Attach(b stoppable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bridges = append(c.bridges, b)
}

func (c *Component) Name() string { return "httpstream" }

// Start launches the Hub's event loop in a background goroutine.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop detaches every attached bridge, signals the Hub to shut down, and
// waits for Run to return.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.bridges {
		b.Stop()
	}
	c.hub.Stop()
	c.wg.Wait()
	return nil
}

func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.ClientCount()),
	}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "HTTP Stream Fan-out",
		Type:    "httpstream",
		Details: fmt.Sprintf("path: %s, clients: %d", c.path, c.hub.ClientCount()),
	}
}
