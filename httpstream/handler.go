package httpstream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/iterflow/logging"
)

// EventTypeConnected is sent once a client's subscription is registered.
const EventTypeConnected = "connected"

// keepAliveInterval matches the teacher's SSE handler: long enough to avoid
// flooding, short enough to beat typical 60s proxy idle timeouts.
const keepAliveInterval = 30 * time.Second

// ConnectedEvent is the payload sent immediately after a client subscribes.
type ConnectedEvent struct {
	ClientID string            `json:"client_id"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ClientIDFunc derives the subscribing client's ID from the request, e.g.
// a path param or query value identifying which tenant/session to stream.
type ClientIDFunc func(c *gin.Context) string

// Handler returns a gin.HandlerFunc that subscribes the requesting client
// to hub and streams broadcasts to it as Server-Sent Events, grounded on
// the teacher's flusher-based SSE write loop.
func Handler(hub *Hub, clientID ClientIDFunc, opts ...ClientOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := clientID(c)

		flusher, ok := c.Writer.(http.Flusher)
		if !ok {
			logging.Error("httpstream client does not support flushing", map[string]any{"client_id": id})
			c.String(http.StatusInternalServerError, "streaming not supported")
			return
		}

		rc := http.NewResponseController(c.Writer)
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			logging.Warn("httpstream could not disable write deadline", map[string]any{
				"client_id": id,
				"error":     err.Error(),
			})
		}

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		client := NewClient(id, opts...)
		hub.Register(client)
		defer hub.Unregister(client)

		connectedData, _ := json.Marshal(ConnectedEvent{ClientID: id, Metadata: client.Metadata()})
		_, _ = fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", EventTypeConnected, connectedData)
		flusher.Flush()

		logging.Debug("httpstream client connected", map[string]any{
			"client_id":   id,
			"remote_addr": c.Request.RemoteAddr,
		})

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				logging.Debug("httpstream client disconnected", map[string]any{"client_id": id})
				return

			case event, ok := <-client.Events():
				if !ok {
					return
				}
				_, _ = fmt.Fprintf(c.Writer, "data: %s\n\n", event)
				flusher.Flush()

			case <-keepAlive.C:
				_, _ = fmt.Fprintf(c.Writer, ": keepalive %d\n\n", time.Now().Unix())
				flusher.Flush()
			}
		}
	}
}
