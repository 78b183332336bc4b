package httpstream

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHandlerStreamsConnectedEventAndBroadcasts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	engine := gin.New()
	engine.GET("/events/:id", Handler(hub, func(c *gin.Context) string { return "client:" + c.Param("id") }))

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/events/42", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read connected event line: %v", err)
	}
	if !strings.HasPrefix(line, "event: "+EventTypeConnected) {
		t.Fatalf("expected a connected event first, got %q", line)
	}

	waitForCondition(t, time.Second, func() bool { return hub.ClientCount() == 1 })
	hub.BroadcastToPattern("client:42", []byte(`{"hello":"world"}`))

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read broadcast: %v", err)
		}
		if strings.HasPrefix(line, "data: {\"hello\"") {
			return
		}
	}
}
