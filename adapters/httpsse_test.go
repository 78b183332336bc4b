package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSSEIteratorParsesEventStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: one\n\n"))
		_, _ = w.Write([]byte("event: tick\ndata: two\n\n"))
	}))
	defer srv.Close()

	s, err := NewSSEIterator(context.Background(), SSEIteratorOptions{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewSSEIterator: %v", err)
	}

	var got []*SSEEvent
	ended := false
	src := s.Stream()
	src.On("end", func(args ...any) { ended = true })
	src.ForEach(func(item *SSEEvent) { got = append(got, item) })

	waitForCondition(t, 2*time.Second, func() bool { return ended })

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Data != "one" {
		t.Errorf("got %q, want %q", got[0].Data, "one")
	}
	if got[1].Event != "tick" || got[1].Data != "two" {
		t.Errorf("got %+v, want event=tick data=two", got[1])
	}
}

func TestSSEIteratorRejectsNegativeBufferSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewSSEIterator(context.Background(), SSEIteratorOptions{
		URL:                 srv.URL,
		ClientStreamOptions: ClientStreamOptions{MaxBufferSize: -1},
	})
	if err == nil {
		t.Fatal("expected a validation error for negative MaxBufferSize")
	}
}
