package adapters

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/iterflow/component"
	"github.com/kbukum/iterflow/logging"
	"github.com/kbukum/iterflow/stream"
)

// SSEEvent is a single server-sent event.
type SSEEvent struct {
	Event string
	Data  string
	ID    string
}

// sseReader scans an SSE body line by line, grounded on the same
// field-accumulate-until-blank-line algorithm httpclient's SSE reader uses:
// data lines accumulate (joined by newline), event/id overwrite, a blank
// line flushes the accumulated event, and EOF flushes whatever is pending.
type sseReader struct {
	scanner *bufio.Scanner
	body    io.ReadCloser
}

func newSSEReader(body io.ReadCloser) *sseReader {
	return &sseReader{scanner: bufio.NewScanner(body), body: body}
}

func (r *sseReader) next() (*SSEEvent, error) {
	var event SSEEvent
	var hasData bool

	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			if hasData {
				return &event, nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value := parseSSELine(line)
		switch field {
		case "data":
			if hasData {
				event.Data += "\n" + value
			} else {
				event.Data = value
				hasData = true
			}
		case "event":
			event.Event = value
		case "id":
			event.ID = value
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if hasData {
		return &event, nil
	}
	return nil, io.EOF
}

func (r *sseReader) close() error { return r.body.Close() }

func parseSSELine(line string) (field, value string) {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return line, ""
	}
	field = line[:idx]
	value = line[idx+1:]
	if value != "" && value[0] == ' ' {
		value = value[1:]
	}
	return field, value
}

// SSEIteratorOptions configures SSEIterator.
type SSEIteratorOptions struct {
	URL    string
	Client *http.Client `validate:"-"`

	ClientStreamOptions
}

// SSEIterator consumes a server-sent-events response as a
// stream.Iterator[*SSEEvent]. io.EOF from the underlying reader ends the
// stream; any other error is surfaced as an "error" event instead.
type SSEIterator struct {
	reader *sseReader
	resp   *http.Response
	log    *logging.Logger
	name   string

	it stream.Iterator[*SSEEvent]
}

// NewSSEIterator issues a GET against opts.URL and returns a
// stream.Iterator[*SSEEvent] over the response body.
func NewSSEIterator(ctx context.Context, opts SSEIteratorOptions) (*SSEIterator, error) {
	if err := validateOptions(opts.ClientStreamOptions); err != nil {
		return nil, err
	}
	log := opts.logger()
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	s := &SSEIterator{
		reader: newSSEReader(resp.Body),
		resp:   resp,
		log:    log,
		name:   "sse:" + opts.URL,
	}
	var it stream.Iterator[*SSEEvent]
	it = stream.Wrap[*SSEEvent](stream.WrapOptions[*SSEEvent]{
		MaxBufferSize: opts.MaxBufferSize,
		AutoStart:     true,
		Read: func(count int, push func(*SSEEvent), done func()) {
			go s.readLoop(it, count, push, done)
		},
		Destroy: func(cause error, done func()) {
			_ = s.reader.close()
			done()
		},
	})
	s.it = it
	return s, nil
}

// readLoop runs on its own goroutine (reader.next blocks on network I/O).
// done is called first so the buffered-generator's reading state settles
// before the terminal Close/Destroy call runs.
func (s *SSEIterator) readLoop(it stream.Iterator[*SSEEvent], count int, push func(*SSEEvent), done func()) {
	var readErr error
	eof := false
	for i := 0; i < count; i++ {
		event, err := s.reader.next()
		if errors.Is(err, io.EOF) {
			eof = true
			break
		}
		if err != nil {
			s.log.Error("sse read failed", map[string]any{"url": s.name, "error": err.Error()})
			readErr = err
			break
		}
		push(event)
	}
	done()
	if eof {
		it.Close()
	} else if readErr != nil {
		it.Destroy(readErr)
	}
}

// Stream returns the stream.Iterator[*SSEEvent] this adapter drives.
func (s *SSEIterator) Stream() stream.Iterator[*SSEEvent] { return s.it }

var (
	_ component.Component   = (*SSEIterator)(nil)
	_ component.Describable = (*SSEIterator)(nil)
)

func (s *SSEIterator) Name() string { return s.name }

func (s *SSEIterator) Start(ctx context.Context) error { return nil }

func (s *SSEIterator) Stop(ctx context.Context) error {
	s.it.Destroy(nil)
	return nil
}

func (s *SSEIterator) Health(ctx context.Context) component.Health {
	if s.it.Done() {
		return component.Health{Name: s.name, Status: component.StatusUnhealthy, Message: "stream ended"}
	}
	return component.Health{Name: s.name, Status: component.StatusHealthy}
}

func (s *SSEIterator) Describe() component.Description {
	return component.Description{Name: "SSE Client Iterator", Type: "http-sse", Details: s.name}
}
