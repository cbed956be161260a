// Package sse writes Server-Sent Events frames onto an HTTP response.
package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	headerContentType     = "Content-Type"
	headerCacheControl    = "Cache-Control"
	headerConnection      = "Connection"
	headerXAccelBuffering = "X-Accel-Buffering"

	// ContentType is the media type of an SSE response.
	ContentType = "text/event-stream"
)

// Event is one SSE frame. An empty Type omits the "event:" line so the
// client sees a default "message" event.
type Event struct {
	Type string
	ID   string
	Data any
}

// SetHeaders switches a response into streaming mode.
func SetHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set(headerContentType, ContentType)
	h.Set(headerCacheControl, "no-cache")
	h.Set(headerConnection, "keep-alive")
	h.Set(headerXAccelBuffering, "no")
}

// Encode writes event to w in wire format. Data is JSON-encoded on a single
// "data:" line without HTML escaping, so URLs keep their literal '&'.
func Encode(w io.Writer, event Event) error {
	if event.Type != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event.Type); err != nil {
			return fmt.Errorf("write event type: %w", err)
		}
	}

	if event.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", event.ID); err != nil {
			return fmt.Errorf("write event id: %w", err)
		}
	}

	var data bytes.Buffer
	enc := json.NewEncoder(&data)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(event.Data); err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", bytes.TrimRight(data.Bytes(), "\n")); err != nil {
		return fmt.Errorf("write event data: %w", err)
	}

	return nil
}

// Writer sends events on a response and flushes after each one so that no
// frame waits in a buffer.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	started bool
}

// NewWriter wraps w. Headers are not sent until the first Send or Start.
func NewWriter(w http.ResponseWriter) *Writer {
	f, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: f}
}

// Start sends the streaming headers with a 200 status.
func (s *Writer) Start() {
	if s.started {
		return
	}
	SetHeaders(s.w)
	s.w.WriteHeader(http.StatusOK)
	s.started = true
}

// Send writes one event and flushes it.
func (s *Writer) Send(event Event) error {
	s.Start()

	if err := Encode(s.w, event); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// SendData is Send for an untyped event.
func (s *Writer) SendData(data any) error {
	return s.Send(Event{Data: data})
}
