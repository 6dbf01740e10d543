package chatstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// ErrStreamingUnsupported is returned when the response writer cannot flush.
var ErrStreamingUnsupported = errors.New("chatstream: response writer does not support streaming")

// Encoder serializes frames onto an SSE stream. Writes are serialized so
// concurrent tool invocations can emit frames without interleaving bytes;
// frame order on the wire is the order Write is called.
type Encoder struct {
	mu      sync.Mutex
	w       io.Writer
	flusher http.Flusher
}

// NewEncoder prepares an SSE encoder over the given response writer and
// emits the stream headers.
func NewEncoder(w http.ResponseWriter) (*Encoder, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	return &Encoder{w: w, flusher: flusher}, nil
}

// NewEncoderWriter builds an encoder over a plain writer, flushing through
// the optional flusher. Used by tests and non-HTTP transports.
func NewEncoderWriter(w io.Writer, flusher http.Flusher) *Encoder {
	return &Encoder{w: w, flusher: flusher}
}

// Write emits one frame as an SSE event named after the frame type, with the
// JSON frame as data, and flushes it to the client.
func (e *Encoder) Write(frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := fmt.Fprintf(e.w, "event: %s\n", frame.Type); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", data); err != nil {
		return err
	}
	if e.flusher != nil {
		e.flusher.Flush()
	}
	return nil
}
