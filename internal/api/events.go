package api

import (
	"context"
	"io"
	"net/http"

	appErrors "github.com/noah-isme/cse-resource-hub/pkg/errors"
)

// EventStream is an open subscription to the backend's change feed. The
// stream stays open until the subscribing context is cancelled, the
// transport drops, or Close is called.
type EventStream struct {
	body    io.ReadCloser
	scanner *EventScanner
}

// NewEventStream wraps an already-open SSE body. Exposed so tests can
// drive the stream from any reader.
func NewEventStream(body io.ReadCloser) *EventStream {
	return &EventStream{body: body, scanner: NewEventScanner(body)}
}

// Events opens the long-lived change subscription on GET /events. The
// returned stream is bound to ctx: cancelling it tears the stream down.
func (c *Client) Events(ctx context.Context) (*EventStream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events", nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build events request")
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "subscribe to events")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, appErrors.FromStatus(resp.StatusCode, "events subscription rejected")
	}
	return NewEventStream(resp.Body), nil
}

// Next advances to the next pushed message.
func (s *EventStream) Next() bool {
	return s.scanner.Next()
}

// Event returns the current message. Valid only after Next returned true.
func (s *EventStream) Event() Event {
	return s.scanner.Event()
}

// Err reports why the stream stopped, nil for a clean end.
func (s *EventStream) Err() error {
	return s.scanner.Err()
}

// Close releases the underlying connection. Safe to call more than once.
func (s *EventStream) Close() error {
	return s.body.Close()
}
