package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/api"
	"github.com/noah-isme/cse-resource-hub/internal/models"
	"github.com/noah-isme/cse-resource-hub/pkg/config"
)

type eventSubscriber interface {
	Events(ctx context.Context) (*api.EventStream, error)
}

type refresher interface {
	Refresh(ctx context.Context) error
}

// Watcher holds the live invalidation subscription. Every recognized
// change notification triggers a full re-fetch of the currently active
// view; the payload is treated as an opaque signal, never as a patch.
//
// The subscription is acquired once per Run and released when ctx is
// cancelled or the transport drops. A dropped transport is retried with
// capped exponential backoff so invalidation does not stay silently
// stalled, but a failing refresh is only logged: the cache keeps its
// stale-but-valid contents either way.
type Watcher struct {
	api        eventSubscriber
	resources  refresher
	logger     *zap.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewWatcher builds a watcher driving refreshes on resources.
func NewWatcher(api eventSubscriber, resources refresher, cfg config.EventsConfig, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	minBackoff := cfg.ReconnectMinBackoff
	if minBackoff <= 0 {
		minBackoff = time.Second
	}
	maxBackoff := cfg.ReconnectMaxBackoff
	if maxBackoff < minBackoff {
		maxBackoff = minBackoff
	}
	return &Watcher{
		api:        api,
		resources:  resources,
		logger:     logger,
		minBackoff: minBackoff,
		maxBackoff: maxBackoff,
	}
}

// Run subscribes and consumes change notifications until ctx is
// cancelled. It always returns ctx.Err(); cancelling ctx is the one way
// the channel resource is released.
func (w *Watcher) Run(ctx context.Context) error {
	backoff := w.minBackoff
	for {
		stream, err := w.api.Events(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Warn("events subscription failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff, w.maxBackoff)
			continue
		}

		backoff = w.minBackoff
		w.consume(ctx, stream)
		stream.Close()

		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.logger.Warn("events stream dropped, reconnecting", zap.Error(stream.Err()), zap.Duration("retry_in", backoff))
		if !sleep(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, w.maxBackoff)
	}
}

func (w *Watcher) consume(ctx context.Context, stream *api.EventStream) {
	for stream.Next() {
		if ctx.Err() != nil {
			return
		}

		raw := stream.Event()
		var change models.ChangeEvent
		if err := json.Unmarshal([]byte(raw.Data), &change); err != nil {
			// Malformed payloads are discarded, never surfaced.
			w.logger.Debug("discarding malformed event payload", zap.String("data", raw.Data))
			continue
		}
		if !change.Event.Recognized() {
			w.logger.Debug("ignoring unrecognized event", zap.String("event", string(change.Event)))
			continue
		}

		w.logger.Info("change notification received", zap.String("event", string(change.Event)))
		if err := w.resources.Refresh(ctx); err != nil {
			w.logger.Warn("refresh after change notification failed", zap.Error(err))
		}
	}
}

// sleep waits for d or until ctx is cancelled, reporting whether the
// full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func nextBackoff(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}
