package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/models"
)

type resourceLister interface {
	ListResources(ctx context.Context, filter models.Filter) ([]models.Resource, error)
	PendingResources(ctx context.Context) ([]models.Resource, error)
}

// ResourceService owns the cached resource list. It is the single writer:
// every trigger (filter change, mode change, pushed invalidation,
// successful approval) funnels into List, which replaces the whole cache
// atomically. Readers only ever get snapshots.
//
// Concurrent overlapping calls are safe. Each call is stamped with a
// generation when issued, and a completed fetch commits only if its
// generation is still the latest issued, so a slow stale response can
// never clobber the result of a newer request.
type ResourceService struct {
	api    resourceLister
	logger *zap.Logger

	mu     sync.Mutex
	items  []models.Resource
	loaded bool
	filter models.Filter
	mode   models.ViewMode
	issued uint64
}

// NewResourceService builds the service. The initial view is explore
// with no filter, and the cache starts in the empty/loading pre-state.
func NewResourceService(api resourceLister, logger *zap.Logger) *ResourceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{api: api, logger: logger, mode: models.ModeExplore}
}

// List fetches the resources selected by (filter, mode) and replaces the
// cache with the result. Pending mode always queries the dedicated
// pending path with status forced to pending, whatever the filter says.
// The returned slice is this call's fetch result in server-supplied
// order; the client never re-sorts.
//
// On failure the cache keeps its previous contents (stale but valid) and
// the error is returned to the caller.
func (s *ResourceService) List(ctx context.Context, filter models.Filter, mode models.ViewMode) ([]models.Resource, error) {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.filter = filter.Clone()
	s.mode = mode
	s.mu.Unlock()

	var items []models.Resource
	var err error
	if mode == models.ModePending {
		items, err = s.api.PendingResources(ctx)
	} else {
		items, err = s.api.ListResources(ctx, filter)
	}
	if err != nil {
		s.logger.Warn("resource list failed, keeping cached data",
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return nil, err
	}
	if items == nil {
		items = []models.Resource{}
	}

	s.mu.Lock()
	if gen == s.issued {
		s.items = items
		s.loaded = true
	}
	s.mu.Unlock()

	return snapshot(items), nil
}

// Refresh re-runs List with the currently active filter and mode. Pushed
// invalidations and successful approvals converge here.
func (s *ResourceService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	filter := s.filter.Clone()
	mode := s.mode
	s.mu.Unlock()

	_, err := s.List(ctx, filter, mode)
	return err
}

// Snapshot returns a copy of the cached list for rendering.
func (s *ResourceService) Snapshot() []models.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.items)
}

// Loaded reports whether any fetch has completed. Before the first
// successful load, an empty snapshot means "loading", not "no results".
func (s *ResourceService) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Mode returns the currently active view mode.
func (s *ResourceService) Mode() models.ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func snapshot(items []models.Resource) []models.Resource {
	out := make([]models.Resource, len(items))
	copy(out, items)
	return out
}
