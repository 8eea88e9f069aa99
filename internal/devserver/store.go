package devserver

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/cse-resource-hub/internal/models"
)

// Store is the in-memory resource collection behind the stub backend.
// Listings are returned newest first, which is the order the real
// backend serves and the client treats as authoritative.
type Store struct {
	mu        sync.RWMutex
	resources []models.Resource
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Seed inserts resources as-is, newest first, for tests and local runs.
func (s *Store) Seed(resources ...models.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range resources {
		s.resources = append([]models.Resource{r}, s.resources...)
	}
}

// ListApproved returns approved resources matching the filter.
func (s *Store) ListApproved(filter models.Filter) []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Resource{}
	for _, r := range s.resources {
		if r.Status != models.StatusApproved {
			continue
		}
		if filter.Semester != nil && r.Semester != *filter.Semester {
			continue
		}
		if filter.Subject != "" && !strings.Contains(strings.ToLower(r.Subject), strings.ToLower(filter.Subject)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ListPending returns all pending resources. Pending visibility is not
// restricted by role here, matching the deployed backend's behavior.
func (s *Store) ListPending() []models.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Resource{}
	for _, r := range s.resources {
		if r.Status == models.StatusPending {
			out = append(out, r)
		}
	}
	return out
}

// Create stores a new pending resource and returns it.
func (s *Store) Create(req models.CreateResourceRequest) models.Resource {
	resource := models.Resource{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		Semester:     req.Semester,
		Tags:         append([]string{}, req.Tags...),
		FileURL:      req.FileURL,
		ContentURL:   req.ContentURL,
		UploadedBy:   req.UploadedBy,
		UploaderName: req.UploaderName,
		Status:       models.StatusPending,
	}

	s.mu.Lock()
	s.resources = append([]models.Resource{resource}, s.resources...)
	s.mu.Unlock()
	return resource
}

// Approve marks the resource approved and records the approver. Approving
// an already-approved resource returns it unchanged.
func (s *Store) Approve(id, approvedBy string) (models.Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.resources {
		if s.resources[i].ID != id {
			continue
		}
		if s.resources[i].Status != models.StatusApproved {
			s.resources[i].Status = models.StatusApproved
			s.resources[i].ApprovedBy = &approvedBy
		}
		return s.resources[i], true
	}
	return models.Resource{}, false
}
