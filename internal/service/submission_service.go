package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/models"
	appErrors "github.com/noah-isme/cse-resource-hub/pkg/errors"
)

type resourceCreator interface {
	CreateResource(ctx context.Context, req models.CreateResourceRequest) (*models.Resource, error)
}

// ResourceDraft carries the raw form inputs for a submission. Tags is the
// unparsed comma-separated string, URLs are passed through verbatim or
// dropped when blank.
type ResourceDraft struct {
	Title       string
	Description string
	Subject     string
	Semester    int
	Tags        string
	FileURL     string
	ContentURL  string
}

// Reset clears the draft back to its defaults for the given submitter.
func (d *ResourceDraft) Reset(defaultSemester int) {
	*d = ResourceDraft{Semester: defaultSemester}
}

// SubmissionService validates and posts new resources.
type SubmissionService struct {
	api    resourceCreator
	logger *zap.Logger
}

// NewSubmissionService builds the service.
func NewSubmissionService(api resourceCreator, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{api: api, logger: logger}
}

// Submit validates the draft, posts it, and on success resets the draft
// to its defaults and returns the created record (pending by server
// convention). On failure the draft is left intact for retry; the
// submission does not itself refresh any cached list.
//
// Semester defaults to a student submitter's own semester when the draft
// leaves it unset.
func (s *SubmissionService) Submit(ctx context.Context, draft *ResourceDraft, actor *models.Identity) (*models.Resource, error) {
	if actor == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "login required to submit")
	}

	semester := draft.Semester
	if semester == 0 {
		semester = actor.DefaultSemester()
	}

	title := strings.TrimSpace(draft.Title)
	subject := strings.TrimSpace(draft.Subject)
	switch {
	case title == "":
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	case subject == "":
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject is required")
	case semester < 1 || semester > 8:
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester must be between 1 and 8")
	}

	req := models.CreateResourceRequest{
		Title:        title,
		Description:  draft.Description,
		Subject:      subject,
		Semester:     semester,
		Tags:         ParseTags(draft.Tags),
		FileURL:      optionalURL(draft.FileURL),
		ContentURL:   optionalURL(draft.ContentURL),
		UploadedBy:   actor.Email,
		UploaderName: actor.Name,
	}

	created, err := s.api.CreateResource(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("resource submitted",
		zap.String("id", created.ID),
		zap.String("subject", created.Subject),
		zap.Int("semester", created.Semester),
	)
	draft.Reset(actor.DefaultSemester())
	return created, nil
}

// ParseTags splits a comma-separated string into trimmed, non-empty
// tokens. Order is preserved and duplicates are passed through.
func ParseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

func optionalURL(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
