package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/models"
	appErrors "github.com/noah-isme/cse-resource-hub/pkg/errors"
)

type resourceApprover interface {
	ApproveResource(ctx context.Context, id, approvedBy string) (*models.Resource, error)
}

// ApprovalService posts approval decisions for pending resources. Role
// gating here is advisory UI gating only; the backend independently
// re-verifies the approver before honoring the request.
type ApprovalService struct {
	api       resourceApprover
	resources refresher
	logger    *zap.Logger
}

// NewApprovalService builds the service. resources receives a Refresh of
// the active view after every successful decision.
func NewApprovalService(api resourceApprover, resources refresher, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{api: api, resources: resources, logger: logger}
}

// CanApprove reports whether the approval affordance should be shown for
// the identity. Renderers additionally disable the action once a
// resource's status is no longer pending in the last snapshot.
func (s *ApprovalService) CanApprove(actor *models.Identity) bool {
	return actor != nil && actor.Role.CanApprove()
}

// Approve posts the decision for resourceID on behalf of actor. The gate
// rejects non-moderator roles before any request is sent. On success the
// active view is re-fetched; a failed re-fetch leaves the cache stale but
// does not fail the approval. On failure nothing is refreshed or retried.
func (s *ApprovalService) Approve(ctx context.Context, resourceID string, actor *models.Identity) error {
	if actor == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "login required to approve")
	}
	if !actor.Role.CanApprove() {
		return appErrors.Clone(appErrors.ErrForbidden, "only teachers and admins can approve resources")
	}
	if resourceID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "resource id is required")
	}

	if _, err := s.api.ApproveResource(ctx, resourceID, actor.Email); err != nil {
		return err
	}

	s.logger.Info("resource approved",
		zap.String("id", resourceID),
		zap.String("approved_by", actor.Email),
	)
	if err := s.resources.Refresh(ctx); err != nil {
		s.logger.Warn("refresh after approval failed", zap.Error(err))
	}
	return nil
}
