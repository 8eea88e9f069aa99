package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cse-resource-hub/internal/models"
	appErrors "github.com/noah-isme/cse-resource-hub/pkg/errors"
)

type authAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.Identity, error)
}

// Session holds the authenticated identity for one login/logout cycle.
// It is an explicit context object handed to the operations that need
// identity or role; there is no ambient global session.
type Session struct {
	identity *models.Identity
}

// Identity returns the session identity, nil after logout.
func (s *Session) Identity() *models.Identity {
	if s == nil {
		return nil
	}
	return s.identity
}

// Active reports whether the session still carries an identity.
func (s *Session) Active() bool {
	return s != nil && s.identity != nil
}

// SessionService manages the session lifecycle against the backend.
type SessionService struct {
	api       authAPI
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(api authAPI, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{api: api, validator: validate, logger: logger}
}

// Login validates the payload, authenticates against the backend and
// returns a fresh session. Semester is sent only for students; for other
// roles it is cleared before the request goes out.
func (s *SessionService) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if req.Role != models.RoleStudent {
		req.Semester = nil
	}

	identity, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("session_started",
		zap.String("email", identity.Email),
		zap.String("role", string(identity.Role)),
	)
	return &Session{identity: identity}, nil
}

// Logout destroys the session identity. The backend keeps no session
// state for this client, so logout is purely local.
func (s *SessionService) Logout(sess *Session) {
	if sess == nil || sess.identity == nil {
		return
	}
	s.logger.Info("session_ended", zap.String("email", sess.identity.Email))
	sess.identity = nil
}
