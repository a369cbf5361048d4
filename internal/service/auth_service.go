package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/user-management-service/internal/auth"
	"github.com/spec-kit/user-management-service/internal/config"
	"github.com/spec-kit/user-management-service/internal/domain"
	"github.com/spec-kit/user-management-service/internal/events"
	"github.com/spec-kit/user-management-service/internal/repository"
	apperrors "github.com/spec-kit/user-management-service/pkg/util"
)

// AuthResult is what a successful authentication hands back to the client:
// the signed token plus the authorities list so the client can render
// role-gated UI without decoding the token itself.
type AuthResult struct {
	Token       string
	Authorities []string
	ExpiresAt   time.Time
}

// AuthService verifies credentials and issues tokens.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService builds the service; the token manager is constructed here
// from the immutable auth configuration.
func NewAuthService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours),
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Authenticate checks the credential pair and, on success, issues a token
// embedding the user's role as held at login time.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.verifyCredentials(ctx, username, password)
	if err != nil {
		s.publish(ctx, events.NewEvent(events.EventLoginFailed, username, events.LoginFailedPayload{Reason: "invalid_credentials"}))
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventLoginSucceeded, user.Username, nil))
	s.logger.Info("user authenticated", zap.String("username", user.Username))

	return &AuthResult{
		Token:       token,
		Authorities: []string{user.Role.Authority()},
		ExpiresAt:   expiresAt,
	}, nil
}

// verifyCredentials looks the user up by username and compares the bcrypt
// hash. An unknown username and a wrong password produce the same error so
// account existence cannot be probed.
func (s *AuthService) verifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, event)
	}
}

// TokenManager exposes the underlying token manager for the request filter.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}
