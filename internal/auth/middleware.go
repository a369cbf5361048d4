package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/user-management-service/internal/domain"
	"github.com/spec-kit/user-management-service/internal/events"
	"github.com/spec-kit/user-management-service/internal/repository"
)

const principalKey = "auth_principal"

const bearerPrefix = "Bearer "

// Principal is the authenticated identity attached to one request. It is
// built from the freshly loaded user record, never from an unverified token.
type Principal struct {
	UserID   int64
	Username string
	Role     domain.Role
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p *Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

// RequestAuthenticator derives a request principal from a bearer token. It
// never rejects a request itself; the access policy decides downstream.
type RequestAuthenticator struct {
	tokens     *TokenManager
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewRequestAuthenticator constructs the filter.
func NewRequestAuthenticator(tokens *TokenManager, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RequestAuthenticator {
	return &RequestAuthenticator{tokens: tokens, users: users, dispatcher: dispatcher, logger: logger}
}

// Handle runs once per request, before any business handler. Every branch
// forwards the request exactly once; a bad token only means the principal
// stays unset. The raw token is never logged.
func (m *RequestAuthenticator) Handle(c *fiber.Ctx) error {
	uri := c.OriginalURL()
	header := c.Get(fiber.HeaderAuthorization)

	if !strings.HasPrefix(header, bearerPrefix) {
		m.logger.Debug("no bearer token on request",
			zap.String("uri", uri),
			zap.Bool("authorization_header", header != ""))
		return c.Next()
	}

	tokenStr := header[len(bearerPrefix):]
	subject, err := m.tokens.ExtractSubject(tokenStr)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, ErrTokenExpired) {
			reason = "expired"
		}
		m.logger.Warn("rejected bearer token", zap.String("uri", uri), zap.String("reason", reason))
		m.publishRejection(c, "", reason)
		return c.Next()
	}

	if _, ok := PrincipalFromContext(c); ok {
		// Already authenticated earlier in the chain; never overwrite.
		return c.Next()
	}

	user, err := m.users.GetByUsername(c.Context(), subject)
	if err != nil {
		m.logger.Warn("token subject not found in store",
			zap.String("uri", uri), zap.String("subject", subject))
		m.publishRejection(c, subject, "unknown_subject")
		return c.Next()
	}

	if !m.tokens.Validate(tokenStr, user.Username) {
		m.logger.Warn("token failed validation",
			zap.String("uri", uri), zap.String("subject", subject))
		m.publishRejection(c, subject, "invalid")
		return c.Next()
	}

	// Role comes from the store at validation time, not from the token, so a
	// role change takes effect on the next request rather than the next login.
	c.Locals(principalKey, &Principal{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	m.logger.Info("request authenticated",
		zap.String("uri", uri),
		zap.String("subject", user.Username),
		zap.String("role", string(user.Role)))
	return c.Next()
}

func (m *RequestAuthenticator) publishRejection(c *fiber.Ctx, subject, reason string) {
	if m.dispatcher == nil {
		return
	}
	_ = m.dispatcher.Publish(c.Context(), events.NewEvent(events.EventTokenRejected, subject, events.TokenRejectedPayload{
		Reason: reason,
		URI:    c.OriginalURL(),
	}))
}

// PrincipalFromContext retrieves the authenticated identity, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
