package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/spec-kit/user-management-service/internal/auth"
	"github.com/spec-kit/user-management-service/internal/domain"
	"github.com/spec-kit/user-management-service/internal/events"
	"github.com/spec-kit/user-management-service/internal/repository"
	apperrors "github.com/spec-kit/user-management-service/pkg/util"
)

const (
	msgUsernameTaken   = "Username is already taken."
	msgEmailRegistered = "Email is already registered."
)

const uniqueViolationCode = "23505"

// UserService implements the CRUD operations behind /users, including the
// ownership and role checks the handlers rely on.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, bcryptCost int, logger *zap.Logger) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, bcryptCost: bcryptCost, logger: logger}
}

// Register creates an account with the USER role. The requested payload can
// never grant itself a different role.
func (s *UserService) Register(ctx context.Context, username, password, email string) error {
	if messages := domain.ValidateUser(username, password, email); len(messages) > 0 {
		return apperrors.NewValidationError(strings.Join(messages, ", "), nil)
	}

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return apperrors.MapError(err)
	} else if taken {
		return apperrors.NewValidationError(msgUsernameTaken, nil)
	}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return apperrors.MapError(err)
	} else if taken {
		return apperrors.NewValidationError(msgEmailRegistered, nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// The existence probes race with concurrent registrations; the unique
		// constraints are the authoritative check.
		return mapUniqueViolation(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserRegistered, user.Username, events.UserLifecyclePayload{UserID: user.ID}))
	s.logger.Info("user registered", zap.String("username", user.Username), zap.Int64("user_id", user.ID))
	return nil
}

// GetUser returns the requested record. ADMIN may fetch any id, USER only
// their own. The ownership check runs before the lookup so a non-owner
// cannot learn whether an id exists.
func (s *UserService) GetUser(ctx context.Context, principal *auth.Principal, id int64) (*domain.User, error) {
	if !principal.IsAdmin() && principal.UserID != id {
		return nil, apperrors.NewForbidden("You are not allowed to view this user.")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns all users; ADMIN only.
func (s *UserService) ListUsers(ctx context.Context, principal *auth.Principal) ([]domain.User, error) {
	if !principal.IsAdmin() {
		return nil, apperrors.NewForbidden("Only ADMIN can list users.")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateUser replaces username, email and password on the target record.
// Owners may update themselves; ADMIN may update anyone.
func (s *UserService) UpdateUser(ctx context.Context, principal *auth.Principal, id int64, username, password, email string) error {
	if messages := domain.ValidateUser(username, password, email); len(messages) > 0 {
		return apperrors.NewValidationError(strings.Join(messages, ", "), nil)
	}

	if !principal.IsAdmin() && principal.UserID != id {
		return apperrors.NewForbidden("You are not allowed to update this user.")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	user.Username = username
	user.Email = email
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return mapUniqueViolation(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserUpdated, user.Username, events.UserLifecyclePayload{UserID: user.ID, Actor: principal.Username}))
	return nil
}

// DeleteUser removes the record; ADMIN only.
func (s *UserService) DeleteUser(ctx context.Context, principal *auth.Principal, id int64) error {
	if !principal.IsAdmin() {
		return apperrors.NewForbidden("Only ADMIN can delete users.")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserDeleted, "", events.UserLifecyclePayload{UserID: id, Actor: principal.Username}))
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, event)
	}
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return apperrors.NewValidationError(msgEmailRegistered, nil)
		}
		return apperrors.NewValidationError(msgUsernameTaken, nil)
	}
	return apperrors.MapError(err)
}
