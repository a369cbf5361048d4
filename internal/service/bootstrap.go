package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"go.uber.org/zap"

	"github.com/spec-kit/user-management-service/internal/auth"
	"github.com/spec-kit/user-management-service/internal/config"
	"github.com/spec-kit/user-management-service/internal/domain"
	"github.com/spec-kit/user-management-service/internal/repository"
)

// BootstrapAdmin seeds an initial ADMIN account when none exists. It is
// idempotent: with an admin already present it does nothing. When no
// password is configured a random one is generated and logged once, so a
// fresh deployment is never reachable with a well-known credential.
func BootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig, users repository.UserRepository, bcryptCost int, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	count, err := users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := cfg.AdminPassword
	generated := false
	if password == "" {
		password, err = generatePassword(24)
		if err != nil {
			return err
		}
		generated = true
	}

	hash, err := auth.HashPassword(password, bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	if generated {
		logger.Info("initial admin account created with generated password",
			zap.String("username", admin.Username),
			zap.String("password", password))
	} else {
		logger.Info("initial admin account created", zap.String("username", admin.Username))
	}
	return nil
}

func generatePassword(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}
