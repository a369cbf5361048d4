package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-management-service/internal/api/dto"
	"github.com/spec-kit/user-management-service/internal/service"
	apperrors "github.com/spec-kit/user-management-service/pkg/util"
)

// AuthHandler exposes the token issuance endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Authenticate handles POST /authenticate. Bad credentials surface as a 401
// with a generic message; anything else degrades to a generic 500 so causes
// are never revealed to the client.
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.AuthenticationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var missing []string
	if strings.TrimSpace(req.Username) == "" {
		missing = append(missing, "Username is mandatory")
	}
	if strings.TrimSpace(req.Password) == "" {
		missing = append(missing, "Password is mandatory")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(strings.Join(missing, ", "), nil)
	}

	result, err := h.auth.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		var domainErr *apperrors.DomainError
		if errors.As(err, &domainErr) && domainErr.HTTPStatus == http.StatusUnauthorized {
			return err
		}
		return apperrors.NewDomainError("AUTHENTICATION_ERROR",
			"An error occurred during authentication", http.StatusInternalServerError, nil)
	}

	return c.JSON(dto.AuthenticationResponse{
		Token:       result.Token,
		Authorities: result.Authorities,
		ExpiresAt:   result.ExpiresAt,
	})
}
