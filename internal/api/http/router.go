package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-management-service/internal/api/http/handlers"
	"github.com/spec-kit/user-management-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Users         *handlers.UsersHandler
	Authenticator *auth.RequestAuthenticator
	Policy        *auth.AccessPolicy
}

// RegisterRoutes wires HTTP routes. The authenticator runs first on every
// request, the access policy second; handlers only see requests the policy
// let through.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Authenticator.Handle)
	app.Use(cfg.Policy.Enforce())

	health := app.Group("/health", frameEmbeddingAllowance())
	health.Get("/live", cfg.Health.Live)
	health.Get("/ready", cfg.Health.Ready)

	app.Post("/authenticate", cfg.Auth.Authenticate)

	users := app.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.GetByID)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
}

// frameEmbeddingAllowance permits same-origin frame embedding on the
// diagnostics group only; nothing else relaxes frame options.
func frameEmbeddingAllowance() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXFrameOptions, "SAMEORIGIN")
		return c.Next()
	}
}
