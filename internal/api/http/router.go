package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ledger-service/internal/api/http/handlers"
	"github.com/spec-kit/ledger-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Ledger     *handlers.LedgerHandler
	APIKeyAuth *auth.APIKeyMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/token", cfg.Auth.IssueToken)
	authGroup.Get("/check", cfg.Auth.CheckToken)

	ledger := app.Group("/ledger", cfg.APIKeyAuth.Handle)
	ledger.Get("/identity", cfg.Ledger.Identity)
}
