package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scubafy-dev/scubafy-backend/internal/api/http/handlers"
	"github.com/scubafy-dev/scubafy-backend/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Access     *handlers.AccessHandler
	Admin      *handlers.AdminHandler
	Metrics    *observability.Metrics
	AdminToken string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/verify-staff-code", cfg.Auth.VerifyStaffCode)
	authGroup.Post("/resolve-center", cfg.Auth.ResolveCenter)
	authGroup.Get("/account", cfg.Auth.LookupAccount)

	accessGroup := api.Group("/access")
	accessGroup.Post("/check", cfg.Access.RouteCheck)
	accessGroup.Post("/entry", cfg.Access.EntryRedirect)

	adminGroup := api.Group("/admin", RequireAdminToken(cfg.AdminToken))
	adminGroup.Post("/dive-centers", cfg.Admin.CreateDiveCenter)
	adminGroup.Get("/dive-centers", cfg.Admin.ListDiveCenters)
	adminGroup.Post("/staff", cfg.Admin.CreateStaff)
	adminGroup.Get("/staff", cfg.Admin.ListStaff)
	adminGroup.Get("/staff/:id", cfg.Admin.GetStaff)
	adminGroup.Put("/staff/:id", cfg.Admin.UpdateStaff)
}
