package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/one-blood/donation-service/internal/api/http/handlers"
	"github.com/one-blood/donation-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Donations      *handlers.DonationsHandler
	Blogs          *handlers.BlogsHandler
	AuthMiddleware *auth.Middleware
	Guards         *auth.Guards
}

// RegisterRoutes wires HTTP routes. The bearer middleware runs on every
// request; the guards decide per-route whether anonymous or under-privileged
// callers get through, always authenticating before authorizing.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	// Public browsing surface.
	app.Get("/donation-requests", cfg.Donations.ListPublic)
	app.Get("/donors/search", cfg.Users.SearchDonors)
	app.Get("/blogs", cfg.Blogs.ListPublished)
	app.Get("/blogs/:id", cfg.Blogs.GetPublished)

	authenticated := cfg.Guards.RequireAuthenticated()

	// Static segments must register before the :id wildcard.
	app.Get("/donation-requests/mine", authenticated, cfg.Donations.ListMine)
	app.Get("/donation-requests/recent", authenticated, cfg.Donations.ListRecent)
	app.Get("/donation-requests/:id", cfg.Donations.GetPublic)
	app.Get("/donation-requests/:id/full", authenticated, cfg.Donations.GetFull)
	app.Post("/donation-requests", authenticated, cfg.Donations.Create)
	app.Patch("/donation-requests/:id/claim", authenticated, cfg.Donations.Claim)
	app.Patch("/donation-requests/:id/status", authenticated, cfg.Donations.SetStatus)
	app.Patch("/donation-requests/:id", authenticated, cfg.Donations.Update)
	app.Delete("/donation-requests/:id", authenticated, cfg.Donations.Delete)

	app.Get("/users/me", authenticated, cfg.Users.Me)
	app.Get("/users/admin/:email", authenticated, cfg.Users.IsAdmin)
	app.Get("/users/volunteer/:email", authenticated, cfg.Users.IsVolunteer)
	app.Patch("/users/:id", authenticated, cfg.Users.UpdateProfile)

	moderators := app.Group("/admin", cfg.Guards.RequireAdminOrVolunteer())
	moderators.Get("/donation-requests", cfg.Donations.ListAll)
	moderators.Get("/blogs", cfg.Blogs.ListByStatus)

	adminOnly := cfg.Guards.RequireAdmin()
	app.Get("/admin/users", adminOnly, cfg.Users.List)
	app.Patch("/admin/users/:id/role", adminOnly, cfg.Users.UpdateRole)
	app.Patch("/admin/users/:id/status", adminOnly, cfg.Users.UpdateStatus)
	app.Get("/admin/stats", adminOnly, cfg.Users.Stats)

	app.Post("/blogs", cfg.Guards.RequireAdminOrVolunteer(), cfg.Blogs.Create)
	app.Patch("/blogs/:id/status", adminOnly, cfg.Blogs.SetStatus)
	app.Delete("/blogs/:id", adminOnly, cfg.Blogs.Delete)
}
