package router

import (
	"github.com/bluezpowerhouse/autoshop/app/controllers"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/middleware"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/session"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// ApiRouter registers the staff-facing JSON API behind session auth.
type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	api := app.Group("/api", limiter.New(limiter.Config{Max: 120}))

	auth := api.Group("/auth")
	auth.Post("/login", controllers.HandleAPILogin)
	auth.Post("/logout", controllers.HandleAPILogout)
	auth.Get("/me", middleware.RequireAPISessionAuth, controllers.HandleAPIMe)

	ship := api.Group("/shipping", middleware.RequireAPISessionAuth)
	ship.Get("/orders", controllers.HandleShippingOrders)
	ship.Get("/orders/:id/tracking", controllers.HandleTrackingData)
	ship.Get("/stats", controllers.HandleShippingStats)
	ship.Get("/track/:provider/:trackingNumber", controllers.HandleManualTrack)
	ship.Get("/webhook-logs", controllers.HandleWebhookLogs)

	// Sync is a manager action; carrier credentials are admin territory.
	ship.Post("/sync-all", middleware.RequireShippingManager, controllers.HandleShippingSyncAll)

	accounts := ship.Group("/accounts", middleware.RequireAdmin)
	accounts.Get("/", controllers.HandleAccountsList)
	accounts.Post("/", controllers.HandleAccountCreate)
	accounts.Put("/:id", controllers.HandleAccountUpdate)
	accounts.Delete("/:id", controllers.HandleAccountDeactivate)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
