package router

import (
	"github.com/bluezpowerhouse/autoshop/app/controllers"
	"github.com/gofiber/fiber/v2"
)

// WebhookRouter registers the carrier-facing endpoints. Carriers cannot hold
// a session, so these routes sit outside the session middleware and are
// guarded by per-account HMAC signatures instead.
type WebhookRouter struct {
}

func (h WebhookRouter) InstallRouter(app *fiber.App) {
	webhooks := app.Group("/webhooks")
	webhooks.Post("/shipping/:provider", controllers.HandleShippingWebhook)
	webhooks.Post("/test", controllers.HandleTestWebhook)
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}
