package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/bluezpowerhouse/autoshop/app/models"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/database"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/shipping"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// webhookService is injectable so tests can run the full handler against
// fakes; production wiring happens lazily from the shared DB handle.
var webhookService *shipping.Service

// InitializeWebhookController wires the ingestion service the webhook
// handlers use.
func InitializeWebhookController(svc *shipping.Service) {
	webhookService = svc
}

func getWebhookService() *shipping.Service {
	if webhookService == nil {
		webhookService = shipping.NewServiceFromDB(database.GetDB())
	}
	return webhookService
}

// HandleShippingWebhook ingests one carrier webhook. The provider path
// segment is free text: unknown carriers fall through to the generic
// normalizer rather than being rejected at the HTTP layer.
func HandleShippingWebhook(c *fiber.Ctx) error {
	return processWebhookRequest(c, models.NormalizeProvider(c.Params("provider")))
}

// HandleTestWebhook runs a simplified flat payload through the same
// pipeline under a synthetic provider, for development and fixtures.
func HandleTestWebhook(c *fiber.Ctx) error {
	return processWebhookRequest(c, "test")
}

func processWebhookRequest(c *fiber.Ctx, provider string) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	signature := firstHeaderValue(c,
		"X-Signature",
		"X-Hub-Signature-256",
		"X-UPS-Security-Token",
		"Authorization",
	)

	entry := &models.WebhookLog{
		RequestID: uuid.NewString(),
		Provider:  provider,
		Endpoint:  c.OriginalURL(),
		Method:    c.Method(),
		Payload:   string(rawBody),
		Signature: signature,
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
	entry.SetHeaders(collectHeaders(c))

	svc := getWebhookService()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// The audit row is written before any validation so even a crash
	// mid-pipeline leaves a forensic trail.
	if err := svc.RecordWebhookLog(ctx, entry); err != nil {
		log.Printf("webhook log write failed for %s: %v", provider, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	_, err := svc.ProcessWebhook(ctx, shipping.WebhookInput{
		Provider:  provider,
		RawBody:   rawBody,
		Signature: signature,
	})
	if markErr := svc.MarkWebhookLogProcessed(ctx, entry.ID, err); markErr != nil {
		log.Printf("webhook log update failed for %s: %v", provider, markErr)
	}

	if err != nil {
		switch {
		case errors.Is(err, shipping.ErrInvalidJSON), errors.Is(err, shipping.ErrMissingTrackingNumber):
			// Terminal payload rejection, the sender must not retry.
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, shipping.ErrInvalidSignature):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		default:
			log.Printf("Webhook error for %s: %v", provider, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"message": "Webhook processed",
	})
}

func collectHeaders(c *fiber.Ctx) map[string]string {
	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		headers[string(key)] = string(value)
	})
	return headers
}
