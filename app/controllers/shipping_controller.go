package controllers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/bluezpowerhouse/autoshop/app/models"
	"github.com/bluezpowerhouse/autoshop/app/repository"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/shipping"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/statistics"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleShippingOrders lists shipments for the shipping dashboard, newest
// activity first.
func HandleShippingOrders(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repos := repository.GetGlobalRepositories()

	shipments, err := repos.Shipment.List(offset, limit)
	if err != nil {
		log.Printf("Shipping orders listing error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading shipping data"})
	}

	total, err := repos.Shipment.Count()
	if err != nil {
		log.Printf("Shipping orders count error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading shipping data"})
	}

	return c.JSON(fiber.Map{
		"shipments": shipments,
		"total":     total,
	})
}

// HandleTrackingData returns a shipment with its ordered tracking history,
// most recent event first.
func HandleTrackingData(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid shipment id"})
	}

	shipment, events, err := repository.GetGlobalRepositories().Shipment.GetWithEvents(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "shipment not found"})
		}
		log.Printf("Error getting tracking data: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading tracking data"})
	}

	trackingEvents := make([]fiber.Map, 0, len(events))
	for _, event := range events {
		trackingEvents = append(trackingEvents, fiber.Map{
			"date":           event.EventDate.Format(time.RFC3339),
			"status":         event.Status,
			"description":    event.Description,
			"location":       event.Location,
			"latitude":       event.Latitude,
			"longitude":      event.Longitude,
			"photo_url":      event.PhotoURL,
			"photo_filename": event.PhotoFilename,
			"local_photo":    localPhotoPath(event.PhotoFilename),
		})
	}

	return c.JSON(fiber.Map{
		"order": fiber.Map{
			"id":                 shipment.ID,
			"order_id":           shipment.ExternalOrderID,
			"tracking_number":    shipment.TrackingNumber,
			"carrier":            shipment.Carrier,
			"status":             shipment.Status,
			"needs_review":       shipment.NeedsReview,
			"estimated_delivery": formatOptionalTime(shipment.EstimatedDelivery),
			"actual_delivery":    formatOptionalTime(shipment.ActualDelivery),
		},
		"tracking_events": trackingEvents,
	})
}

// HandleShippingStats returns the cached shipping dashboard counters.
func HandleShippingStats(c *fiber.Ctx) error {
	return c.JSON(statistics.GetShippingStats())
}

// HandleShippingSyncAll runs a connection test for every active carrier
// account and refreshes their last_sync timestamps.
func HandleShippingSyncAll(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	results, err := getWebhookService().SyncAccounts(ctx)
	if err != nil {
		log.Printf("Sync all error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to sync accounts"})
	}

	synced := 0
	for _, r := range results {
		if r.Synced {
			synced++
		}
	}

	if err := statistics.UpdateStatisticsCache(); err != nil {
		log.Printf("Statistics refresh after sync failed: %v", err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"results":      results,
		"total_synced": synced,
	})
}

// HandleManualTrack looks a tracking number up directly at the carrier,
// through the account configured for the provider.
func HandleManualTrack(c *fiber.Ctx) error {
	provider := models.NormalizeProvider(c.Params("provider"))
	trackingNumber := c.Params("trackingNumber")

	accounts, err := repository.GetGlobalRepositories().ShippingAccount.ListActive()
	if err != nil {
		log.Printf("Tracking error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get tracking info"})
	}

	var account *models.ShippingAccount
	for i := range accounts {
		if accounts[i].Provider == provider {
			account = &accounts[i]
			break
		}
	}
	if account == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active account found for " + provider})
	}

	client, err := shipping.NewCarrierClient(account)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := client.GetTrackingInfo(ctx, trackingNumber)
	if err != nil {
		log.Printf("Tracking error for %s/%s: %v", provider, trackingNumber, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to get tracking info"})
	}

	return c.JSON(info)
}

// HandleWebhookLogs exposes the webhook audit trail, the primary debugging
// surface for the ingestion pipeline. ?failed=true filters to rejections.
func HandleWebhookLogs(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	repos := repository.GetGlobalRepositories()

	var (
		entries []models.WebhookLog
		err     error
	)
	if c.QueryBool("failed") {
		entries, err = repos.WebhookLog.ListFailed(offset, limit)
	} else {
		entries, err = repos.WebhookLog.List(offset, limit)
	}
	if err != nil {
		log.Printf("Webhook log listing error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error loading webhook logs"})
	}

	return c.JSON(fiber.Map{"logs": entries})
}

func localPhotoPath(filename string) string {
	if filename == "" {
		return ""
	}
	return "/uploads/tracking/" + filename
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
