package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluezpowerhouse/autoshop/app/models"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/shipping"
)

// memoryShippingRepo is an in-memory shipping.Repository for handler tests.
type memoryShippingRepo struct {
	account   models.ShippingAccount
	shipments map[string]*models.Shipment
	events    []models.TrackingEvent
	logs      []*models.WebhookLog
	nextID    uint
}

func newMemoryShippingRepo(account models.ShippingAccount) *memoryShippingRepo {
	return &memoryShippingRepo{
		account:   account,
		shipments: make(map[string]*models.Shipment),
		nextID:    1,
	}
}

func (m *memoryShippingRepo) CreateWebhookLog(entry *models.WebhookLog) error {
	entry.ID = m.nextID
	m.nextID++
	m.logs = append(m.logs, entry)
	return nil
}

func (m *memoryShippingRepo) MarkWebhookLogProcessed(id uint, processingError string) error {
	for _, l := range m.logs {
		if l.ID == id {
			l.Processed = processingError == ""
			l.ProcessingError = processingError
			now := time.Now()
			l.ProcessedAt = &now
		}
	}
	return nil
}

func (m *memoryShippingRepo) ResolveAccountForProvider(string) (*models.ShippingAccount, error) {
	return &m.account, nil
}

func (m *memoryShippingRepo) UpsertShipmentWithEvent(params shipping.UpsertParams) (*models.Shipment, error) {
	shipment, ok := m.shipments[params.Event.TrackingNumber]
	if !ok {
		shipment = &models.Shipment{
			ID:             m.nextID,
			AccountID:      params.Account.ID,
			TrackingNumber: params.Event.TrackingNumber,
			Carrier:        strings.ToUpper(params.Carrier),
			Status:         params.Event.Status,
		}
		m.nextID++
		m.shipments[params.Event.TrackingNumber] = shipment
	} else if params.Event.Status != "" {
		shipment.Status = params.Event.Status
	}
	m.events = append(m.events, models.TrackingEvent{
		ShipmentID: shipment.ID,
		Status:     params.Event.Status,
		Location:   params.Event.Location,
	})
	return shipment, nil
}

func (m *memoryShippingRepo) ListActiveAccounts() ([]models.ShippingAccount, error) {
	return []models.ShippingAccount{m.account}, nil
}

func (m *memoryShippingRepo) TouchAccountLastSync(uint) error { return nil }

type noopPhotoFetcher struct{}

func (noopPhotoFetcher) FetchAndStore(context.Context, string, string) (string, error) {
	return "", nil
}

func newWebhookTestApp(repo *memoryShippingRepo) *fiber.App {
	InitializeWebhookController(shipping.NewService(repo, noopPhotoFetcher{}))
	app := fiber.New()
	app.Post("/webhooks/shipping/:provider", HandleShippingWebhook)
	app.Post("/webhooks/test", HandleTestWebhook)
	return app
}

func TestHandleShippingWebhook_Success(t *testing.T) {
	repo := newMemoryShippingRepo(models.ShippingAccount{ID: 1, Provider: models.ProviderUPS, AccountName: "UPS Main", IsActive: true})
	app := newWebhookTestApp(repo)

	body := []byte(`{"trackingNumber":"1Z999","status":{"description":"In Transit"},"location":{"city":"Reno","stateProvince":"NV"}}`)
	req := httptest.NewRequest("POST", "/webhooks/shipping/UPS", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ups-webhook-agent")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "Webhook processed", result["message"])

	require.Len(t, repo.shipments, 1)
	shipment := repo.shipments["1Z999"]
	require.NotNil(t, shipment)
	assert.Equal(t, "In Transit", shipment.Status)
	assert.Equal(t, "UPS", shipment.Carrier)

	require.Len(t, repo.events, 1)
	assert.Equal(t, "Reno, NV", repo.events[0].Location)

	require.Len(t, repo.logs, 1)
	logEntry := repo.logs[0]
	assert.True(t, logEntry.Processed)
	assert.Empty(t, logEntry.ProcessingError)
	assert.Equal(t, "ups", logEntry.Provider)
	assert.Equal(t, string(body), logEntry.Payload)
	assert.Equal(t, "ups-webhook-agent", logEntry.UserAgent)
	assert.NotEmpty(t, logEntry.RequestID)
}

func TestHandleShippingWebhook_InvalidJSON(t *testing.T) {
	repo := newMemoryShippingRepo(models.ShippingAccount{ID: 1, Provider: models.ProviderUPS, IsActive: true})
	app := newWebhookTestApp(repo)

	req := httptest.NewRequest("POST", "/webhooks/shipping/ups", bytes.NewReader([]byte("{broken")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Invalid JSON payload"}`, string(raw))

	// The audit row exists even for a rejected call.
	require.Len(t, repo.logs, 1)
	assert.False(t, repo.logs[0].Processed)
	assert.Equal(t, "Invalid JSON payload", repo.logs[0].ProcessingError)
	assert.Empty(t, repo.shipments)
}

func TestHandleShippingWebhook_MissingTrackingNumber(t *testing.T) {
	repo := newMemoryShippingRepo(models.ShippingAccount{ID: 1, Provider: models.ProviderUPS, IsActive: true})
	app := newWebhookTestApp(repo)

	req := httptest.NewRequest("POST", "/webhooks/shipping/ups", bytes.NewReader([]byte(`{"status":{"description":"In Transit"}}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"No tracking number found in payload"}`, string(raw))
}

func TestHandleShippingWebhook_EnforcedSignature(t *testing.T) {
	repo := newMemoryShippingRepo(models.ShippingAccount{
		ID:               1,
		Provider:         models.ProviderFedex,
		IsActive:         true,
		WebhookSecret:    "top-secret",
		RequireSignature: true,
	})
	app := newWebhookTestApp(repo)

	body := []byte(`{"trackingNumber":"T1","statusDescription":"Delivered"}`)
	req := httptest.NewRequest("POST", "/webhooks/shipping/fedex", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", "deadbeef")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Invalid webhook signature"}`, string(raw))

	require.Len(t, repo.logs, 1)
	assert.Equal(t, "deadbeef", repo.logs[0].Signature)
	assert.Empty(t, repo.shipments)
}

func TestHandleTestWebhook(t *testing.T) {
	repo := newMemoryShippingRepo(models.ShippingAccount{ID: 1, Provider: models.ProviderOther, AccountName: models.UnassignedAccountName, IsActive: true})
	app := newWebhookTestApp(repo)

	body := []byte(`{"tracking_number":"TEST-1","status":"created"}`)
	req := httptest.NewRequest("POST", "/webhooks/test", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Len(t, repo.shipments, 1)
	assert.Equal(t, "created", repo.shipments["TEST-1"].Status)
	require.Len(t, repo.logs, 1)
	assert.Equal(t, "test", repo.logs[0].Provider)
}
