package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/bluezpowerhouse/autoshop/app/models"
	"gorm.io/gorm"
)

// Service runs the webhook ingestion pipeline: account resolution,
// signature verification, normalization, photo fetch and the shipment
// upsert. HTTP concerns (headers, status codes, the audit row) stay in the
// controller.
type Service struct {
	repo   Repository
	photos PhotoFetcher
}

// NewService creates an ingestion service from injected collaborators.
func NewService(repo Repository, photos PhotoFetcher) *Service {
	return &Service{repo: repo, photos: photos}
}

// NewServiceFromDB creates an ingestion service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewLocalPhotoStoreFromEnv())
}

// WebhookInput is one inbound webhook after the controller logged it.
type WebhookInput struct {
	Provider  string
	RawBody   []byte
	Signature string
}

// RecordWebhookLog persists the audit row. It runs before any validation so
// every inbound call leaves a trace, whatever happens afterwards.
func (s *Service) RecordWebhookLog(ctx context.Context, entry *models.WebhookLog) error {
	_ = ctx
	return s.repo.CreateWebhookLog(entry)
}

// MarkWebhookLogProcessed writes the final outcome back onto the audit row.
func (s *Service) MarkWebhookLogProcessed(ctx context.Context, id uint, processingError error) error {
	_ = ctx
	msg := ""
	if processingError != nil {
		msg = processingError.Error()
	}
	return s.repo.MarkWebhookLogProcessed(id, msg)
}

// ProcessWebhook runs one webhook through the pipeline and returns the
// shipment it created or updated.
//
// Error contract: ErrInvalidJSON and ErrMissingTrackingNumber are terminal
// payload rejections (the sender must not retry), ErrInvalidSignature is an
// authenticity rejection (only raised when the resolved account enforces
// signatures), anything else is an internal failure the sender may retry.
// A failed photo download is never an error: the event keeps the remote URL
// and simply has no local file.
func (s *Service) ProcessWebhook(ctx context.Context, in WebhookInput) (*models.Shipment, error) {
	provider := models.NormalizeProvider(in.Provider)

	account, err := s.repo.ResolveAccountForProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("resolve account for %s failed: %w", provider, err)
	}

	signatureValid := VerifyWebhookSignature(provider, in.RawBody, in.Signature, account.WebhookSecret)
	if account.RequireSignature && !signatureValid {
		return nil, ErrInvalidSignature
	}

	var payload map[string]any
	if err := json.Unmarshal(in.RawBody, &payload); err != nil {
		return nil, ErrInvalidJSON
	}

	event, err := NormalizeWebhookPayload(provider, payload)
	if err != nil {
		return nil, err
	}

	// Fetch the photo before the upsert so the filename lands in the same
	// event write and no DB transaction is held across the network call.
	photoFilename := ""
	if event.PhotoURL != "" {
		photoFilename, err = s.photos.FetchAndStore(ctx, event.PhotoURL, event.TrackingNumber)
		if err != nil {
			log.Printf("photo download failed for %s (%s): %v", event.TrackingNumber, provider, err)
			photoFilename = ""
		}
	}

	shipment, err := s.repo.UpsertShipmentWithEvent(UpsertParams{
		Account:       account,
		Carrier:       provider,
		Event:         event,
		RawPayload:    payload,
		PhotoFilename: photoFilename,
	})
	if err != nil {
		return nil, fmt.Errorf("shipment upsert for %s failed: %w", event.TrackingNumber, err)
	}

	return shipment, nil
}
