package shipping

import (
	"errors"
	"time"
)

// Sentinel errors for the terminal rejection paths of the ingestion
// pipeline. Their text is what lands in the webhook log's processing_error.
var (
	ErrInvalidJSON           = errors.New("Invalid JSON payload")
	ErrMissingTrackingNumber = errors.New("No tracking number found in payload")
	ErrInvalidSignature      = errors.New("Invalid webhook signature")
)

// NormalizedEvent is the canonical field set extracted from one carrier
// webhook payload, whatever shape it arrived in. TrackingNumber is the only
// required field.
type NormalizedEvent struct {
	TrackingNumber    string
	ExternalOrderID   string
	Status            string
	Location          string
	EstimatedDelivery *time.Time
	PhotoURL          string
	Description       string
}
