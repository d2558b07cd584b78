package shipping

import (
	"fmt"
	"strings"
	"time"

	"github.com/bluezpowerhouse/autoshop/app/models"
)

// Normalizer extracts the canonical event fields from one carrier's payload
// shape. Implementations never mutate the payload.
type Normalizer interface {
	Normalize(payload map[string]any) NormalizedEvent
}

// NormalizeWebhookPayload dispatches to the carrier-specific normalizer for
// provider (lower-cased) and falls back to the generic field mapping when an
// unknown provider arrives or a known carrier's extraction yields no
// tracking number. The only hard failure is ErrMissingTrackingNumber.
func NormalizeWebhookPayload(provider string, payload map[string]any) (NormalizedEvent, error) {
	p := models.NormalizeProvider(provider)
	n := normalizerFor(p)

	ev := n.Normalize(payload)
	if ev.TrackingNumber == "" {
		if _, isGeneric := n.(genericNormalizer); !isGeneric {
			ev = genericNormalizer{}.Normalize(payload)
		}
		if ev.TrackingNumber == "" {
			return NormalizedEvent{}, ErrMissingTrackingNumber
		}
	}

	if ev.ExternalOrderID == "" {
		ev.ExternalOrderID = ev.TrackingNumber
	}
	if ev.Description == "" {
		ev.Description = fmt.Sprintf("Webhook update from %s", p)
	}

	return ev, nil
}

func normalizerFor(provider string) Normalizer {
	switch provider {
	case models.ProviderFedex:
		return fedexNormalizer{}
	case models.ProviderUPS:
		return upsNormalizer{}
	case models.ProviderUSPS:
		return uspsNormalizer{}
	case models.ProviderDHL:
		return dhlNormalizer{}
	default:
		return genericNormalizer{}
	}
}

// genericNormalizer handles unknown providers and the test endpoint. It
// accepts both snake_case and camelCase variants for every field.
type genericNormalizer struct{}

func (genericNormalizer) Normalize(payload map[string]any) NormalizedEvent {
	return NormalizedEvent{
		TrackingNumber:    stringField(payload, "tracking_number", "trackingNumber"),
		ExternalOrderID:   stringField(payload, "order_id", "orderId"),
		Status:            stringField(payload, "status", "event_type"),
		Location:          genericLocation(payload),
		EstimatedDelivery: parseEventTime(stringField(payload, "estimated_delivery")),
		PhotoURL:          stringField(payload, "photo_url", "image_url"),
		Description:       stringField(payload, "description", "event_description"),
	}
}

// genericLocation accepts either a plain string or a {city, state} object.
func genericLocation(payload map[string]any) string {
	if loc := childMap(payload, "location"); loc != nil {
		return joinLocation(stringField(loc, "city"), stringField(loc, "state"))
	}
	if s := stringField(payload, "location", "city"); s != "" {
		return s
	}
	return ""
}

// stringField returns the first non-empty string value among keys.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// childMap returns the nested object under key, or nil.
func childMap(m map[string]any, key string) map[string]any {
	if v, ok := m[key]; ok {
		if child, ok := v.(map[string]any); ok {
			return child
		}
	}
	return nil
}

// joinLocation formats a "City, State" pair, dropping whichever part is
// missing.
func joinLocation(city, state string) string {
	parts := make([]string, 0, 2)
	if city != "" {
		parts = append(parts, city)
	}
	if state != "" {
		parts = append(parts, state)
	}
	return strings.Join(parts, ", ")
}

var eventTimeLayouts = []string{
	time.RFC3339,          // 2025-01-01T10:00:00Z / +02:00
	"2006-01-02T15:04:05", // ISO without offset, treated as UTC
	"2006-01-02",          // USPS date-only expected delivery
}

// parseEventTime parses the timestamp formats carriers send. Unparseable
// values yield nil rather than an error: a bad ETA never blocks ingestion.
func parseEventTime(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
