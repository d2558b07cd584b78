package shipping

import (
	"encoding/json"
	"testing"
	"time"
)

func mustDecode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("fixture decode failed: %v", err)
	}
	return payload
}

func TestNormalizeWebhookPayload_Fedex(t *testing.T) {
	payload := mustDecode(t, `{
		"trackingNumber": "T1",
		"statusDescription": "Delivered",
		"location": {"city": "Los Angeles"},
		"estimatedDeliveryTimestamp": "2025-01-01T10:00:00Z",
		"packagePhoto": {"url": "https://fedex.example/photo.jpg"}
	}`)

	ev, err := NormalizeWebhookPayload("fedex", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.TrackingNumber != "T1" {
		t.Fatalf("tracking number = %q, want T1", ev.TrackingNumber)
	}
	if ev.Status != "Delivered" {
		t.Fatalf("status = %q, want Delivered", ev.Status)
	}
	if ev.Location != "Los Angeles" {
		t.Fatalf("location = %q, want Los Angeles", ev.Location)
	}
	if ev.PhotoURL != "https://fedex.example/photo.jpg" {
		t.Fatalf("photo url = %q", ev.PhotoURL)
	}
	want := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	if ev.EstimatedDelivery == nil || !ev.EstimatedDelivery.Equal(want) {
		t.Fatalf("estimated delivery = %v, want %v", ev.EstimatedDelivery, want)
	}
	// FedEx does not send a separate description, the status doubles as one.
	if ev.Description != "Delivered" {
		t.Fatalf("description = %q, want Delivered", ev.Description)
	}
	// No shipmentId in the payload: order id falls back to tracking number.
	if ev.ExternalOrderID != "T1" {
		t.Fatalf("external order id = %q, want T1", ev.ExternalOrderID)
	}
}

func TestNormalizeWebhookPayload_UPS(t *testing.T) {
	payload := mustDecode(t, `{
		"trackingNumber": "1Z999AA10123456784",
		"shipmentReferenceNumber": "ORD-42",
		"status": {"description": "In Transit"},
		"location": {"city": "Reno", "stateProvince": "NV"},
		"activityDescription": "Departed from facility"
	}`)

	ev, err := NormalizeWebhookPayload("ups", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.TrackingNumber != "1Z999AA10123456784" {
		t.Fatalf("tracking number = %q", ev.TrackingNumber)
	}
	if ev.ExternalOrderID != "ORD-42" {
		t.Fatalf("external order id = %q, want ORD-42", ev.ExternalOrderID)
	}
	if ev.Status != "In Transit" {
		t.Fatalf("status = %q, want In Transit", ev.Status)
	}
	if ev.Location != "Reno, NV" {
		t.Fatalf("location = %q, want Reno, NV", ev.Location)
	}
	if ev.Description != "Departed from facility" {
		t.Fatalf("description = %q", ev.Description)
	}
}

func TestNormalizeWebhookPayload_USPS(t *testing.T) {
	payload := mustDecode(t, `{
		"trackingNumber": "9400100000000000000000",
		"labelId": "LBL-7",
		"eventType": "Out for Delivery",
		"eventLocation": "SPARKS NV 89431",
		"expectedDeliveryDate": "2025-03-04",
		"eventDescription": "Your item is out for delivery"
	}`)

	ev, err := NormalizeWebhookPayload("usps", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Status != "Out for Delivery" {
		t.Fatalf("status = %q", ev.Status)
	}
	if ev.ExternalOrderID != "LBL-7" {
		t.Fatalf("external order id = %q", ev.ExternalOrderID)
	}
	want := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	if ev.EstimatedDelivery == nil || !ev.EstimatedDelivery.Equal(want) {
		t.Fatalf("estimated delivery = %v, want %v", ev.EstimatedDelivery, want)
	}
}

func TestNormalizeWebhookPayload_DHL(t *testing.T) {
	payload := mustDecode(t, `{
		"trackingNumber": "JD014600003828800971",
		"shipmentId": "SH-9",
		"status": "transit",
		"statusDescription": "Processed at facility",
		"location": {"address": {"addressLocality": "Leipzig"}},
		"proofOfDelivery": {"imageUrl": "https://dhl.example/pod.png"}
	}`)

	ev, err := NormalizeWebhookPayload("dhl", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Status != "transit" {
		t.Fatalf("status = %q", ev.Status)
	}
	if ev.Location != "Leipzig" {
		t.Fatalf("location = %q", ev.Location)
	}
	if ev.PhotoURL != "https://dhl.example/pod.png" {
		t.Fatalf("photo url = %q", ev.PhotoURL)
	}
	if ev.Description != "Processed at facility" {
		t.Fatalf("description = %q", ev.Description)
	}
}

func TestNormalizeWebhookPayload_GenericVariants(t *testing.T) {
	snake := mustDecode(t, `{
		"tracking_number": "TN-1",
		"order_id": "ORD-1",
		"status": "shipped",
		"location": {"city": "Reno", "state": "NV"}
	}`)
	ev, err := NormalizeWebhookPayload("somecarrier", snake)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.TrackingNumber != "TN-1" || ev.Location != "Reno, NV" {
		t.Fatalf("snake_case mapping failed: %+v", ev)
	}

	camel := mustDecode(t, `{"trackingNumber": "TN-2", "status": "created"}`)
	ev, err = NormalizeWebhookPayload("test", camel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.TrackingNumber != "TN-2" {
		t.Fatalf("camelCase mapping failed: %+v", ev)
	}
	if ev.Description != "Webhook update from test" {
		t.Fatalf("default description = %q", ev.Description)
	}
}

func TestNormalizeWebhookPayload_KnownCarrierFallsBackToGeneric(t *testing.T) {
	// A FedEx-addressed webhook with a generic body still ingests.
	payload := mustDecode(t, `{"tracking_number": "TN-3", "status": "label_created"}`)

	ev, err := NormalizeWebhookPayload("fedex", payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.TrackingNumber != "TN-3" {
		t.Fatalf("tracking number = %q, want TN-3", ev.TrackingNumber)
	}
	if ev.Status != "label_created" {
		t.Fatalf("status = %q", ev.Status)
	}
}

func TestNormalizeWebhookPayload_MissingTrackingNumber(t *testing.T) {
	payload := mustDecode(t, `{"status": "created"}`)

	if _, err := NormalizeWebhookPayload("ups", payload); err != ErrMissingTrackingNumber {
		t.Fatalf("err = %v, want ErrMissingTrackingNumber", err)
	}
	if _, err := NormalizeWebhookPayload("test", payload); err != ErrMissingTrackingNumber {
		t.Fatalf("err = %v, want ErrMissingTrackingNumber", err)
	}
}

func TestParseEventTime(t *testing.T) {
	if got := parseEventTime("2025-01-01T10:00:00Z"); got == nil || !got.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("RFC3339 parse = %v", got)
	}
	if got := parseEventTime("2025-01-01T10:00:00"); got == nil || !got.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("offsetless parse = %v", got)
	}
	if got := parseEventTime("2025-01-01T12:00:00+02:00"); got == nil || !got.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("offset parse not normalized to UTC: %v", got)
	}
	if got := parseEventTime("soon"); got != nil {
		t.Fatalf("garbage timestamp should yield nil, got %v", got)
	}
	if got := parseEventTime(""); got != nil {
		t.Fatalf("empty timestamp should yield nil, got %v", got)
	}
}
