package models

import (
	"encoding/json"
	"time"
)

// TrackingEvent is one immutable history entry for a shipment. Rows are only
// ever inserted; the shipment's mutable fields cache the latest event.
type TrackingEvent struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ShipmentID    uint      `gorm:"not null;index" json:"shipment_id"`
	EventDate     time.Time `gorm:"not null;index" json:"event_date"`
	Status        string    `gorm:"type:varchar(100)" json:"status"`
	Description   string    `gorm:"type:text" json:"description"`
	Location      string    `gorm:"type:varchar(200)" json:"location"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	PhotoURL      string    `gorm:"type:varchar(500)" json:"photo_url"`
	PhotoFilename string    `gorm:"type:varchar(255)" json:"photo_filename"`
	WebhookData   string    `gorm:"type:longtext" json:"-"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SetWebhookData stores the raw payload snapshot for audit/replay.
func (e *TrackingEvent) SetWebhookData(payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		e.WebhookData = ""
		return
	}
	e.WebhookData = string(data)
}

// GetWebhookData decodes the stored payload snapshot.
func (e *TrackingEvent) GetWebhookData() (map[string]any, error) {
	if e.WebhookData == "" {
		return nil, nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(e.WebhookData), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
