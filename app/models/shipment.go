package models

import "time"

// ShipmentStatusUnknown is the status a shipment is created with when the
// first webhook for its tracking number carries no status of its own.
const ShipmentStatusUnknown = "unknown"

// Shipment is the aggregate root for one tracked package. There is at most
// one row per tracking number; Status and EstimatedDelivery are a projection
// of the most recently processed tracking event (last write wins).
type Shipment struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	AccountID         uint       `gorm:"not null;index" json:"account_id"`
	Account           *ShippingAccount `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ExternalOrderID   string     `gorm:"type:varchar(100);index" json:"external_order_id"`
	TrackingNumber    string     `gorm:"uniqueIndex;type:varchar(100);not null" json:"tracking_number"`
	Carrier           string     `gorm:"type:varchar(20)" json:"carrier"`
	Status            string     `gorm:"type:varchar(100);default:'unknown'" json:"status"`
	EstimatedDelivery *time.Time `gorm:"type:timestamp;default:null" json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `gorm:"type:timestamp;default:null" json:"actual_delivery,omitempty"`
	NeedsReview       bool       `gorm:"default:false;index" json:"needs_review"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Events []TrackingEvent `gorm:"foreignKey:ShipmentID" json:"events,omitempty"`
}

// IsDelivered reports whether an actual delivery timestamp has been recorded.
func (s *Shipment) IsDelivered() bool {
	return s.ActualDelivery != nil
}
