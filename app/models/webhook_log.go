package models

import (
	"encoding/json"
	"time"
)

// WebhookLog is the unconditional audit record of one inbound webhook call.
// It holds no foreign keys: a webhook may arrive before any matching account
// or shipment exists. Rows are written before processing starts and updated
// exactly once with the outcome; they are never deleted.
type WebhookLog struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	RequestID       string     `gorm:"type:varchar(36);index" json:"request_id"`
	Provider        string     `gorm:"type:varchar(50);index" json:"provider"`
	Endpoint        string     `gorm:"type:varchar(255)" json:"endpoint"`
	Method          string     `gorm:"type:varchar(10)" json:"method"`
	Headers         string     `gorm:"type:text" json:"headers"`
	Payload         string     `gorm:"type:longtext" json:"payload"`
	Signature       string     `gorm:"type:varchar(500)" json:"signature"`
	Processed       bool       `gorm:"default:false;index" json:"processed"`
	ProcessingError string     `gorm:"type:text" json:"processing_error"`
	IPAddress       string     `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent       string     `gorm:"type:varchar(500)" json:"user_agent"`
	ProcessedAt     *time.Time `gorm:"type:timestamp;default:null" json:"processed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

// SetHeaders serializes the request headers for forensic replay.
func (l *WebhookLog) SetHeaders(headers map[string]string) {
	data, err := json.Marshal(headers)
	if err != nil {
		l.Headers = ""
		return
	}
	l.Headers = string(data)
}
