package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	ProviderFedex  = "fedex"
	ProviderUPS    = "ups"
	ProviderUSPS   = "usps"
	ProviderDHL    = "dhl"
	ProviderAmazon = "amazon"
	ProviderOther  = "other"
)

// UnassignedAccountName marks the sentinel account that collects shipments
// from webhooks which could not be attributed to a configured carrier account.
const UnassignedAccountName = "Unassigned"

// ShippingAccount stores one configured carrier integration. Accounts are
// deactivated rather than deleted so shipments keep a valid owner.
type ShippingAccount struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Provider         string     `gorm:"type:varchar(20);not null;index" json:"provider" validate:"required,oneof=fedex ups usps dhl amazon other"`
	AccountName      string     `gorm:"type:varchar(200);not null" json:"account_name" validate:"required,max=200"`
	APIKey           string     `gorm:"type:text" json:"-"`
	APISecret        string     `gorm:"type:text" json:"-"`
	WebhookSecret    string     `gorm:"type:text" json:"-"`
	RequireSignature bool       `gorm:"default:false" json:"require_signature"`
	IsActive         bool       `gorm:"default:true;index" json:"is_active"`
	LastSync         *time.Time `gorm:"type:timestamp;default:null" json:"last_sync,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *ShippingAccount) Validate() error {
	v := validator.New()

	return v.Struct(a)
}

// IsUnassigned reports whether this is the sentinel account.
func (a *ShippingAccount) IsUnassigned() bool {
	return a.AccountName == UnassignedAccountName
}

// NormalizeProvider lower-cases and trims a provider name the way the
// ingestion pipeline keys its dispatch.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}
