package repository

import (
	"github.com/bluezpowerhouse/autoshop/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// ShippingAccountRepository defines the interface for carrier account operations
type ShippingAccountRepository interface {
	Create(account *models.ShippingAccount) error
	GetByID(id uint) (*models.ShippingAccount, error)
	List() ([]models.ShippingAccount, error)
	ListActive() ([]models.ShippingAccount, error)
	Update(account *models.ShippingAccount) error
	Deactivate(id uint) error
}

// ShipmentRepository defines the interface for shipment queries used by the
// admin API. Writes go through the ingestion pipeline, never through here.
type ShipmentRepository interface {
	GetByID(id uint) (*models.Shipment, error)
	GetByTrackingNumber(trackingNumber string) (*models.Shipment, error)
	GetWithEvents(id uint) (*models.Shipment, []models.TrackingEvent, error)
	List(offset, limit int) ([]models.Shipment, error)
	ListNeedingReview() ([]models.Shipment, error)
	Count() (int64, error)
}

// WebhookLogRepository defines the interface for reading the webhook audit
// trail. Rows are written by the ingestion pipeline and never deleted.
type WebhookLogRepository interface {
	GetByID(id uint) (*models.WebhookLog, error)
	List(offset, limit int) ([]models.WebhookLog, error)
	ListFailed(offset, limit int) ([]models.WebhookLog, error)
	Count() (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	User            UserRepository
	ShippingAccount ShippingAccountRepository
	Shipment        ShipmentRepository
	WebhookLog      WebhookLogRepository
}

// NewRepositories creates instances of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            NewUserRepository(db),
		ShippingAccount: NewShippingAccountRepository(db),
		Shipment:        NewShipmentRepository(db),
		WebhookLog:      NewWebhookLogRepository(db),
	}
}
