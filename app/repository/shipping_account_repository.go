package repository

import (
	"github.com/bluezpowerhouse/autoshop/app/models"
	"gorm.io/gorm"
)

// shippingAccountRepository implements the ShippingAccountRepository interface
type shippingAccountRepository struct {
	db *gorm.DB
}

// NewShippingAccountRepository creates a new shipping account repository instance
func NewShippingAccountRepository(db *gorm.DB) ShippingAccountRepository {
	return &shippingAccountRepository{db: db}
}

// Create creates a new carrier account
func (r *shippingAccountRepository) Create(account *models.ShippingAccount) error {
	return r.db.Create(account).Error
}

// GetByID retrieves a carrier account by ID
func (r *shippingAccountRepository) GetByID(id uint) (*models.ShippingAccount, error) {
	var account models.ShippingAccount
	err := r.db.First(&account, id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// List retrieves all carrier accounts, active and deactivated
func (r *shippingAccountRepository) List() ([]models.ShippingAccount, error) {
	var accounts []models.ShippingAccount
	err := r.db.Order("provider, id").Find(&accounts).Error
	return accounts, err
}

// ListActive retrieves only active carrier accounts
func (r *shippingAccountRepository) ListActive() ([]models.ShippingAccount, error) {
	var accounts []models.ShippingAccount
	err := r.db.Where("is_active = ?", true).Order("provider, id").Find(&accounts).Error
	return accounts, err
}

// Update updates an existing carrier account
func (r *shippingAccountRepository) Update(account *models.ShippingAccount) error {
	return r.db.Save(account).Error
}

// Deactivate soft-disables an account; shipments keep referencing it.
func (r *shippingAccountRepository) Deactivate(id uint) error {
	return r.db.Model(&models.ShippingAccount{}).Where("id = ?", id).
		Update("is_active", false).Error
}
