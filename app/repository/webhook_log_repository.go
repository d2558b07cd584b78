package repository

import (
	"github.com/bluezpowerhouse/autoshop/app/models"
	"gorm.io/gorm"
)

// webhookLogRepository implements the WebhookLogRepository interface
type webhookLogRepository struct {
	db *gorm.DB
}

// NewWebhookLogRepository creates a new webhook log repository instance
func NewWebhookLogRepository(db *gorm.DB) WebhookLogRepository {
	return &webhookLogRepository{db: db}
}

// GetByID retrieves a webhook log entry by ID
func (r *webhookLogRepository) GetByID(id uint) (*models.WebhookLog, error) {
	var entry models.WebhookLog
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List retrieves webhook log entries with pagination, newest first
func (r *webhookLogRepository) List(offset, limit int) ([]models.WebhookLog, error) {
	var entries []models.WebhookLog
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// ListFailed retrieves entries whose processing ended with an error
func (r *webhookLogRepository) ListFailed(offset, limit int) ([]models.WebhookLog, error) {
	var entries []models.WebhookLog
	err := r.db.Where("processed = ? AND processing_error <> ''", false).
		Offset(offset).Limit(limit).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// Count returns the total number of webhook log entries
func (r *webhookLogRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.WebhookLog{}).Count(&count).Error
	return count, err
}
