package repository

import (
	"github.com/bluezpowerhouse/autoshop/app/models"
	"gorm.io/gorm"
)

// shipmentRepository implements the ShipmentRepository interface
type shipmentRepository struct {
	db *gorm.DB
}

// NewShipmentRepository creates a new shipment repository instance
func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

// GetByID retrieves a shipment by ID
func (r *shipmentRepository) GetByID(id uint) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.First(&shipment, id).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// GetByTrackingNumber retrieves a shipment by its tracking number
func (r *shipmentRepository) GetByTrackingNumber(trackingNumber string) (*models.Shipment, error) {
	var shipment models.Shipment
	err := r.db.Where("tracking_number = ?", trackingNumber).First(&shipment).Error
	if err != nil {
		return nil, err
	}
	return &shipment, nil
}

// GetWithEvents retrieves a shipment together with its tracking history,
// most recent event first.
func (r *shipmentRepository) GetWithEvents(id uint) (*models.Shipment, []models.TrackingEvent, error) {
	var shipment models.Shipment
	if err := r.db.First(&shipment, id).Error; err != nil {
		return nil, nil, err
	}

	var events []models.TrackingEvent
	if err := r.db.Where("shipment_id = ?", id).
		Order("event_date DESC").Find(&events).Error; err != nil {
		return nil, nil, err
	}

	return &shipment, events, nil
}

// List retrieves shipments with pagination, newest first
func (r *shipmentRepository) List(offset, limit int) ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.db.Preload("Account").Offset(offset).Limit(limit).
		Order("updated_at DESC").Find(&shipments).Error
	return shipments, err
}

// ListNeedingReview retrieves shipments attributed to the unassigned
// sentinel account, waiting for manual reconciliation.
func (r *shipmentRepository) ListNeedingReview() ([]models.Shipment, error) {
	var shipments []models.Shipment
	err := r.db.Where("needs_review = ?", true).Order("updated_at DESC").Find(&shipments).Error
	return shipments, err
}

// Count returns the total number of shipments
func (r *shipmentRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Shipment{}).Count(&count).Error
	return count, err
}
