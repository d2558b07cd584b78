package shipping

import (
	"errors"
	"strings"
	"time"

	"github.com/bluezpowerhouse/autoshop/app/models"
	"gorm.io/gorm"
)

// Repository provides the DB operations the ingestion pipeline needs.
type Repository interface {
	CreateWebhookLog(entry *models.WebhookLog) error
	MarkWebhookLogProcessed(id uint, processingError string) error
	ResolveAccountForProvider(provider string) (*models.ShippingAccount, error)
	UpsertShipmentWithEvent(params UpsertParams) (*models.Shipment, error)
	ListActiveAccounts() ([]models.ShippingAccount, error)
	TouchAccountLastSync(id uint) error
}

// UpsertParams carries everything one successful webhook writes.
type UpsertParams struct {
	Account       *models.ShippingAccount
	Carrier       string
	Event         NormalizedEvent
	RawPayload    map[string]any
	PhotoFilename string
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a shipping repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateWebhookLog(entry *models.WebhookLog) error {
	return r.db.Create(entry).Error
}

func (r *gormRepository) MarkWebhookLogProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]any{
		"processed":        processingError == "",
		"processing_error": processingError,
		"processed_at":     &now,
	}
	return r.db.Model(&models.WebhookLog{}).Where("id = ?", id).Updates(updates).Error
}

// ResolveAccountForProvider returns the active account configured for the
// provider. Webhooks from providers nobody configured are attributed to the
// "Unassigned" sentinel account so they stay visible for reconciliation
// instead of silently landing on an arbitrary account.
func (r *gormRepository) ResolveAccountForProvider(provider string) (*models.ShippingAccount, error) {
	p := models.NormalizeProvider(provider)

	var account models.ShippingAccount
	err := r.db.Where("provider = ? AND is_active = ?", p, true).
		Order("id").First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return r.getOrCreateUnassignedAccount()
}

func (r *gormRepository) getOrCreateUnassignedAccount() (*models.ShippingAccount, error) {
	var account models.ShippingAccount
	err := r.db.Where("provider = ? AND account_name = ?", models.ProviderOther, models.UnassignedAccountName).
		First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	account = models.ShippingAccount{
		Provider:    models.ProviderOther,
		AccountName: models.UnassignedAccountName,
		IsActive:    true,
	}
	if err := r.db.Create(&account).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// Another request created it in the meantime.
		if err := r.db.Where("provider = ? AND account_name = ?", models.ProviderOther, models.UnassignedAccountName).
			First(&account).Error; err != nil {
			return nil, err
		}
	}
	return &account, nil
}

// UpsertShipmentWithEvent finds or creates the shipment for the event's
// tracking number and appends exactly one tracking event, all inside one
// transaction so a partial write cannot happen. Two concurrent first
// webhooks for the same tracking number serialize: the insert loser detects
// the unique-constraint violation and retries as an update.
func (r *gormRepository) UpsertShipmentWithEvent(params UpsertParams) (*models.Shipment, error) {
	var shipment models.Shipment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tracking_number = ?", params.Event.TrackingNumber).First(&shipment).Error
		switch {
		case err == nil:
			if err := applyShipmentUpdate(tx, &shipment, params.Event); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			shipment = newShipmentFrom(params)
			if err := tx.Create(&shipment).Error; err != nil {
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				// Lost the insert race; take the update path.
				if err := tx.Where("tracking_number = ?", params.Event.TrackingNumber).
					First(&shipment).Error; err != nil {
					return err
				}
				if err := applyShipmentUpdate(tx, &shipment, params.Event); err != nil {
					return err
				}
			}
		default:
			return err
		}

		event := models.TrackingEvent{
			ShipmentID:    shipment.ID,
			EventDate:     time.Now().UTC(),
			Status:        statusOrDefault(params.Event.Status, "update"),
			Description:   params.Event.Description,
			Location:      params.Event.Location,
			PhotoURL:      params.Event.PhotoURL,
			PhotoFilename: params.PhotoFilename,
		}
		event.SetWebhookData(params.RawPayload)

		return tx.Create(&event).Error
	})
	if err != nil {
		return nil, err
	}

	return &shipment, nil
}

func newShipmentFrom(params UpsertParams) models.Shipment {
	return models.Shipment{
		AccountID:         params.Account.ID,
		ExternalOrderID:   params.Event.ExternalOrderID,
		TrackingNumber:    params.Event.TrackingNumber,
		Carrier:           strings.ToUpper(params.Carrier),
		Status:            statusOrDefault(params.Event.Status, models.ShipmentStatusUnknown),
		EstimatedDelivery: params.Event.EstimatedDelivery,
		NeedsReview:       params.Account.IsUnassigned(),
	}
}

// applyShipmentUpdate overwrites status only when the event carries one and
// the ETA only when present; updated_at refreshes either way.
func applyShipmentUpdate(tx *gorm.DB, shipment *models.Shipment, ev NormalizedEvent) error {
	updates := map[string]any{"updated_at": time.Now()}
	if ev.Status != "" {
		shipment.Status = ev.Status
		updates["status"] = ev.Status
	}
	if ev.EstimatedDelivery != nil {
		shipment.EstimatedDelivery = ev.EstimatedDelivery
		updates["estimated_delivery"] = ev.EstimatedDelivery
	}
	return tx.Model(&models.Shipment{}).Where("id = ?", shipment.ID).Updates(updates).Error
}

func statusOrDefault(status, def string) string {
	if status == "" {
		return def
	}
	return status
}

func (r *gormRepository) ListActiveAccounts() ([]models.ShippingAccount, error) {
	var accounts []models.ShippingAccount
	err := r.db.Where("is_active = ?", true).Order("provider, id").Find(&accounts).Error
	return accounts, err
}

func (r *gormRepository) TouchAccountLastSync(id uint) error {
	now := time.Now()
	return r.db.Model(&models.ShippingAccount{}).Where("id = ?", id).
		Update("last_sync", &now).Error
}
