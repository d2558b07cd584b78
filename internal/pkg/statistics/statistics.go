package statistics

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/bluezpowerhouse/autoshop/app/models"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/cache"
	"github.com/bluezpowerhouse/autoshop/internal/pkg/database"
)

const (
	CacheKeyShipmentsTotal = "statistics:shipments:total"
	CacheKeyEventsDaily    = "statistics:tracking_events:daily:%s" // Format with date YYYY-MM-DD
	CacheKeyWebhooksFailed = "statistics:webhooks:failed"
	CacheExpiration        = 30 * time.Minute
)

// ShippingStats holds the counters shown on the shipping dashboard.
type ShippingStats struct {
	TotalShipments int `json:"total_shipments"`
	TodayEvents    int `json:"today_events"`
	FailedWebhooks int `json:"failed_webhooks"`
}

// GetShippingStats returns the dashboard counters, cache-first.
func GetShippingStats() ShippingStats {
	return ShippingStats{
		TotalShipments: GetTotalShipments(),
		TodayEvents:    GetTodayEvents(),
		FailedWebhooks: GetFailedWebhooks(),
	}
}

// UpdateStatisticsCache recomputes all shipping counters and stores them in the cache
func UpdateStatisticsCache() error {
	db := database.GetDB()

	var totalShipments int64
	if err := db.Model(&models.Shipment{}).Count(&totalShipments).Error; err != nil {
		log.Printf("Error counting total shipments: %v", err)
		return err
	}

	var todayEvents int64
	today := time.Now().Format("2006-01-02")
	todayStart, _ := time.Parse("2006-01-02", today)
	todayEnd := todayStart.Add(24 * time.Hour)

	if err := db.Model(&models.TrackingEvent{}).Where("event_date BETWEEN ? AND ?", todayStart, todayEnd).Count(&todayEvents).Error; err != nil {
		log.Printf("Error counting today's tracking events: %v", err)
		return err
	}

	var failedWebhooks int64
	if err := db.Model(&models.WebhookLog{}).Where("processed = ? AND processing_error <> ''", false).Count(&failedWebhooks).Error; err != nil {
		log.Printf("Error counting failed webhooks: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyShipmentsTotal, strconv.FormatInt(totalShipments, 10), CacheExpiration); err != nil {
		log.Printf("Error caching total shipments: %v", err)
		return err
	}

	dailyKey := fmt.Sprintf(CacheKeyEventsDaily, today)
	if err := cache.Set(dailyKey, strconv.FormatInt(todayEvents, 10), CacheExpiration); err != nil {
		log.Printf("Error caching today's tracking events: %v", err)
		return err
	}

	if err := cache.Set(CacheKeyWebhooksFailed, strconv.FormatInt(failedWebhooks, 10), CacheExpiration); err != nil {
		log.Printf("Error caching failed webhooks: %v", err)
		return err
	}

	log.Printf("Statistics updated in cache: Shipments: %d, Today's Events: %d, Failed Webhooks: %d",
		totalShipments, todayEvents, failedWebhooks)

	return nil
}

// GetTotalShipments returns the total number of shipments from cache or database
func GetTotalShipments() int {
	return cachedCount(CacheKeyShipmentsTotal, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.Shipment{}).Count(&count).Error
		return count, err
	})
}

// GetTodayEvents returns the number of tracking events recorded today
func GetTodayEvents() int {
	today := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf(CacheKeyEventsDaily, today)

	return cachedCount(dailyKey, func() (int64, error) {
		todayStart, _ := time.Parse("2006-01-02", today)
		todayEnd := todayStart.Add(24 * time.Hour)

		var count int64
		err := database.GetDB().Model(&models.TrackingEvent{}).
			Where("event_date BETWEEN ? AND ?", todayStart, todayEnd).Count(&count).Error
		return count, err
	})
}

// GetFailedWebhooks returns the number of webhook calls whose processing failed
func GetFailedWebhooks() int {
	return cachedCount(CacheKeyWebhooksFailed, func() (int64, error) {
		var count int64
		err := database.GetDB().Model(&models.WebhookLog{}).
			Where("processed = ? AND processing_error <> ''", false).Count(&count).Error
		return count, err
	})
}

// cachedCount reads a counter from the cache, falling back to the database
// and refreshing the cache on a miss.
func cachedCount(key string, fromDB func() (int64, error)) int {
	val, err := cache.Get(key)
	if err == nil {
		count, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return 0
		}
		return int(count)
	}

	count, err := fromDB()
	if err != nil {
		log.Printf("Error counting for %s: %v", key, err)
		return 0
	}

	if err := cache.Set(key, strconv.FormatInt(count, 10), CacheExpiration); err != nil {
		log.Printf("Error caching %s: %v", key, err)
	}

	return int(count)
}
