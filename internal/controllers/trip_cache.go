package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"yoke_travel/internal/config"
	"yoke_travel/internal/models"
)

// Read-through cache of trip records. Purely an optimization: with no redis
// client every lookup is a direct read, and capacity checks never trust a
// cached value — the conditional UPDATE is authoritative.

const tripCacheTTL = 5 * time.Minute

var cacheCtx = context.Background()

func tripCacheKey(id uint) string {
	return fmt.Sprintf("trip:%d", id)
}

// loadTrip fetches a trip through the cache.
func loadTrip(id uint) (*models.Trip, error) {
	if config.Redis != nil {
		if raw, err := config.Redis.Get(cacheCtx, tripCacheKey(id)).Result(); err == nil {
			var trip models.Trip
			if json.Unmarshal([]byte(raw), &trip) == nil {
				return &trip, nil
			}
		}
	}

	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		return nil, err
	}
	storeTripCache(&trip)
	return &trip, nil
}

func storeTripCache(trip *models.Trip) {
	if config.Redis == nil {
		return
	}
	if raw, err := json.Marshal(trip); err == nil {
		config.Redis.Set(cacheCtx, tripCacheKey(trip.ID), raw, tripCacheTTL)
	}
}

// refreshTripCache re-reads the row after a capacity mutation so the cache
// never lags a write from this process.
func refreshTripCache(id uint) {
	if config.Redis == nil {
		return
	}
	var trip models.Trip
	if err := config.DB.First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			config.Redis.Del(cacheCtx, tripCacheKey(id))
		}
		return
	}
	storeTripCache(&trip)
}

func dropTripCache(id uint) {
	if config.Redis == nil {
		return
	}
	config.Redis.Del(cacheCtx, tripCacheKey(id))
}
