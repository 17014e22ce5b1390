package providers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"plantcare.app/metrics"
	"plantcare.app/models"
)

// Fetcher serves weather snapshots, collapsing repeated calls for the same
// user through a cache keyed by coordinates rounded to 4 decimal places
// (about 11 m of precision).
type Fetcher struct {
	client       WeatherClient
	cache        SnapshotCache
	cacheTTL     time.Duration
	cacheMetrics *metrics.CacheMetrics
}

// NewFetcher creates a cache-backed weather fetcher
func NewFetcher(client WeatherClient, cache SnapshotCache, cacheTTL time.Duration, cacheMetrics *metrics.CacheMetrics) *Fetcher {
	return &Fetcher{
		client:       client,
		cache:        cache,
		cacheTTL:     cacheTTL,
		cacheMetrics: cacheMetrics,
	}
}

// GetWeather returns a cached snapshot when one is still fresh, otherwise
// fetches, caches, and returns a new one. A failed fetch is reported
// immediately; nothing is cached for it.
func (f *Fetcher) GetWeather(ctx context.Context, point models.GeoPoint) (*models.WeatherSnapshot, error) {
	cacheKey := f.generateCacheKey(point.Latitude, point.Longitude)

	if cached, found := f.cache.Get(cacheKey); found {
		slog.Debug("weather cache hit", "key", cacheKey)
		if f.cacheMetrics != nil {
			f.cacheMetrics.RecordHit()
		}
		return cached, nil
	}

	slog.Debug("weather cache miss", "key", cacheKey)
	if f.cacheMetrics != nil {
		f.cacheMetrics.RecordMiss()
	}

	snapshot, err := f.client.FetchWeather(ctx, point.Latitude, point.Longitude)
	if err != nil {
		return nil, err
	}

	// Carry over display names the provider does not know
	snapshot.Location.City = point.City
	snapshot.Location.Country = point.Country

	f.cache.Set(cacheKey, snapshot, f.cacheTTL)

	return snapshot, nil
}

func (f *Fetcher) generateCacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather:%.4f:%.4f", lat, lon)
}
