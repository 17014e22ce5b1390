package providers

import (
	"context"

	"plantcare.app/models"
	"plantcare.app/providers/cache"
)

// WeatherClient fetches and normalizes weather data for a coordinate pair
type WeatherClient interface {
	FetchWeather(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)
}

// WeatherFetcher serves weather snapshots through the coordinate-keyed cache
type WeatherFetcher interface {
	GetWeather(ctx context.Context, point models.GeoPoint) (*models.WeatherSnapshot, error)
}

// SnapshotCache is an alias to avoid a separate import at call sites
type SnapshotCache = cache.SnapshotCacheInterface
