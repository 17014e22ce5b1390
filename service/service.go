// Package service wires the location, weather, and advisory components
// behind thin, independently callable operations. There is deliberately no
// combined do-everything entry point: callers compose the three stages and
// may cache or override any of them.
package service

import (
	"context"
	"log/slog"

	"plantcare.app/advisor"
	"plantcare.app/errors"
	"plantcare.app/models"
	"plantcare.app/pkg/validation"
	"plantcare.app/providers"
)

// LocationResolver is the contract the location service delegates to
type LocationResolver interface {
	ResolveLocation(ctx context.Context) (*models.GeoPoint, error)
}

// LocationService resolves the user's authoritative location
type LocationService struct {
	resolver LocationResolver
}

// NewLocationService creates a new location service
func NewLocationService(resolver LocationResolver) *LocationService {
	return &LocationService{resolver: resolver}
}

// ResolveLocation produces one authoritative GeoPoint for the current user
func (s *LocationService) ResolveLocation(ctx context.Context) (*models.GeoPoint, error) {
	point, err := s.resolver.ResolveLocation(ctx)
	if err != nil {
		slog.Error("location resolution failed", "error", err)
		return nil, err
	}

	slog.Debug("location resolved", "city", point.City, "lat", point.Latitude, "lon", point.Longitude)
	return point, nil
}

// WeatherService returns normalized weather snapshots for a location
type WeatherService struct {
	fetcher providers.WeatherFetcher
}

// NewWeatherService creates a new weather service
func NewWeatherService(fetcher providers.WeatherFetcher) *WeatherService {
	return &WeatherService{fetcher: fetcher}
}

// GetWeather retrieves current and forecast weather for the given point
func (s *WeatherService) GetWeather(ctx context.Context, point models.GeoPoint) (*models.WeatherSnapshot, error) {
	if !validation.IsValidCoordinates(point.Latitude, point.Longitude) {
		return nil, errors.NewValidationError("coordinates out of range")
	}

	snapshot, err := s.fetcher.GetWeather(ctx, point)
	if err != nil {
		slog.Error("weather fetch failed", "error", err, "lat", point.Latitude, "lon", point.Longitude)
		return nil, err
	}

	return snapshot, nil
}

// AdvisoryService derives watering advice from weather and a plant due list
type AdvisoryService struct {
	engine *advisor.Engine
}

// NewAdvisoryService creates a new advisory service
func NewAdvisoryService(engine *advisor.Engine) *AdvisoryService {
	return &AdvisoryService{engine: engine}
}

// GenerateAdvice produces fresh advice on every call; it is never cached so
// it always reflects the freshest plant list
func (s *AdvisoryService) GenerateAdvice(weather *models.WeatherSnapshot, plants []models.PlantDueEntry) (*models.WateringAdvice, error) {
	advice, err := s.engine.GenerateAdvice(weather, plants)
	if err != nil {
		slog.Error("advice generation failed", "error", err)
		return nil, err
	}

	return advice, nil
}
