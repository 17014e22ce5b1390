package service

import (
	"context"

	"plantcare.app/models"
)

// LocationServiceInterface resolves the current user's location
type LocationServiceInterface interface {
	ResolveLocation(ctx context.Context) (*models.GeoPoint, error)
}

// WeatherServiceInterface returns weather snapshots for a location
type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, point models.GeoPoint) (*models.WeatherSnapshot, error)
}

// AdvisoryServiceInterface derives watering advice from weather and plants
type AdvisoryServiceInterface interface {
	GenerateAdvice(weather *models.WeatherSnapshot, plants []models.PlantDueEntry) (*models.WateringAdvice, error)
}
