// Package models defines data structures used throughout the application
package models

import (
	"time"
)

// KeyValue is a row in the local persistent key-value store
type KeyValue struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GeoPoint represents a single authoritative geographic point for a user.
// City and Country are display-only and may be placeholder strings when the
// resolving source does not know them.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

// CachedLocation is the last-resolved location plus the time it was resolved,
// persisted as JSON in the local store
type CachedLocation struct {
	Point     GeoPoint  `json:"point"`
	Timestamp time.Time `json:"timestamp"`
}

// UserProfile is the canonical profile record after boundary normalization.
// Location is nil when the profile carries no usable coordinates.
type UserProfile struct {
	Email    string    `json:"email"`
	Name     string    `json:"name,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

// CurrentConditions holds normalized current weather values
type CurrentConditions struct {
	Temperature int     `json:"temperature"` // °C, rounded
	Humidity    float64 `json:"humidity"`    // %
	Description string  `json:"description"`
	IconCode    string  `json:"icon_code"`
	WindSpeed   float64 `json:"wind_speed"` // m/s
	UVIndex     float64 `json:"uv_index"`
	Visibility  float64 `json:"visibility"` // km
	FeelsLike   float64 `json:"feels_like"` // °C
}

// ForecastDay is one normalized day of forecast
type ForecastDay struct {
	Date          string  `json:"date"`
	TempMax       int     `json:"temp_max"`
	TempMin       int     `json:"temp_min"`
	Humidity      float64 `json:"humidity"`
	Description   string  `json:"description"`
	IconCode      string  `json:"icon_code"`
	Precipitation float64 `json:"precipitation"` // mm
	WindSpeed     float64 `json:"wind_speed"`
}

// Precipitation summarizes rain around the current moment
type Precipitation struct {
	Last24h float64 `json:"last_24h"` // mm
	Next24h float64 `json:"next_24h"` // mm
}

// WeatherSnapshot is the normalized weather state for one location.
// IsRealData must be true before the snapshot may reach the advisory engine;
// anything the fetcher cannot attribute to the upstream provider never becomes
// a snapshot.
type WeatherSnapshot struct {
	Current       CurrentConditions `json:"current"`
	Forecast      []ForecastDay     `json:"forecast"`
	Location      GeoPoint          `json:"location"`
	Timestamp     int64             `json:"timestamp"` // epoch millis
	Sunrise       time.Time         `json:"sunrise"`
	Sunset        time.Time         `json:"sunset"`
	Precipitation Precipitation     `json:"precipitation"`
	IsRealData    bool              `json:"is_real_data"`
}

// PlantDueEntry is an externally supplied plant watering due-date.
// The core only derives days-until from it and never mutates or persists it.
type PlantDueEntry struct {
	ID            string    `json:"id"`
	NextWaterDate time.Time `json:"next_water_date"`
}

// Urgency is the advice urgency level
type Urgency string

const (
	UrgencyNormal Urgency = "normal"
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// AdviceDetails echoes raw weather fields for UI display
type AdviceDetails struct {
	Temperature   int     `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	Precipitation float64 `json:"precipitation"`
	WindSpeed     float64 `json:"wind_speed"`
	UVIndex       float64 `json:"uv_index"`
}

// WateringAdvice is the prioritized watering guidance for a plant collection
type WateringAdvice struct {
	General            string        `json:"general"`
	Urgency            Urgency       `json:"urgency"`
	Icon               string        `json:"icon"`
	Color              string        `json:"color"`
	Details            AdviceDetails `json:"details"`
	PlantsNeedingWater int           `json:"plants_needing_water"`
	IsRealData         bool          `json:"is_real_data"`
}

// AdviceRequest represents data required to generate watering advice.
// Latitude/Longitude override the resolver when both are supplied.
type AdviceRequest struct {
	Latitude  *float64          `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64          `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Plants    []PlantDueRequest `json:"plants" binding:"dive"`
}

// PlantDueRequest is the wire form of a plant due entry
type PlantDueRequest struct {
	ID            string    `json:"id" binding:"required"`
	NextWaterDate time.Time `json:"next_water_date" binding:"required"`
}

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}
