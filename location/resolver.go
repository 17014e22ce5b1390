// Package location resolves an ambiguous, multi-sourced notion of "where is
// this user" into one authoritative GeoPoint
package location

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	apperrors "plantcare.app/errors"
	"plantcare.app/metrics"
	"plantcare.app/models"
	"plantcare.app/pkg/validation"
	"plantcare.app/repository"
)

// Store is the subset of the local persistent store the resolver needs
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Resolution source labels, as recorded in metrics
const (
	sourceCache     = "cache"
	sourceProfile   = "profile"
	sourceBackend   = "backend"
	sourceDevice    = "device"
	sourceExhausted = "exhausted"
)

// Resolver produces one authoritative GeoPoint for the current user, trying
// sources in strict priority order and caching the winner.
type Resolver struct {
	store    Store
	profiles ProfileSource
	device   DeviceLocator
	cacheTTL time.Duration
	now      func() time.Time
	metrics  *metrics.ResolverMetrics
}

// NewResolver creates a location resolver
func NewResolver(store Store, profiles ProfileSource, device DeviceLocator, cacheTTL time.Duration, resolverMetrics *metrics.ResolverMetrics) *Resolver {
	return &Resolver{
		store:    store,
		profiles: profiles,
		device:   device,
		cacheTTL: cacheTTL,
		now:      time.Now,
		metrics:  resolverMetrics,
	}
}

// WithClock overrides the resolver's clock
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// ResolveLocation tries each location source in priority order and returns
// the first usable point. Every success from a non-cache source overwrites
// the cached location with a fresh timestamp. When every source is exhausted
// it fails with NO_LOCATION_AVAILABLE; callers must not substitute a default.
func (r *Resolver) ResolveLocation(ctx context.Context) (*models.GeoPoint, error) {
	if point := r.fromCache(); point != nil {
		r.record(sourceCache)
		return point, nil
	}

	if point := r.fromCachedProfile(); point != nil {
		r.record(sourceProfile)
		r.cacheLocation(point)
		return point, nil
	}

	if point := r.fromBackend(ctx); point != nil {
		r.record(sourceBackend)
		r.cacheLocation(point)
		return point, nil
	}

	if point := r.fromDevice(ctx); point != nil {
		r.record(sourceDevice)
		r.cacheLocation(point)
		return point, nil
	}

	r.record(sourceExhausted)
	return nil, apperrors.NewNoLocationError("all location sources exhausted")
}

// fromCache returns the last-resolved location if it is younger than the TTL.
// Cache hits never rewrite the entry.
func (r *Resolver) fromCache() *models.GeoPoint {
	value, found, err := r.store.Get(repository.KeyLastLocation)
	if err != nil {
		slog.Warn("location cache read failed", "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var cached models.CachedLocation
	if err := json.Unmarshal([]byte(value), &cached); err != nil {
		slog.Warn("location cache entry is malformed", "error", err)
		return nil
	}

	if r.now().Sub(cached.Timestamp) >= r.cacheTTL {
		slog.Debug("location cache entry expired", "timestamp", cached.Timestamp)
		return nil
	}

	return &cached.Point
}

// fromCachedProfile returns the profile location when the locally stored
// profile carries valid coordinates
func (r *Resolver) fromCachedProfile() *models.GeoPoint {
	value, found, err := r.store.Get(repository.KeyUserProfile)
	if err != nil {
		slog.Warn("profile cache read failed", "error", err)
		return nil
	}
	if !found {
		return nil
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(value), &profile); err != nil {
		slog.Warn("cached profile is malformed", "error", err)
		return nil
	}

	return usableProfileLocation(&profile)
}

// fromBackend fetches the user's profile from the backend, merges it into the
// local store, then re-checks the profile-location condition
func (r *Resolver) fromBackend(ctx context.Context) *models.GeoPoint {
	email, found, err := r.store.Get(repository.KeyUserEmail)
	if err != nil || !found || !validation.IsValidEmail(email) {
		if err != nil {
			slog.Warn("stored email read failed", "error", err)
		}
		return nil
	}

	profile, err := r.profiles.FetchProfile(ctx, email)
	if err != nil {
		slog.Warn("profile backend fetch failed", "error", err)
		return nil
	}
	if profile == nil {
		return nil
	}

	// Write-through so other consumers can reuse the fetched profile
	if data, err := json.Marshal(profile); err == nil {
		if err := r.store.Set(repository.KeyUserProfile, string(data)); err != nil {
			slog.Warn("profile write-through failed", "error", err)
		}
	}

	return usableProfileLocation(profile)
}

// fromDevice asks the device location service for a best-effort fix. Failures
// are logged and resolution continues; a missing fix is never fatal here.
func (r *Resolver) fromDevice(ctx context.Context) *models.GeoPoint {
	if r.device == nil {
		return nil
	}

	lat, lon, err := r.device.CurrentPosition(ctx)
	if err != nil {
		switch {
		case errors.Is(err, ErrDeviceDisabled):
			slog.Debug("device location source disabled")
		case errors.Is(err, ErrPermissionDenied):
			slog.Warn("device location permission denied")
		default:
			slog.Warn("device location unavailable", "error", err)
		}
		return nil
	}

	if !validation.IsValidCoordinates(lat, lon) {
		slog.Warn("device returned out-of-range coordinates", "lat", lat, "lon", lon)
		return nil
	}

	// No reverse geocoding is performed here
	return &models.GeoPoint{
		Latitude:  lat,
		Longitude: lon,
		City:      "Current Location",
		Country:   "Unknown",
	}
}

func (r *Resolver) cacheLocation(point *models.GeoPoint) {
	cached := models.CachedLocation{
		Point:     *point,
		Timestamp: r.now(),
	}

	data, err := json.Marshal(cached)
	if err != nil {
		slog.Warn("failed to encode cached location", "error", err)
		return
	}

	if err := r.store.Set(repository.KeyLastLocation, string(data)); err != nil {
		slog.Warn("failed to persist resolved location", "error", err)
	}
}

func (r *Resolver) record(source string) {
	if r.metrics != nil {
		r.metrics.RecordSource(source)
	}
}

func usableProfileLocation(profile *models.UserProfile) *models.GeoPoint {
	if profile.Location == nil {
		return nil
	}
	if !validation.IsValidCoordinates(profile.Location.Latitude, profile.Location.Longitude) {
		return nil
	}

	point := *profile.Location
	if point.City == "" {
		point.City = "Unknown"
	}
	if point.Country == "" {
		point.Country = "Unknown"
	}
	return &point
}
