package location

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"plantcare.app/config"
	"plantcare.app/models"
	"plantcare.app/pkg/validation"
)

// ProfileSource fetches a user profile from the profile backend.
// A nil profile with a nil error means "no profile available".
type ProfileSource interface {
	FetchProfile(ctx context.Context, email string) (*models.UserProfile, error)
}

// ProfileClient talks to the user-profile backend
type ProfileClient struct {
	baseURL string
	client  *http.Client
}

// NewProfileClient creates a client for the user-profile backend
func NewProfileClient(cfg *config.ProfileConfig) *ProfileClient {
	return &ProfileClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// The backend has shipped several profile payload shapes: the profile may sit
// under a "user" envelope or at the top level, and coordinates may be nested
// under "location" or flattened onto the profile itself. All accepted shapes
// are normalized here; ambiguity never leaks past this boundary.

type profileLocationPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
}

type profileBodyPayload struct {
	Email     string                  `json:"email"`
	Name      string                  `json:"name"`
	Location  *profileLocationPayload `json:"location"`
	Latitude  *float64                `json:"latitude"`
	Longitude *float64                `json:"longitude"`
	City      string                  `json:"city"`
	Country   string                  `json:"country"`
}

type profileEnvelope struct {
	User *profileBodyPayload `json:"user"`
}

// FetchProfile issues a GET for the user's profile. Any non-2xx status or
// malformed body is treated as "no profile available", never as a fatal error.
func (p *ProfileClient) FetchProfile(ctx context.Context, email string) (*models.UserProfile, error) {
	requestURL := fmt.Sprintf("%s/users/%s", p.baseURL, url.PathEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Warn("profile fetch failed", "error", err)
		return nil, nil
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close profile response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("profile backend returned non-2xx status", "status", resp.StatusCode)
		return nil, nil
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("profile response read failed", "error", err)
		return nil, nil
	}

	var envelope profileEnvelope
	var body profileBodyPayload
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.User != nil {
		body = *envelope.User
	} else if err := json.Unmarshal(payload, &body); err != nil {
		slog.Warn("profile response has unknown shape", "error", err)
		return nil, nil
	}

	profile := &models.UserProfile{
		Email: body.Email,
		Name:  body.Name,
	}
	if profile.Email == "" {
		profile.Email = email
	}
	profile.Location = normalizeLocation(&body)

	return profile, nil
}

func normalizeLocation(body *profileBodyPayload) *models.GeoPoint {
	var lat, lon *float64
	city, country := body.City, body.Country

	if body.Location != nil {
		lat, lon = body.Location.Latitude, body.Location.Longitude
		if body.Location.City != "" {
			city = body.Location.City
		}
		if body.Location.Country != "" {
			country = body.Location.Country
		}
	}
	if lat == nil || lon == nil {
		lat, lon = body.Latitude, body.Longitude
	}

	if lat == nil || lon == nil {
		return nil
	}
	if !validation.IsValidCoordinates(*lat, *lon) {
		return nil
	}

	if city == "" {
		city = "Unknown"
	}
	if country == "" {
		country = "Unknown"
	}

	return &models.GeoPoint{
		Latitude:  *lat,
		Longitude: *lon,
		City:      city,
		Country:   country,
	}
}
