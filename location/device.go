package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"plantcare.app/config"
)

// Device source failure kinds. These never escape the resolver; they exist so
// operators can tell "no permission" from "no fix" in the logs.
var (
	ErrDeviceDisabled      = errors.New("device location source disabled")
	ErrPermissionDenied    = errors.New("device location permission denied")
	ErrPositionUnavailable = errors.New("device position unavailable")
)

// DeviceLocator provides a best-effort position fix from the device location
// service. No reverse geocoding is performed on the result.
type DeviceLocator interface {
	CurrentPosition(ctx context.Context) (lat, lon float64, err error)
}

// DisabledLocator is used on deployments without a device location service,
// such as web-embedded clients
type DisabledLocator struct{}

func (DisabledLocator) CurrentPosition(ctx context.Context) (float64, float64, error) {
	return 0, 0, ErrDeviceDisabled
}

// GatewayLocator asks a device location gateway for the current position
type GatewayLocator struct {
	gatewayURL string
	client     *http.Client
}

func NewGatewayLocator(cfg *config.LocationConfig) *GatewayLocator {
	return &GatewayLocator{
		gatewayURL: cfg.DeviceGatewayURL,
		client:     &http.Client{Timeout: cfg.DeviceTimeout},
	}
}

type gatewayPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (g *GatewayLocator) CurrentPosition(ctx context.Context) (float64, float64, error) {
	requestURL := fmt.Sprintf("%s/position", g.gatewayURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close device gateway response body", "error", closeErr)
		}
	}()

	if resp.StatusCode == http.StatusForbidden {
		return 0, 0, ErrPermissionDenied
	}
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: gateway status %d", ErrPositionUnavailable, resp.StatusCode)
	}

	var position gatewayPosition
	if err := json.NewDecoder(resp.Body).Decode(&position); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrPositionUnavailable, err)
	}

	return position.Latitude, position.Longitude, nil
}
