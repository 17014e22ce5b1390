package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"plantcare.app/config"
	"plantcare.app/errors"
	"plantcare.app/models"
)

const maxForecastDays = 5

// ProxyClient talks to the backend weather proxy. It performs a single
// attempt per call; retries are the caller's responsibility.
type ProxyClient struct {
	baseURL        string
	expectedSource string
	client         *http.Client
}

// NewProxyClient creates a client for the backend weather proxy
func NewProxyClient(cfg *config.WeatherConfig) *ProxyClient {
	return &ProxyClient{
		baseURL:        cfg.BaseURL,
		expectedSource: cfg.ExpectedSource,
		client:         &http.Client{Timeout: cfg.Timeout},
	}
}

type proxyRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type proxyWeatherBlock struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type proxyCurrent struct {
	Temp       float64             `json:"temp"`
	FeelsLike  float64             `json:"feels_like"`
	Humidity   float64             `json:"humidity"`
	WindSpeed  float64             `json:"wind_speed"`
	UVI        float64             `json:"uvi"`
	Visibility float64             `json:"visibility"` // meters
	Sunrise    int64               `json:"sunrise"`    // epoch seconds
	Sunset     int64               `json:"sunset"`
	Rain       float64             `json:"rain"` // mm over the last 24h
	Weather    []proxyWeatherBlock `json:"weather"`
}

type proxyDailyTemp struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type proxyDaily struct {
	Dt        int64               `json:"dt"`
	Temp      proxyDailyTemp      `json:"temp"`
	Humidity  float64             `json:"humidity"`
	WindSpeed float64             `json:"wind_speed"`
	Rain      float64             `json:"rain"` // mm
	Weather   []proxyWeatherBlock `json:"weather"`
}

type proxyResponse struct {
	Current *proxyCurrent `json:"current"`
	Daily   []proxyDaily  `json:"daily"`
	Source  string        `json:"source"`
}

// FetchWeather retrieves weather for the given coordinates and normalizes it
// into a WeatherSnapshot. The response is only accepted when its source tag
// identifies the expected upstream provider exactly.
func (p *ProxyClient) FetchWeather(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	body, err := json.Marshal(proxyRequest{Latitude: lat, Longitude: lon})
	if err != nil {
		return nil, errors.NewWeatherUnavailableError("failed to encode weather request", err)
	}

	url := fmt.Sprintf("%s/weather-get", p.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewWeatherUnavailableError("failed to build weather request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewWeatherUnavailableError("weather proxy request failed", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("close weather response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, p.classifyStatus(resp.StatusCode)
	}

	var decoded proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.NewWeatherUnavailableError("failed to decode weather response", err)
	}

	if decoded.Current == nil || decoded.Source == "" {
		return nil, errors.NewWeatherUnavailableError("invalid weather response", nil)
	}

	if decoded.Source != p.expectedSource {
		slog.Warn("rejecting weather response from unexpected source", "source", decoded.Source)
		return nil, errors.NewWeatherUntrustedError(
			fmt.Sprintf("weather response source %q is not the expected provider", decoded.Source))
	}

	return p.normalize(&decoded, lat, lon), nil
}

func (p *ProxyClient) classifyStatus(statusCode int) error {
	switch statusCode {
	case http.StatusServiceUnavailable:
		return errors.NewWeatherUnavailableError("weather proxy unavailable", nil)
	case http.StatusInternalServerError:
		return errors.NewWeatherMisconfiguredError("weather proxy reported a configuration problem", nil)
	default:
		return errors.NewWeatherUnavailableError(
			fmt.Sprintf("weather proxy returned status code %d", statusCode), nil)
	}
}

func (p *ProxyClient) normalize(resp *proxyResponse, lat, lon float64) *models.WeatherSnapshot {
	cur := resp.Current

	description, icon := "No description", ""
	if len(cur.Weather) > 0 {
		description = cur.Weather[0].Description
		icon = cur.Weather[0].Icon
	}

	forecast := make([]models.ForecastDay, 0, maxForecastDays)
	for i, day := range resp.Daily {
		if i >= maxForecastDays {
			break
		}
		dayDescription, dayIcon := "", ""
		if len(day.Weather) > 0 {
			dayDescription = day.Weather[0].Description
			dayIcon = day.Weather[0].Icon
		}
		forecast = append(forecast, models.ForecastDay{
			Date:          time.Unix(day.Dt, 0).UTC().Format("2006-01-02"),
			TempMax:       int(math.Round(day.Temp.Max)),
			TempMin:       int(math.Round(day.Temp.Min)),
			Humidity:      day.Humidity,
			Description:   dayDescription,
			IconCode:      dayIcon,
			Precipitation: day.Rain,
			WindSpeed:     day.WindSpeed,
		})
	}

	next24h := 0.0
	if len(forecast) > 0 {
		next24h = forecast[0].Precipitation
	}

	return &models.WeatherSnapshot{
		Current: models.CurrentConditions{
			Temperature: int(math.Round(cur.Temp)),
			Humidity:    cur.Humidity,
			Description: description,
			IconCode:    icon,
			WindSpeed:   cur.WindSpeed,
			UVIndex:     cur.UVI,
			Visibility:  cur.Visibility / 1000,
			FeelsLike:   cur.FeelsLike,
		},
		Forecast:  forecast,
		Location:  models.GeoPoint{Latitude: lat, Longitude: lon},
		Timestamp: time.Now().UnixMilli(),
		Sunrise:   time.Unix(cur.Sunrise, 0).UTC(),
		Sunset:    time.Unix(cur.Sunset, 0).UTC(),
		Precipitation: models.Precipitation{
			Last24h: cur.Rain,
			Next24h: next24h,
		},
		IsRealData: true,
	}
}
