// Package advisor derives human-readable, prioritized watering guidance from
// a weather snapshot and a plant due list
package advisor

import (
	"fmt"
	"strings"
	"time"

	"plantcare.app/errors"
	"plantcare.app/models"
)

// Rule thresholds
const (
	recentRainThresholdMM   = 5.0
	lowRecentRainMM         = 2.0
	forecastRainThresholdMM = 3.0
	hotTemperatureC         = 30
	mildTemperatureC        = 25
	coldTemperatureC        = 10
	highHumidityPct         = 80.0
	lowHumidityPct          = 40.0
	strongWindMS            = 20.0
	highUVIndex             = 8.0
)

// Engine generates watering advice. It is stateless apart from an injectable
// clock used to compare plant due-dates against "today".
type Engine struct {
	now func() time.Time
}

// NewEngine creates an advisory engine
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// WithClock overrides the engine's clock
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// GenerateAdvice evaluates the rule list as a strict left-to-right fold with
// the urgency threaded through: later rules see and respect the urgency set
// by earlier ones. Calling it twice with identical inputs yields identical
// output, including line order.
func (e *Engine) GenerateAdvice(weather *models.WeatherSnapshot, plants []models.PlantDueEntry) (*models.WateringAdvice, error) {
	if weather == nil || !weather.IsRealData {
		return nil, errors.NewInvalidWeatherError("weather input is not verified provider data")
	}

	var lines []string
	urgency := models.UrgencyNormal

	temperature := weather.Current.Temperature
	humidity := weather.Current.Humidity
	rain := weather.Precipitation.Last24h

	// Rules 1 and 2 are mutually exclusive on the same precipitation reading;
	// readings in the 2-5mm band fire neither.
	rainRuleFired := false
	switch {
	case rain > recentRainThresholdMM:
		lines = append(lines, "Recent rainfall detected - consider delaying watering by 1-2 days")
		urgency = models.UrgencyLow
		rainRuleFired = true
	case rain < lowRecentRainMM && rainExpectedWithin48h(weather.Forecast):
		lines = append(lines, "Rain expected in the next 48 hours - consider skipping your next watering")
		urgency = models.UrgencyLow
		rainRuleFired = true
	}

	// Heat raises to high, but the rain rules take precedence over it
	if temperature > hotTemperatureC {
		lines = append(lines, "High temperatures expected - your plants may need more frequent watering")
		if !rainRuleFired {
			urgency = models.UrgencyHigh
		}
	}

	if humidity > highHumidityPct && temperature < mildTemperatureC {
		lines = append(lines, "High humidity and mild temperatures - reduce watering frequency slightly")
		if urgency == models.UrgencyNormal {
			urgency = models.UrgencyLow
		}
	}

	if humidity < lowHumidityPct {
		lines = append(lines, "Low humidity - consider misting your plants or using humidity trays")
		if urgency != models.UrgencyHigh {
			urgency = models.UrgencyMedium
		}
	}

	// Cold forces low. It cannot collide with the heat rule, and the rain
	// rules already sit at low, so evaluation order is preserved.
	if temperature < coldTemperatureC {
		lines = append(lines, "Cold weather ahead - most plants need less water during dormancy")
		urgency = models.UrgencyLow
	}

	if weather.Current.WindSpeed > strongWindMS {
		lines = append(lines, "Strong winds expected - outdoor plants may dry out faster")
		if urgency == models.UrgencyNormal {
			urgency = models.UrgencyMedium
		}
	}

	// Informational only; never changes urgency
	if weather.Current.UVIndex > highUVIndex {
		lines = append(lines, "High UV index - consider shading sensitive plants")
	}

	if len(lines) == 0 {
		lines = append(lines, "Weather conditions are normal - follow your regular watering schedule")
	}

	due := e.countPlantsDue(plants)
	if due > 0 {
		if due == 1 {
			lines = append(lines, "1 plant needs watering today")
		} else {
			lines = append(lines, fmt.Sprintf("%d plants need watering today", due))
		}
	}

	icon, color := urgencyTokens(urgency)

	return &models.WateringAdvice{
		General: strings.Join(lines, "\n\n"),
		Urgency: urgency,
		Icon:    icon,
		Color:   color,
		Details: models.AdviceDetails{
			Temperature:   temperature,
			Humidity:      humidity,
			Precipitation: rain,
			WindSpeed:     weather.Current.WindSpeed,
			UVIndex:       weather.Current.UVIndex,
		},
		PlantsNeedingWater: due,
		IsRealData:         true,
	}, nil
}

// rainExpectedWithin48h checks the first two forecast days for meaningful rain
func rainExpectedWithin48h(forecast []models.ForecastDay) bool {
	for i, day := range forecast {
		if i >= 2 {
			break
		}
		if day.Precipitation > forecastRainThresholdMM {
			return true
		}
	}
	return false
}

// countPlantsDue counts plants whose next watering date is today or earlier,
// compared by calendar day
func (e *Engine) countPlantsDue(plants []models.PlantDueEntry) int {
	today := truncateToDay(e.now())

	count := 0
	for _, plant := range plants {
		due := truncateToDay(plant.NextWaterDate)
		if !due.After(today) {
			count++
		}
	}
	return count
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func urgencyTokens(urgency models.Urgency) (icon, color string) {
	switch urgency {
	case models.UrgencyHigh:
		return "water-alert", "red"
	case models.UrgencyMedium:
		return "water", "orange"
	case models.UrgencyLow:
		return "water-off", "blue"
	default:
		return "watering-can", "green"
	}
}
