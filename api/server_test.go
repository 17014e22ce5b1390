package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"plantcare.app/config"
	"plantcare.app/errors"
	"plantcare.app/models"
)

// MockLocationService for testing
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) ResolveLocation(ctx context.Context) (*models.GeoPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GeoPoint), args.Error(1)
}

// MockWeatherService for testing
type MockWeatherService struct {
	mock.Mock
}

func (m *MockWeatherService) GetWeather(ctx context.Context, point models.GeoPoint) (*models.WeatherSnapshot, error) {
	args := m.Called(ctx, point)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeatherSnapshot), args.Error(1)
}

// MockAdvisoryService for testing
type MockAdvisoryService struct {
	mock.Mock
}

func (m *MockAdvisoryService) GenerateAdvice(weather *models.WeatherSnapshot, plants []models.PlantDueEntry) (*models.WateringAdvice, error) {
	args := m.Called(weather, plants)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WateringAdvice), args.Error(1)
}

// MockHealthChecker for testing
type MockHealthChecker struct {
	mock.Mock
}

func (m *MockHealthChecker) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// TestServerSetup contains all the components needed for testing
type TestServerSetup struct {
	Router       *gin.Engine
	MockLocation *MockLocationService
	MockWeather  *MockWeatherService
	MockAdvisory *MockAdvisoryService
	MockStore    *MockHealthChecker
}

// Helper function to set up a test server with mocks
func setupTestServer() *TestServerSetup {
	gin.SetMode(gin.TestMode)

	mockLocation := new(MockLocationService)
	mockWeather := new(MockWeatherService)
	mockAdvisory := new(MockAdvisoryService)
	mockStore := new(MockHealthChecker)

	server := NewServer(
		&config.Config{Server: config.ServerConfig{Port: 8080}},
		mockLocation,
		mockWeather,
		mockAdvisory,
		mockStore,
	)

	return &TestServerSetup{
		Router:       server.GetRouter(),
		MockLocation: mockLocation,
		MockWeather:  mockWeather,
		MockAdvisory: mockAdvisory,
		MockStore:    mockStore,
	}
}

func testPoint() *models.GeoPoint {
	return &models.GeoPoint{Latitude: 32.08, Longitude: 34.78, City: "Tel Aviv", Country: "Israel"}
}

func testWeatherSnapshot() *models.WeatherSnapshot {
	return &models.WeatherSnapshot{
		Current:    models.CurrentConditions{Temperature: 24, Humidity: 52, Description: "clear sky"},
		Location:   *testPoint(),
		IsRealData: true,
	}
}

// Tests for GET /api/location

func TestGetLocation_Success(t *testing.T) {
	setup := setupTestServer()

	setup.MockLocation.On("ResolveLocation", mock.Anything).Return(testPoint(), nil)

	req := httptest.NewRequest("GET", "/api/location", nil)
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.GeoPoint
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, *testPoint(), response)

	setup.MockLocation.AssertExpectations(t)
}

func TestGetLocation_NoSourceAvailable(t *testing.T) {
	setup := setupTestServer()

	setup.MockLocation.On("ResolveLocation", mock.Anything).Return(nil, errors.NewNoLocationError("all location sources exhausted"))

	req := httptest.NewRequest("GET", "/api/location", nil)
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errorResponse models.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err)
	assert.Equal(t, "no location available", errorResponse.Error)

	setup.MockLocation.AssertExpectations(t)
}

// Tests for GET /api/weather

func TestGetWeather_WithExplicitCoordinates(t *testing.T) {
	setup := setupTestServer()

	setup.MockWeather.On("GetWeather", mock.Anything, models.GeoPoint{
		Latitude:  32.08,
		Longitude: 34.78,
		City:      "Unknown",
		Country:   "Unknown",
	}).Return(testWeatherSnapshot(), nil)

	req := httptest.NewRequest("GET", "/api/weather?lat=32.08&lon=34.78", nil)
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.WeatherSnapshot
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.IsRealData)
	assert.Equal(t, 24, response.Current.Temperature)

	setup.MockWeather.AssertExpectations(t)
	setup.MockLocation.AssertNotCalled(t, "ResolveLocation", mock.Anything)
}

func TestGetWeather_ResolvesLocationWhenNoCoordinates(t *testing.T) {
	setup := setupTestServer()

	setup.MockLocation.On("ResolveLocation", mock.Anything).Return(testPoint(), nil)
	setup.MockWeather.On("GetWeather", mock.Anything, *testPoint()).Return(testWeatherSnapshot(), nil)

	req := httptest.NewRequest("GET", "/api/weather", nil)
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	setup.MockLocation.AssertExpectations(t)
	setup.MockWeather.AssertExpectations(t)
}

func TestGetWeather_InvalidCoordinateFormat(t *testing.T) {
	setup := setupTestServer()

	req := httptest.NewRequest("GET", "/api/weather?lat=abc&lon=34.78", nil)
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errorResponse models.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err)
	assert.Equal(t, "lat must be a number", errorResponse.Error)

	setup.MockWeather.AssertNotCalled(t, "GetWeather", mock.Anything, mock.Anything)
}

func TestGetWeather_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		serviceError   error
		expectedStatus int
	}{
		{"Unavailable", errors.NewWeatherUnavailableError("proxy down", nil), http.StatusServiceUnavailable},
		{"Untrusted", errors.NewWeatherUntrustedError("unexpected source"), http.StatusServiceUnavailable},
		{"Misconfigured", errors.NewWeatherMisconfiguredError("proxy misconfigured", nil), http.StatusBadGateway},
		{"InvalidData", errors.NewInvalidWeatherError("invalid weather input"), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup := setupTestServer()

			setup.MockWeather.On("GetWeather", mock.Anything, mock.Anything).Return(nil, tt.serviceError)

			req := httptest.NewRequest("GET", "/api/weather?lat=1&lon=2", nil)
			w := httptest.NewRecorder()

			setup.Router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var errorResponse models.ErrorResponse
			err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
			assert.NoError(t, err)
			assert.Equal(t, "weather data unavailable", errorResponse.Error, "clients never see the distinguishing detail")
		})
	}
}

// Tests for POST /api/advice

func TestGenerateAdvice_Success(t *testing.T) {
	setup := setupTestServer()

	dueDate := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	expectedAdvice := &models.WateringAdvice{
		General:            "Weather conditions are normal - follow your regular watering schedule\n\n1 plant needs watering today",
		Urgency:            models.UrgencyNormal,
		Icon:               "watering-can",
		Color:              "green",
		PlantsNeedingWater: 1,
		IsRealData:         true,
	}

	setup.MockWeather.On("GetWeather", mock.Anything, models.GeoPoint{
		Latitude:  32.08,
		Longitude: 34.78,
		City:      "Unknown",
		Country:   "Unknown",
	}).Return(testWeatherSnapshot(), nil)
	setup.MockAdvisory.On("GenerateAdvice", testWeatherSnapshot(), []models.PlantDueEntry{
		{ID: "monstera-1", NextWaterDate: dueDate},
	}).Return(expectedAdvice, nil)

	body := fmt.Sprintf(`{
		"latitude": 32.08,
		"longitude": 34.78,
		"plants": [{"id": "monstera-1", "next_water_date": %q}]
	}`, dueDate.Format(time.RFC3339))

	req := httptest.NewRequest("POST", "/api/advice", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response models.WateringAdvice
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, models.UrgencyNormal, response.Urgency)
	assert.Equal(t, 1, response.PlantsNeedingWater)

	setup.MockWeather.AssertExpectations(t)
	setup.MockAdvisory.AssertExpectations(t)
	setup.MockLocation.AssertNotCalled(t, "ResolveLocation", mock.Anything)
}

func TestGenerateAdvice_ResolvesLocationWithoutOverride(t *testing.T) {
	setup := setupTestServer()

	setup.MockLocation.On("ResolveLocation", mock.Anything).Return(testPoint(), nil)
	setup.MockWeather.On("GetWeather", mock.Anything, *testPoint()).Return(testWeatherSnapshot(), nil)
	setup.MockAdvisory.On("GenerateAdvice", testWeatherSnapshot(), []models.PlantDueEntry{}).
		Return(&models.WateringAdvice{Urgency: models.UrgencyNormal, IsRealData: true}, nil)

	req := httptest.NewRequest("POST", "/api/advice", strings.NewReader(`{"plants": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	setup.MockLocation.AssertExpectations(t)
	setup.MockAdvisory.AssertExpectations(t)
}

func TestGenerateAdvice_InvalidRequestBody(t *testing.T) {
	setup := setupTestServer()

	tests := []struct {
		name string
		body string
	}{
		{"MalformedJSON", `{"plants": [`},
		{"OutOfRangeLatitude", `{"latitude": 95, "longitude": 10, "plants": []}`},
		{"PlantMissingID", `{"plants": [{"next_water_date": "2026-03-10T00:00:00Z"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/advice", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			setup.Router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var errorResponse models.ErrorResponse
			err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
			assert.NoError(t, err)
			assert.Equal(t, "invalid request format", errorResponse.Error)
		})
	}

	setup.MockWeather.AssertNotCalled(t, "GetWeather", mock.Anything, mock.Anything)
}

func TestGenerateAdvice_NoLocationAvailable(t *testing.T) {
	setup := setupTestServer()

	setup.MockLocation.On("ResolveLocation", mock.Anything).Return(nil, errors.NewNoLocationError("all location sources exhausted"))

	req := httptest.NewRequest("POST", "/api/advice", strings.NewReader(`{"plants": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	setup.MockWeather.AssertNotCalled(t, "GetWeather", mock.Anything, mock.Anything)
}

func TestGenerateAdvice_RejectedWeatherInput(t *testing.T) {
	setup := setupTestServer()

	setup.MockWeather.On("GetWeather", mock.Anything, mock.Anything).Return(testWeatherSnapshot(), nil)
	setup.MockAdvisory.On("GenerateAdvice", mock.Anything, mock.Anything).
		Return(nil, errors.NewInvalidWeatherError("weather data is not verified"))

	req := httptest.NewRequest("POST", "/api/advice", strings.NewReader(`{"latitude": 1, "longitude": 2, "plants": []}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// Tests for GET /api/health

func TestHealth_StoreReachable(t *testing.T) {
	setup := setupTestServer()

	setup.MockStore.On("Ping").Return(nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHealth_StoreDown(t *testing.T) {
	setup := setupTestServer()

	setup.MockStore.On("Ping").Return(fmt.Errorf("database locked"))

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

// Request ID middleware

func TestRequestIDHeader(t *testing.T) {
	setup := setupTestServer()
	setup.MockStore.On("Ping").Return(nil)

	t.Run("Generated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		w := httptest.NewRecorder()

		setup.Router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Preserved", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/health", nil)
		req.Header.Set("X-Request-ID", "trace-me-123")
		w := httptest.NewRecorder()

		setup.Router.ServeHTTP(w, req)

		assert.Equal(t, "trace-me-123", w.Header().Get("X-Request-ID"))
	})
}

func TestMetricsEndpointExposed(t *testing.T) {
	setup := setupTestServer()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	setup.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
