package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"plantcare.app/config"
	apperr "plantcare.app/errors"
	"plantcare.app/models"
	"plantcare.app/service"
)

// HealthChecker reports whether the local store is reachable
type HealthChecker interface {
	Ping() error
}

// Server represents the HTTP server and API handler
type Server struct {
	router          *gin.Engine
	config          *config.Config
	locationService service.LocationServiceInterface
	weatherService  service.WeatherServiceInterface
	advisoryService service.AdvisoryServiceInterface
	store           HealthChecker
}

// NewServer creates and configures a new HTTP server
func NewServer(
	cfg *config.Config,
	locationService service.LocationServiceInterface,
	weatherService service.WeatherServiceInterface,
	advisoryService service.AdvisoryServiceInterface,
	store HealthChecker,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware())

	server := &Server{
		router:          router,
		config:          cfg,
		locationService: locationService,
		weatherService:  weatherService,
		advisoryService: advisoryService,
		store:           store,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/location", s.getLocation)
		api.GET("/weather", s.getWeather)
		api.POST("/advice", s.generateAdvice)
		api.GET("/health", s.health)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// requestIDMiddleware attaches a correlation ID to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

func (s *Server) getLocation(c *gin.Context) {
	point, err := s.locationService.ResolveLocation(c.Request.Context())
	if err != nil {
		slog.Error("location endpoint failed", "error", err, "request_id", c.GetString("request_id"))
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, point)
}

func (s *Server) getWeather(c *gin.Context) {
	point, err := s.resolveOrParsePoint(c, c.Query("lat"), c.Query("lon"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	snapshot, err := s.weatherService.GetWeather(c.Request.Context(), *point)
	if err != nil {
		slog.Error("weather endpoint failed", "error", err, "request_id", c.GetString("request_id"))
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) generateAdvice(c *gin.Context) {
	var req models.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("advice request binding error", "error", err)
		s.handleError(c, apperr.NewValidationError("invalid request format"))
		return
	}

	point, err := s.pointFromRequest(c, &req)
	if err != nil {
		s.handleError(c, err)
		return
	}

	snapshot, err := s.weatherService.GetWeather(c.Request.Context(), *point)
	if err != nil {
		slog.Error("advice weather fetch failed", "error", err, "request_id", c.GetString("request_id"))
		s.handleError(c, err)
		return
	}

	plants := make([]models.PlantDueEntry, 0, len(req.Plants))
	for _, p := range req.Plants {
		plants = append(plants, models.PlantDueEntry{ID: p.ID, NextWaterDate: p.NextWaterDate})
	}

	advice, err := s.advisoryService.GenerateAdvice(snapshot, plants)
	if err != nil {
		slog.Error("advice generation failed", "error", err, "request_id", c.GetString("request_id"))
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, advice)
}

func (s *Server) health(c *gin.Context) {
	storeOK := true
	if s.store != nil {
		if err := s.store.Ping(); err != nil {
			storeOK = false
		}
	}

	status := http.StatusOK
	if !storeOK {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": map[bool]string{true: "ok", false: "degraded"}[storeOK],
		"store":  storeOK,
	})
}

// resolveOrParsePoint uses explicit query coordinates when both are present,
// otherwise falls back to the location resolver
func (s *Server) resolveOrParsePoint(c *gin.Context, latStr, lonStr string) (*models.GeoPoint, error) {
	if latStr == "" && lonStr == "" {
		return s.locationService.ResolveLocation(c.Request.Context())
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, apperr.NewValidationError("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, apperr.NewValidationError("lon must be a number")
	}

	return &models.GeoPoint{Latitude: lat, Longitude: lon, City: "Unknown", Country: "Unknown"}, nil
}

func (s *Server) pointFromRequest(c *gin.Context, req *models.AdviceRequest) (*models.GeoPoint, error) {
	if req.Latitude != nil && req.Longitude != nil {
		return &models.GeoPoint{
			Latitude:  *req.Latitude,
			Longitude: *req.Longitude,
			City:      "Unknown",
			Country:   "Unknown",
		}, nil
	}

	return s.locationService.ResolveLocation(c.Request.Context())
}

// handleError maps application errors onto HTTP responses. All weather-stack
// failures carry the same generic client message; the distinguishing detail
// goes to logs only.
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *apperr.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case apperr.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case apperr.NoLocationError:
			statusCode = http.StatusNotFound
			message = "no location available"
		case apperr.WeatherUnavailableError, apperr.WeatherUntrustedError:
			statusCode = http.StatusServiceUnavailable
			message = "weather data unavailable"
		case apperr.WeatherMisconfiguredError:
			statusCode = http.StatusBadGateway
			message = "weather data unavailable"
		case apperr.InvalidWeatherError:
			statusCode = http.StatusUnprocessableEntity
			message = "weather data unavailable"
		case apperr.StoreError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
