package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"plantcare.app/errors"
)

// Cache backend types
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)

// Store driver types
const (
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// Config represents the application configuration structure
type Config struct {
	Server   ServerConfig   `split_words:"true"`
	Store    StoreConfig    `split_words:"true"`
	Profile  ProfileConfig  `split_words:"true"`
	Weather  WeatherConfig  `split_words:"true"`
	Location LocationConfig `split_words:"true"`
	Cache    CacheConfig    `split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

// StoreConfig contains the local persistent store settings.
// SQLite serves single-user deployments; postgres is available when the
// core is shared across requests.
type StoreConfig struct {
	Driver   string `envconfig:"STORE_DRIVER" default:"sqlite"`
	Path     string `envconfig:"STORE_PATH" default:"plantcare.db"`
	Host     string `envconfig:"STORE_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_PORT" default:"5432"`
	User     string `envconfig:"STORE_USER" default:"postgres"`
	Password string `envconfig:"STORE_PASSWORD" default:"postgres"`
	Name     string `envconfig:"STORE_NAME" default:"plantcare"`
	SSLMode  string `envconfig:"STORE_SSL_MODE" default:"disable"`
}

// GetDSN returns a formatted postgres connection string
func (c StoreConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ProfileConfig contains settings for the user-profile backend
type ProfileConfig struct {
	BaseURL string        `envconfig:"PROFILE_BASE_URL" default:"http://localhost:9090"`
	Timeout time.Duration `envconfig:"PROFILE_TIMEOUT" default:"15s"`
}

// WeatherConfig contains settings for the weather backend proxy
type WeatherConfig struct {
	BaseURL        string        `envconfig:"WEATHER_BASE_URL" required:"true"`
	ExpectedSource string        `envconfig:"WEATHER_EXPECTED_SOURCE" default:"openweathermap"`
	Timeout        time.Duration `envconfig:"WEATHER_TIMEOUT" default:"15s"`
	CacheTTL       time.Duration `envconfig:"WEATHER_CACHE_TTL" default:"30m"`
}

// LocationConfig contains settings for the location resolver
type LocationConfig struct {
	CacheTTL         time.Duration `envconfig:"LOCATION_CACHE_TTL" default:"24h"`
	DeviceEnabled    bool          `envconfig:"LOCATION_DEVICE_ENABLED" default:"false"`
	DeviceGatewayURL string        `envconfig:"LOCATION_DEVICE_GATEWAY_URL" default:""`
	DeviceTimeout    time.Duration `envconfig:"LOCATION_DEVICE_TIMEOUT" default:"15s"`
}

// CacheConfig contains weather cache backend settings
type CacheConfig struct {
	Type          string        `envconfig:"CACHE_TYPE" default:"memory"`
	RedisAddr     string        `envconfig:"CACHE_REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"CACHE_REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"CACHE_REDIS_DB" default:"0"`
	DialTimeout   time.Duration `envconfig:"CACHE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout   time.Duration `envconfig:"CACHE_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout  time.Duration `envconfig:"CACHE_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// LoadConfig loads and validates application configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Location.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate checks server configuration
func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

// Validate checks store configuration
func (s *StoreConfig) Validate() error {
	switch s.Driver {
	case StoreDriverSQLite:
		if s.Path == "" {
			return errors.NewConfigurationError("STORE_PATH cannot be empty", nil)
		}
	case StoreDriverPostgres:
		if s.Host == "" {
			return errors.NewConfigurationError("STORE_HOST cannot be empty", nil)
		}
		if s.Port < 1 || s.Port > 65535 {
			return errors.NewConfigurationError("STORE_PORT must be between 1 and 65535", nil)
		}
		if s.User == "" {
			return errors.NewConfigurationError("STORE_USER cannot be empty", nil)
		}
		if s.Name == "" {
			return errors.NewConfigurationError("STORE_NAME cannot be empty", nil)
		}
	default:
		return errors.NewConfigurationError(
			fmt.Sprintf("STORE_DRIVER must be one of: %s, %s", StoreDriverSQLite, StoreDriverPostgres), nil)
	}
	return nil
}

// Validate checks profile backend configuration
func (p *ProfileConfig) Validate() error {
	if p.BaseURL == "" {
		return errors.NewConfigurationError("PROFILE_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(p.BaseURL, "http://") && !strings.HasPrefix(p.BaseURL, "https://") {
		return errors.NewConfigurationError("PROFILE_BASE_URL must start with http:// or https://", nil)
	}
	if p.Timeout <= 0 {
		return errors.NewConfigurationError("PROFILE_TIMEOUT must be positive", nil)
	}
	return nil
}

// Validate checks weather proxy configuration
func (w *WeatherConfig) Validate() error {
	if w.BaseURL == "" {
		return errors.NewConfigurationError("WEATHER_BASE_URL is required", nil)
	}
	if !strings.HasPrefix(w.BaseURL, "http://") && !strings.HasPrefix(w.BaseURL, "https://") {
		return errors.NewConfigurationError("WEATHER_BASE_URL must start with http:// or https://", nil)
	}
	if w.ExpectedSource == "" {
		return errors.NewConfigurationError("WEATHER_EXPECTED_SOURCE cannot be empty", nil)
	}
	if w.Timeout <= 0 {
		return errors.NewConfigurationError("WEATHER_TIMEOUT must be positive", nil)
	}
	if w.CacheTTL <= 0 {
		return errors.NewConfigurationError("WEATHER_CACHE_TTL must be positive", nil)
	}
	return nil
}

// Validate checks location resolver configuration
func (l *LocationConfig) Validate() error {
	if l.CacheTTL <= 0 {
		return errors.NewConfigurationError("LOCATION_CACHE_TTL must be positive", nil)
	}
	if l.DeviceEnabled {
		if l.DeviceGatewayURL == "" {
			return errors.NewConfigurationError("LOCATION_DEVICE_GATEWAY_URL is required when the device source is enabled", nil)
		}
		if !strings.HasPrefix(l.DeviceGatewayURL, "http://") && !strings.HasPrefix(l.DeviceGatewayURL, "https://") {
			return errors.NewConfigurationError("LOCATION_DEVICE_GATEWAY_URL must start with http:// or https://", nil)
		}
	}
	return nil
}

// Validate checks cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case CacheTypeMemory:
		return nil
	case CacheTypeRedis:
		if c.RedisAddr == "" {
			return errors.NewConfigurationError("CACHE_REDIS_ADDR cannot be empty", nil)
		}
		return nil
	default:
		return errors.NewConfigurationError(
			fmt.Sprintf("CACHE_TYPE must be one of: %s, %s", CacheTypeMemory, CacheTypeRedis), nil)
	}
}
