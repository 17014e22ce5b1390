package cache

import (
	"fmt"

	"plantcare.app/config"
	"plantcare.app/errors"
)

// NewCacheFromConfig selects the weather cache backend from configuration
func NewCacheFromConfig(cfg *config.CacheConfig) (GenericCacheInterface, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("cache config cannot be nil", nil)
	}

	switch cfg.Type {
	case config.CacheTypeMemory:
		return NewMemoryCache(), nil
	case config.CacheTypeRedis:
		return NewRedisCache(&RedisCacheConfig{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
	default:
		return nil, errors.NewConfigurationError(
			fmt.Sprintf("unsupported cache type: %s", cfg.Type), nil)
	}
}
