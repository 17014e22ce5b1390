// Package repository implements the local persistent key-value store
package repository

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"plantcare.app/models"
)

// Store keys used by the location resolver
const (
	KeyLastLocation = "location:last"
	KeyUserProfile  = "profile:user"
	KeyUserEmail    = "profile:email"
)

// StoreRepository handles data access for the local key-value store
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a new repository backed by the given database
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Get retrieves the value stored under key. The second return value reports
// whether the key was present.
func (r *StoreRepository) Get(key string) (string, bool, error) {
	var entry models.KeyValue
	result := r.db.Where("key = ?", key).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		slog.Error("store read failed", "key", key, "error", result.Error)
		return "", false, result.Error
	}

	return entry.Value, true, nil
}

// Set stores value under key, overwriting any previous value
func (r *StoreRepository) Set(key, value string) error {
	entry := models.KeyValue{Key: key, Value: value}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry)
	if result.Error != nil {
		slog.Error("store write failed", "key", key, "error", result.Error)
		return result.Error
	}

	return nil
}

// Delete removes the value stored under key, if any
func (r *StoreRepository) Delete(key string) error {
	result := r.db.Where("key = ?", key).Delete(&models.KeyValue{})
	if result.Error != nil {
		slog.Error("store delete failed", "key", key, "error", result.Error)
		return result.Error
	}

	return nil
}

// Ping verifies the underlying database connection is alive
func (r *StoreRepository) Ping() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
