package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/neuink/internal/interfaces"
	"github.com/ternarybob/neuink/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SettingsStorage implements the SettingsStorage interface for Badger
type SettingsStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSettingsStorage creates a new SettingsStorage instance
func NewSettingsStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SettingsStorage {
	return &SettingsStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeKey converts a key to lowercase for case-insensitive storage
func (s *SettingsStorage) normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Get retrieves a setting by key (case-insensitive)
func (s *SettingsStorage) Get(ctx context.Context, key string) (*models.Setting, error) {
	normalizedKey := s.normalizeKey(key)
	var setting models.Setting
	err := s.db.Store().Get(normalizedKey, &setting)
	if err == badgerhold.ErrNotFound {
		return nil, fmt.Errorf("setting %q: %w", key, interfaces.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return &setting, nil
}

// Set inserts or updates a setting (case-insensitive)
func (s *SettingsStorage) Set(ctx context.Context, setting *models.Setting) error {
	if setting.Key == "" {
		return fmt.Errorf("setting key is required")
	}

	setting.Key = s.normalizeKey(setting.Key)
	setting.UpdatedAt = time.Now()

	if err := s.db.Store().Upsert(setting.Key, setting); err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

// GetAll returns all settings ordered by key
func (s *SettingsStorage) GetAll(ctx context.Context) ([]*models.Setting, error) {
	var settings []models.Setting
	if err := s.db.Store().Find(&settings, badgerhold.Where("Key").Ne("").SortBy("Key")); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	result := make([]*models.Setting, len(settings))
	for i := range settings {
		result[i] = &settings[i]
	}
	return result, nil
}

// Delete removes a setting (case-insensitive)
func (s *SettingsStorage) Delete(ctx context.Context, key string) error {
	normalizedKey := s.normalizeKey(key)
	err := s.db.Store().Delete(normalizedKey, &models.Setting{})
	if err == badgerhold.ErrNotFound {
		return fmt.Errorf("setting %q: %w", key, interfaces.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	return nil
}
