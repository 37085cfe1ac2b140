package store

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/karloscodes/cartridge/cache"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

const settingsCacheTTL = 5 * time.Minute

// Setting is a persisted key-value row.
type Setting struct {
	ID        uint      `gorm:"primaryKey"`
	Key       string    `gorm:"uniqueIndex;not null"`
	Value     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:milli"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:milli"`
}

type cachedSetting struct {
	value string
	found bool
}

// SettingsStore keeps values in the settings table. Reads go through a
// TTL cache that every write updates after its transaction commits.
type SettingsStore struct {
	db     *gorm.DB
	logger *slog.Logger
	cache  *cache.Cache[string, cachedSetting]
}

var _ Store = (*SettingsStore)(nil)

func NewSettingsStore(db *gorm.DB, logger *slog.Logger) *SettingsStore {
	s := &SettingsStore{db: db, logger: logger}
	s.cache = cache.NewCache[string, cachedSetting](logger, settingsCacheTTL, s.fetch)
	return s
}

func (s *SettingsStore) Load(key string) (string, bool, error) {
	entry, err := s.cache.Get(key)
	if err != nil {
		return "", false, err
	}
	return entry.value, entry.found, nil
}

func (s *SettingsStore) fetch(key string) (cachedSetting, error) {
	var setting Setting
	err := s.db.Where("key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cachedSetting{}, nil
	}
	if err != nil {
		return cachedSetting{}, fmt.Errorf("failed to load setting %s: %w", key, err)
	}
	return cachedSetting{value: setting.Value, found: true}, nil
}

// Save inserts the value or overwrites the existing one.
func (s *SettingsStore) Save(key, value string) error {
	return s.SaveAll(map[string]string{key: value})
}

// SaveAll upserts every value in a single transaction.
func (s *SettingsStore) SaveAll(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	err := sqlite.PerformWrite(s.logger, s.db, func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, key := range keys {
			err := tx.Exec(`
				INSERT INTO settings (key, value, created_at, updated_at)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
			`, key, values[key], now, now).Error
			if err != nil {
				s.logger.Error("Failed to upsert setting", slog.String("key", key), slog.Any("error", err))
				return fmt.Errorf("failed to upsert setting %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		for _, key := range keys {
			s.cache.Remove(key)
		}
		return err
	}

	for _, key := range keys {
		s.cache.Set(key, cachedSetting{value: values[key], found: true})
	}
	return nil
}

// Clear removes the given keys. Missing keys are not an error.
func (s *SettingsStore) Clear(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	err := sqlite.PerformWrite(s.logger, s.db, func(tx *gorm.DB) error {
		if err := tx.Where("key IN ?", keys).Delete(&Setting{}).Error; err != nil {
			s.logger.Error("Failed to clear settings", slog.Any("keys", keys), slog.Any("error", err))
			return fmt.Errorf("failed to clear settings: %w", err)
		}
		return nil
	})
	for _, key := range keys {
		s.cache.Remove(key)
	}
	return err
}
