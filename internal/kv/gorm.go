package kv

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"powcost/internal/models"
)

// GormMedium stores entries as rows of the kv_entries table.
type GormMedium struct {
	db      *gorm.DB
	onClose func() error
}

// GormOption configures a GormMedium.
type GormOption func(*GormMedium)

// WithCloser runs fn when the medium is closed, typically to release the
// connection pool that owns db.
func WithCloser(fn func() error) GormOption {
	return func(m *GormMedium) { m.onClose = fn }
}

// NewGormMedium returns a medium over db. The kv_entries table must exist.
func NewGormMedium(db *gorm.DB, opts ...GormOption) *GormMedium {
	m := &GormMedium{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the stored value for key.
func (m *GormMedium) Get(key string) ([]byte, error) {
	var entry models.KVEntry
	if err := m.db.Where("storage_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("reading key %q: %w", key, err)
	}
	return []byte(entry.Payload), nil
}

// Set inserts or replaces the value for key.
func (m *GormMedium) Set(key string, value []byte) error {
	entry := models.KVEntry{
		Key:       key,
		Payload:   datatypes.JSON(value),
		UpdatedAt: time.Now(),
	}
	err := m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *GormMedium) Delete(key string) error {
	if err := m.db.Where("storage_key = ?", key).Delete(&models.KVEntry{}).Error; err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

// Usage sums key and payload sizes across all rows.
func (m *GormMedium) Usage() (int64, error) {
	var entries []models.KVEntry
	if err := m.db.Select("storage_key", "payload").Find(&entries).Error; err != nil {
		return 0, fmt.Errorf("measuring usage: %w", err)
	}
	var total int64
	for _, e := range entries {
		total += int64(len(e.Key) + len(e.Payload))
	}
	return total, nil
}

// Close runs the closer given with WithCloser, if any.
func (m *GormMedium) Close() error {
	if m.onClose == nil {
		return nil
	}
	return m.onClose()
}
