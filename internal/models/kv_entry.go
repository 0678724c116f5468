package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one row of the SQL-backed key-value medium.
type KVEntry struct {
	Key       string         `gorm:"column:storage_key;primaryKey;size:191"`
	Payload   datatypes.JSON `gorm:"column:payload"`
	UpdatedAt time.Time
}

// TableName returns the table name for KVEntry
func (KVEntry) TableName() string {
	return "kv_entries"
}
