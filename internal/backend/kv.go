package backend

import (
	"time"

	"go.uber.org/zap"

	"powcost/internal/exchange"
	"powcost/internal/logger"
	"powcost/internal/models"
)

// StateStore is the part of the persistence store the key-value backend uses.
type StateStore interface {
	ProjectSet() models.ProjectSet
	ReplaceProjectBundle(bundle models.ProjectBundle) error
	DeleteProject(id string) (bool, error)
	GetItems() []models.Item
	SaveItems(items []models.Item) error
	Snapshot() models.Snapshot
	RestoreSnapshot(snap models.Snapshot) error
}

// KVBackend persists through the store alone. It has no backup directory:
// backups are handed back as downloadable snapshots and restore works only
// from an uploaded snapshot.
type KVBackend struct {
	store StateStore
	now   func() time.Time
	log   *zap.SugaredLogger
}

// NewKVBackend returns the fallback backend over s.
func NewKVBackend(s StateStore) *KVBackend {
	return &KVBackend{store: s, now: time.Now, log: logger.Named("backend.kv")}
}

// Name implements Backend.
func (b *KVBackend) Name() string { return NameKV }

// SaveProject implements Backend.
func (b *KVBackend) SaveProject(bundle models.ProjectBundle) error {
	return b.store.ReplaceProjectBundle(bundle)
}

// DeleteProject implements Backend.
func (b *KVBackend) DeleteProject(projectID string) error {
	_, err := b.store.DeleteProject(projectID)
	return err
}

// LoadAllProjects implements Backend.
func (b *KVBackend) LoadAllProjects() (models.ProjectSet, error) {
	return b.store.ProjectSet(), nil
}

// SaveDatabase implements Backend.
func (b *KVBackend) SaveDatabase(items []models.Item) error {
	return b.store.SaveItems(items)
}

// LoadDatabase implements Backend.
func (b *KVBackend) LoadDatabase() ([]models.Item, error) {
	return b.store.GetItems(), nil
}

// ExportProject implements Backend.
func (b *KVBackend) ExportProject(bundle models.ProjectBundle) ([]byte, string, error) {
	bundle.LastModified = nil
	data, err := exchange.EncodeProjectBundle(bundle)
	if err != nil {
		return nil, "", err
	}
	return data, exchange.ProjectExportName(bundle.Project), nil
}

// ImportProject implements Backend.
func (b *KVBackend) ImportProject(data []byte) (models.ProjectBundle, error) {
	bundle, err := exchange.DecodeProjectBundle(data)
	if err != nil {
		b.log.Warnw("failed to parse import file", "error", err)
		return models.ProjectBundle{}, err
	}
	return bundle, nil
}

// CreateBackup returns the full state as a downloadable snapshot.
func (b *KVBackend) CreateBackup() (*Backup, error) {
	now := b.now()
	snap := b.store.Snapshot()
	snap.Timestamp = now.UTC()
	data, err := exchange.EncodeSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return &Backup{FileName: exchange.BackupDownloadName(now), Data: data}, nil
}

// GetBackupList is always empty.
func (b *KVBackend) GetBackupList() ([]string, error) {
	return []string{}, nil
}

// RestoreBackup always fails; there are no stored backups to restore by date.
func (b *KVBackend) RestoreBackup(string) (bool, error) {
	return false, nil
}

// RestoreFromData implements Backend.
func (b *KVBackend) RestoreFromData(data []byte) (bool, error) {
	snap, ok := decodeUpload(data)
	if !ok {
		return false, nil
	}
	if err := b.store.RestoreSnapshot(snap); err != nil {
		return false, err
	}
	return true, nil
}

func decodeUpload(data []byte) (models.Snapshot, bool) {
	snap, err := exchange.DecodeSnapshot(data)
	if err != nil {
		logger.Named("backend").Warnw("failed to parse backup upload", "error", err)
		return models.Snapshot{}, false
	}
	return snap, true
}
