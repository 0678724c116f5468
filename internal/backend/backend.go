// Package backend selects where projects, the catalog and backups are
// persisted: the user's directory when it is available, otherwise the
// key-value store alone.
package backend

import (
	"context"
	"path"
	"sync"

	"go.uber.org/zap"

	"powcost/internal/filemirror"
	"powcost/internal/logger"
	"powcost/internal/models"
)

// Backend names.
const (
	NameFileSystem = "filesystem"
	NameKV         = "kv"
)

// Backup describes a created backup. File backends fill Location; the
// key-value backend returns the snapshot itself for download.
type Backup struct {
	Location string `json:"location,omitempty"`
	FileName string `json:"file_name"`
	Data     []byte `json:"-"`
}

// Backend is the persistence contract shared by both implementations.
type Backend interface {
	Name() string
	SaveProject(bundle models.ProjectBundle) error
	DeleteProject(projectID string) error
	LoadAllProjects() (models.ProjectSet, error)
	SaveDatabase(items []models.Item) error
	LoadDatabase() ([]models.Item, error)
	ExportProject(bundle models.ProjectBundle) ([]byte, string, error)
	ImportProject(data []byte) (models.ProjectBundle, error)
	CreateBackup() (*Backup, error)
	GetBackupList() ([]string, error)
	RestoreBackup(label string) (bool, error)
	// RestoreFromData restores an uploaded full-state snapshot.
	RestoreFromData(data []byte) (bool, error)
}

// FileBackend adapts a file mirror to Backend.
type FileBackend struct {
	*filemirror.Mirror
}

// NewFileBackend wraps an initialized mirror.
func NewFileBackend(m *filemirror.Mirror) *FileBackend {
	return &FileBackend{Mirror: m}
}

// Name implements Backend.
func (b *FileBackend) Name() string { return NameFileSystem }

// CreateBackup implements Backend.
func (b *FileBackend) CreateBackup() (*Backup, error) {
	location, err := b.Mirror.CreateBackup()
	if err != nil {
		return nil, err
	}
	return &Backup{Location: location, FileName: path.Base(location)}, nil
}

// RestoreFromData implements Backend.
func (b *FileBackend) RestoreFromData(data []byte) (bool, error) {
	snap, ok := decodeUpload(data)
	if !ok {
		return false, nil
	}
	if err := b.Mirror.ApplySnapshot(snap); err != nil {
		return false, err
	}
	return true, nil
}

// Selector holds the active backend and can re-run the capability probe.
type Selector struct {
	mirror   *filemirror.Mirror
	fallback Backend
	log      *zap.SugaredLogger

	mu      sync.RWMutex
	current Backend
}

// NewSelector starts on the fallback; call Probe to try the mirror.
func NewSelector(mirror *filemirror.Mirror, fallback Backend) *Selector {
	return &Selector{
		mirror:   mirror,
		fallback: fallback,
		log:      logger.Named("backend"),
		current:  fallback,
	}
}

// Select runs the probe once and returns the resulting backend.
func Select(ctx context.Context, mirror *filemirror.Mirror, fallback Backend) Backend {
	s := NewSelector(mirror, fallback)
	s.Probe(ctx)
	return s.Current()
}

// Probe tries to initialize the mirror and switches to it on success. On
// failure the fallback becomes active. It reports whether the file backend
// is active.
func (s *Selector) Probe(ctx context.Context) bool {
	var next Backend = s.fallback
	if s.mirror != nil && s.mirror.Initialize(ctx) {
		next = NewFileBackend(s.mirror)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()

	s.log.Infow("storage backend selected", "backend", next.Name())
	return next.Name() == NameFileSystem
}

// Current returns the active backend.
func (s *Selector) Current() Backend {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Status describes the active backend.
type Status struct {
	Backend           string `json:"backend"`
	FileSystemEnabled bool   `json:"file_system_enabled"`
	Directory         string `json:"directory,omitempty"`
}

// Status reports the active backend and, for the file backend, its root.
func (s *Selector) Status() Status {
	current := s.Current()
	st := Status{Backend: current.Name()}
	if fb, ok := current.(*FileBackend); ok {
		st.FileSystemEnabled = true
		st.Directory = fb.RootDir()
	}
	return st
}

var (
	_ Backend = (*FileBackend)(nil)
	_ Backend = (*KVBackend)(nil)
)
