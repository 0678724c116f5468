package services

import (
	"context"
	"errors"
	"time"

	"powcost/internal/backend"
	"powcost/internal/exchange"
	"powcost/internal/filemirror"
	"powcost/internal/logger"
	"powcost/internal/models"
	"powcost/internal/store"
	"powcost/internal/uuid"

	apperrors "powcost/internal/errors"
)

// storageService handles backend selection, mirroring and backups.
type storageService struct {
	store    *store.Store
	selector *backend.Selector
	now      func() time.Time
}

// NewStorageService creates a new StorageServicer. The returned value also
// satisfies Mirrorer and is what the catalog and project services notify.
func NewStorageService(s *store.Store, selector *backend.Selector) StorageServicer {
	return &storageService{store: s, selector: selector, now: time.Now}
}

// Status reports the active backend.
func (s *storageService) Status() backend.Status {
	return s.selector.Status()
}

// Initialize re-runs the capability probe. When the file backend becomes
// active its contents are loaded into the store.
func (s *storageService) Initialize(ctx context.Context) backend.Status {
	if s.selector.Probe(ctx) {
		if _, err := s.Load(); err != nil {
			logger.Get().Errorw("failed to load from file storage after initialization", "error", err)
		}
	}
	return s.selector.Status()
}

func (s *storageService) fileBackend() (backend.Backend, bool) {
	current := s.selector.Current()
	return current, current.Name() == backend.NameFileSystem
}

func (s *storageService) bundle(projectID string) *models.ProjectBundle {
	project := s.store.GetProject(projectID)
	if project == nil {
		return nil
	}
	return &models.ProjectBundle{
		Project:       *project,
		ProjectItems:  s.store.GetProjectItemsByProject(projectID),
		IndirectCosts: s.store.GetIndirectCostsByProject(projectID),
	}
}

// SyncProject mirrors one project to the file backend. Errors are logged but
// never propagate; the store already holds the change.
func (s *storageService) SyncProject(projectID string) {
	current, ok := s.fileBackend()
	if !ok {
		return
	}

	b := s.bundle(projectID)
	if b == nil {
		if err := current.DeleteProject(projectID); err != nil {
			logger.Get().Errorw("failed to remove project file", "error", err, "project_id", projectID)
		}
		return
	}
	if err := current.SaveProject(*b); err != nil {
		logger.Get().Errorw("failed to save project file", "error", err, "project_id", projectID)
	}
}

// SyncCatalog mirrors the catalog to the file backend. Errors are logged
// but never propagate.
func (s *storageService) SyncCatalog() {
	current, ok := s.fileBackend()
	if !ok {
		return
	}
	if err := current.SaveDatabase(s.store.GetItems()); err != nil {
		logger.Get().Errorw("failed to save catalog file", "error", err)
	}
}

// Load replaces the store's projects and catalog with what the file backend
// holds. An empty project tree or catalog leaves the store's copy in place.
func (s *storageService) Load() (*LoadResult, error) {
	current, ok := s.fileBackend()
	if ok {
		set, err := current.LoadAllProjects()
		if err != nil {
			return nil, loadError(err)
		}
		if len(set.Projects) > 0 {
			if err := s.store.ReplaceProjectSet(set); err != nil {
				return nil, storeError(err)
			}
		}

		items, err := current.LoadDatabase()
		if err != nil {
			return nil, loadError(err)
		}
		if len(items) > 0 {
			if err := s.store.SaveItems(items); err != nil {
				return nil, storeError(err)
			}
		}
	}

	return &LoadResult{
		Backend:  current.Name(),
		Projects: len(s.store.GetProjects()),
		Items:    len(s.store.GetItems()),
	}, nil
}

func loadError(err error) error {
	if errors.Is(err, filemirror.ErrNotInitialized) {
		return apperrors.Wrap(apperrors.ErrFileSystemUnavailable, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// ExportProject renders one project as a downloadable document.
func (s *storageService) ExportProject(projectID string) ([]byte, string, error) {
	b := s.bundle(projectID)
	if b == nil {
		return nil, "", apperrors.ErrProjectNotFound
	}
	data, name, err := s.selector.Current().ExportProject(*b)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, name, nil
}

// ImportProject adds or replaces a project from an exported document.
// Project item ids that collide with another project's items are reassigned.
func (s *storageService) ImportProject(data []byte) (*models.Project, error) {
	b, err := s.selector.Current().ImportProject(data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidImportFile, err)
	}

	now := s.now()
	if b.Project.ID == "" {
		b.Project.ID = uuid.New()
	}
	if b.Project.CreatedAt.IsZero() {
		b.Project.CreatedAt = now
	}
	b.Project.UpdatedAt = now
	b.LastModified = nil

	if err := s.store.ReplaceProjectBundle(b); err != nil {
		return nil, storeError(err)
	}
	s.SyncProject(b.Project.ID)
	return s.store.GetProject(b.Project.ID), nil
}

// ExportProjects renders every project with its items and markups.
func (s *storageService) ExportProjects() ([]byte, string, error) {
	data, err := exchange.EncodeProjectSet(s.store.ProjectSet())
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, exchange.ProjectSetExportName, nil
}

// ImportProjects replaces all projects with the ones in data. Item and
// markup lists missing from the document keep the store's current records
// for projects that survive the import.
func (s *storageService) ImportProjects(data []byte) (*LoadResult, error) {
	set, err := exchange.DecodeProjectSet(data)
	if err != nil {
		logger.Get().Warnw("failed to parse projects import", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInvalidImportFile, err)
	}

	previous := s.store.ProjectSet()
	if set.ProjectItems == nil {
		set.ProjectItems = previous.ProjectItems
	}
	if set.IndirectCosts == nil {
		set.IndirectCosts = previous.IndirectCosts
	}
	if err := s.store.ReplaceProjectSet(set); err != nil {
		return nil, storeError(err)
	}

	if _, ok := s.fileBackend(); ok {
		for _, p := range previous.Projects {
			if s.store.GetProject(p.ID) == nil {
				s.SyncProject(p.ID)
			}
		}
		for _, p := range set.Projects {
			s.SyncProject(p.ID)
		}
	}

	return &LoadResult{
		Backend:  s.selector.Current().Name(),
		Projects: len(set.Projects),
		Items:    len(s.store.GetItems()),
	}, nil
}

// CreateBackup writes a full-state backup through the active backend.
func (s *storageService) CreateBackup() (*backend.Backup, error) {
	b, err := s.selector.Current().CreateBackup()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageWrite, err)
	}
	return b, nil
}

// ListBackups returns the available backup labels, newest first.
func (s *storageService) ListBackups() ([]string, error) {
	labels, err := s.selector.Current().GetBackupList()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return labels, nil
}

// RestoreBackup restores the backup written on the given date.
func (s *storageService) RestoreBackup(label string) error {
	current, ok := s.fileBackend()
	if !ok {
		return apperrors.ErrFileSystemUnavailable
	}
	if !filemirror.ValidLabel(label) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "backup date must be YYYY-MM-DD")
	}

	restored, err := current.RestoreBackup(label)
	if err != nil {
		return storeError(err)
	}
	if !restored {
		return apperrors.ErrBackupNotFound
	}
	return nil
}

// RestoreFromData restores an uploaded full-state snapshot.
func (s *storageService) RestoreFromData(data []byte) error {
	restored, err := s.selector.Current().RestoreFromData(data)
	if err != nil {
		return storeError(err)
	}
	if !restored {
		return apperrors.ErrInvalidImportFile
	}
	return nil
}

// ResetData clears the catalog, every project and the settings in the store.
// Files already written by the file backend are kept.
func (s *storageService) ResetData() error {
	if err := s.store.Reset(); err != nil {
		return storeError(err)
	}
	logger.Get().Infow("local data reset", "backend", s.selector.Current().Name())
	return nil
}
