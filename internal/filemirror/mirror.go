// Package filemirror keeps projects, the catalog and dated backups as JSON
// files under a user-chosen directory:
//
//	Projects/project_{id}.json
//	Database/cost_items.json
//	Backups/{YYYY-MM-DD}/backup_{epoch-ms}.json
package filemirror

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"powcost/internal/exchange"
	"powcost/internal/logger"
	"powcost/internal/models"
)

// Directory layout.
const (
	ProjectsDir = "Projects"
	DatabaseDir = "Database"
	BackupsDir  = "Backups"
	CatalogFile = "cost_items.json"
)

var (
	// ErrNotInitialized is returned by tree operations before a successful
	// Initialize.
	ErrNotInitialized = errors.New("filemirror: not initialized")
	// ErrAccessDenied is returned by a DirectoryPicker that cannot provide a
	// directory.
	ErrAccessDenied = errors.New("filemirror: directory access denied")
)

// DirectoryPicker acquires the root directory, possibly asking the user.
type DirectoryPicker interface {
	PickDirectory(ctx context.Context) (string, error)
}

// StaticDirectory is a DirectoryPicker that always answers with one path.
// The empty path means no directory is available.
type StaticDirectory string

// PickDirectory implements DirectoryPicker.
func (d StaticDirectory) PickDirectory(context.Context) (string, error) {
	if d == "" {
		return "", ErrAccessDenied
	}
	return string(d), nil
}

// StateSource supplies and accepts full-state snapshots for backup and restore.
type StateSource interface {
	Snapshot() models.Snapshot
	RestoreSnapshot(snap models.Snapshot) error
}

// Mirror is the file-tree backend.
type Mirror struct {
	base   afero.Fs
	picker DirectoryPicker
	state  StateSource
	now    func() time.Time
	log    *zap.SugaredLogger

	mu      sync.RWMutex
	root    afero.Fs
	rootDir string
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithClock overrides the time source used for file names and mtimes.
func WithClock(now func() time.Time) Option {
	return func(m *Mirror) { m.now = now }
}

// New returns an uninitialized mirror over fs.
func New(fs afero.Fs, picker DirectoryPicker, state StateSource, opts ...Option) *Mirror {
	m := &Mirror{
		base:   fs,
		picker: picker,
		state:  state,
		now:    time.Now,
		log:    logger.Named("filemirror"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize acquires the root directory and creates the three
// subdirectories. It returns false, without error, when no directory is
// available or it is not writable.
func (m *Mirror) Initialize(ctx context.Context) bool {
	dir, err := m.picker.PickDirectory(ctx)
	if err != nil {
		m.log.Warnw("file system access unavailable", "error", err)
		return false
	}

	root := afero.NewBasePathFs(m.base, dir)
	for _, sub := range []string{ProjectsDir, DatabaseDir, BackupsDir} {
		if err := root.MkdirAll(sub, 0o755); err != nil {
			m.log.Warnw("failed to create directory", "dir", dir, "sub", sub, "error", err)
			return false
		}
	}
	probe := path.Join(ProjectsDir, ".probe")
	if err := afero.WriteFile(root, probe, nil, 0o644); err != nil {
		m.log.Warnw("directory is not writable", "dir", dir, "error", err)
		return false
	}
	_ = root.Remove(probe)

	m.mu.Lock()
	m.root = root
	m.rootDir = dir
	m.mu.Unlock()

	m.log.Infow("file system storage enabled", "dir", dir)
	return true
}

// Enabled reports whether Initialize has succeeded.
func (m *Mirror) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root != nil
}

// RootDir returns the acquired directory, or "".
func (m *Mirror) RootDir() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rootDir
}

func (m *Mirror) fs() (afero.Fs, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.root == nil {
		return nil, ErrNotInitialized
	}
	return m.root, nil
}

// writeFile writes data and stamps the file with the mirror's clock.
func (m *Mirror) writeFile(fs afero.Fs, name string, data []byte) error {
	if err := afero.WriteFile(fs, name, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	now := m.now()
	if err := fs.Chtimes(name, now, now); err != nil {
		m.log.Warnw("failed to set modification time", "file", name, "error", err)
	}
	return nil
}

// ProjectFile returns the tree path of a project's file.
func ProjectFile(projectID string) string {
	return path.Join(ProjectsDir, "project_"+projectID+".json")
}

// SaveProject writes one project file, stamping lastModified.
func (m *Mirror) SaveProject(bundle models.ProjectBundle) error {
	fs, err := m.fs()
	if err != nil {
		return err
	}
	now := m.now().UTC()
	bundle.LastModified = &now

	data, err := exchange.EncodeProjectBundle(bundle)
	if err != nil {
		return err
	}
	if err := m.writeFile(fs, ProjectFile(bundle.Project.ID), data); err != nil {
		m.log.Errorw("failed to save project", "project_id", bundle.Project.ID, "error", err)
		return err
	}
	return nil
}

// DeleteProject removes a project's file. A missing file is not an error.
func (m *Mirror) DeleteProject(projectID string) error {
	fs, err := m.fs()
	if err != nil {
		return err
	}
	if err := fs.Remove(ProjectFile(projectID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing project %s: %w", projectID, err)
	}
	return nil
}

// LoadAllProjects decodes every project file. Files that fail to decode are
// logged and skipped.
func (m *Mirror) LoadAllProjects() (models.ProjectSet, error) {
	set := models.ProjectSet{
		Projects:      []models.Project{},
		ProjectItems:  []models.ProjectItem{},
		IndirectCosts: []models.IndirectCosts{},
	}
	fs, err := m.fs()
	if err != nil {
		return set, err
	}

	entries, err := afero.ReadDir(fs, ProjectsDir)
	if err != nil {
		m.log.Errorw("failed to list projects", "error", err)
		return set, nil
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := path.Join(ProjectsDir, entry.Name())
		data, err := afero.ReadFile(fs, name)
		if err != nil {
			m.log.Errorw("failed to read project file", "file", name, "error", err)
			continue
		}
		bundle, err := exchange.DecodeProjectBundle(data)
		if err != nil {
			m.log.Errorw("failed to decode project file", "file", name, "error", err)
			continue
		}
		set.Projects = append(set.Projects, bundle.Project)
		set.ProjectItems = append(set.ProjectItems, bundle.ProjectItems...)
		if bundle.IndirectCosts != nil {
			set.IndirectCosts = append(set.IndirectCosts, *bundle.IndirectCosts)
		}
	}
	return set, nil
}

// SaveDatabase writes the whole catalog.
func (m *Mirror) SaveDatabase(items []models.Item) error {
	fs, err := m.fs()
	if err != nil {
		return err
	}
	data, err := exchange.EncodeCatalog(items)
	if err != nil {
		return err
	}
	if err := m.writeFile(fs, path.Join(DatabaseDir, CatalogFile), data); err != nil {
		m.log.Errorw("failed to save catalog", "error", err)
		return err
	}
	return nil
}

// LoadDatabase reads the catalog. A missing or undecodable file reads as an
// empty catalog.
func (m *Mirror) LoadDatabase() ([]models.Item, error) {
	fs, err := m.fs()
	if err != nil {
		return []models.Item{}, err
	}
	data, err := afero.ReadFile(fs, path.Join(DatabaseDir, CatalogFile))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			m.log.Errorw("failed to read catalog", "error", err)
		}
		return []models.Item{}, nil
	}
	items, err := exchange.DecodeCatalog(data)
	if err != nil {
		m.log.Errorw("failed to decode catalog", "error", err)
		return []models.Item{}, nil
	}
	return items, nil
}

// ExportProject renders a project document and its download name. It does
// not touch the tree.
func (m *Mirror) ExportProject(bundle models.ProjectBundle) ([]byte, string, error) {
	bundle.LastModified = nil
	data, err := exchange.EncodeProjectBundle(bundle)
	if err != nil {
		return nil, "", err
	}
	return data, exchange.ProjectExportName(bundle.Project), nil
}

// ImportProject parses an uploaded project document. It does not touch the
// tree.
func (m *Mirror) ImportProject(data []byte) (models.ProjectBundle, error) {
	bundle, err := exchange.DecodeProjectBundle(data)
	if err != nil {
		m.log.Warnw("failed to parse import file", "error", err)
		return models.ProjectBundle{}, err
	}
	return bundle, nil
}

// BackupFile returns the tree path of a backup taken at t.
func BackupFile(t time.Time) string {
	return path.Join(BackupsDir, exchange.DateLabel(t), "backup_"+strconv.FormatInt(t.UnixMilli(), 10)+".json")
}

// CreateBackup writes a full-state snapshot under today's backup directory
// and returns its tree path.
func (m *Mirror) CreateBackup() (string, error) {
	fs, err := m.fs()
	if err != nil {
		return "", err
	}
	now := m.now()
	snap := m.state.Snapshot()
	snap.Timestamp = now.UTC()

	data, err := exchange.EncodeSnapshot(snap)
	if err != nil {
		return "", err
	}
	name := BackupFile(now)
	if err := fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}
	if err := m.writeFile(fs, name, data); err != nil {
		m.log.Errorw("failed to create backup", "file", name, "error", err)
		return "", err
	}
	m.log.Infow("backup created", "file", name)
	return name, nil
}

// GetBackupList returns the backup date labels, most recent first. It is
// empty before Initialize.
func (m *Mirror) GetBackupList() ([]string, error) {
	labels := []string{}
	fs, err := m.fs()
	if err != nil {
		return labels, nil
	}
	entries, err := afero.ReadDir(fs, BackupsDir)
	if err != nil {
		m.log.Errorw("failed to list backups", "error", err)
		return labels, nil
	}
	for _, entry := range entries {
		if entry.IsDir() {
			labels = append(labels, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(labels)))
	return labels, nil
}

// ValidLabel reports whether label is an ISO calendar date.
func ValidLabel(label string) bool {
	_, err := time.Parse("2006-01-02", label)
	return err == nil
}

// latestBackup returns the most recently modified .json file in dir.
func latestBackup(fs afero.Fs, dir string) (string, bool) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", false
	}
	var latest os.FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if latest == nil || entry.ModTime().After(latest.ModTime()) {
			latest = entry
		}
	}
	if latest == nil {
		return "", false
	}
	return path.Join(dir, latest.Name()), true
}

// RestoreBackup restores the most recently modified snapshot of the given
// date. It returns false when the label is not a date, the directory has no
// backup files, or the chosen file cannot be decoded. On success the store
// and both trees are overwritten with the snapshot's contents.
func (m *Mirror) RestoreBackup(label string) (bool, error) {
	fs, err := m.fs()
	if err != nil {
		return false, nil
	}
	if !ValidLabel(label) {
		m.log.Warnw("invalid backup label", "label", label)
		return false, nil
	}

	name, ok := latestBackup(fs, path.Join(BackupsDir, label))
	if !ok {
		return false, nil
	}
	data, err := afero.ReadFile(fs, name)
	if err != nil {
		m.log.Errorw("failed to read backup", "file", name, "error", err)
		return false, nil
	}
	snap, err := exchange.DecodeSnapshot(data)
	if err != nil {
		m.log.Errorw("failed to decode backup", "file", name, "error", err)
		return false, nil
	}

	if err := m.ApplySnapshot(snap); err != nil {
		return false, err
	}
	m.log.Infow("backup restored", "file", name)
	return true, nil
}

// ApplySnapshot writes snap into the store and rewrites the trees to match.
func (m *Mirror) ApplySnapshot(snap models.Snapshot) error {
	if err := m.state.RestoreSnapshot(snap); err != nil {
		return err
	}
	if snap.Projects != nil {
		if err := m.rewriteProjects(snap.ProjectSet()); err != nil {
			return err
		}
	}
	if snap.Items != nil {
		if err := m.SaveDatabase(snap.Items); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mirror) rewriteProjects(set models.ProjectSet) error {
	fs, err := m.fs()
	if err != nil {
		return err
	}
	keep := make(map[string]bool, len(set.Projects))
	for _, bundle := range set.Bundles() {
		if err := m.SaveProject(bundle); err != nil {
			return err
		}
		keep[path.Base(ProjectFile(bundle.Project.ID))] = true
	}

	entries, err := afero.ReadDir(fs, ProjectsDir)
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || keep[entry.Name()] || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := fs.Remove(path.Join(ProjectsDir, entry.Name())); err != nil {
			m.log.Warnw("failed to remove stale project file", "file", entry.Name(), "error", err)
		}
	}
	return nil
}
