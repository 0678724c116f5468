package services

import (
	"context"

	"powcost/internal/backend"
	"powcost/internal/estimate"
	"powcost/internal/exchange"
	"powcost/internal/models"
	"powcost/internal/pagination"
)

// ItemFilter holds optional filter parameters for listing catalog items.
type ItemFilter struct {
	Category string
	CostType *models.CostType
	// Search matches item number or description, case-insensitively.
	Search string
}

// ImportResult reports the outcome of a catalog import.
type ImportResult struct {
	Imported int  `json:"imported"`
	Replaced bool `json:"replaced"`
}

// SeedResult reports what sample-data seeding added.
type SeedResult struct {
	ItemsAdded int             `json:"items_added"`
	Project    *models.Project `json:"project,omitempty"`
}

// CatalogServicer defines the contract for catalog business logic.
type CatalogServicer interface {
	ListItems(filter ItemFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Item], error)
	GetItem(id int) (*models.Item, error)
	CreateItem(input models.NewItem) (*models.Item, error)
	UpdateItem(id int, patch models.ItemPatch) (*models.Item, error)
	DeleteItem(id int) error
	ExportCSV() ([]byte, string, error)
	ImportCSV(data []byte, replace bool) (*ImportResult, error)
	SeedSampleData() (*SeedResult, error)
}

// ProjectServicer defines the contract for project business logic.
type ProjectServicer interface {
	ListProjects(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProject(id string) (*models.Project, error)
	CreateProject(input models.NewProject) (*models.Project, error)
	UpdateProject(id string, patch models.ProjectPatch) (*models.Project, error)
	DeleteProject(id string) error
	DuplicateProject(id string) (*models.Project, error)

	GetProjectItems(projectID string) ([]models.ProjectItem, error)
	AddItemToProject(projectID string, itemID int, quantity float64) (*models.ProjectItem, error)
	UpdateProjectItem(projectID string, projectItemID int, patch models.ProjectItemPatch) (*models.ProjectItem, error)
	RemoveProjectItem(projectID string, projectItemID int) error

	GetIndirectCosts(projectID string) (*models.IndirectCosts, error)
	SetIndirectCosts(projectID string, rates models.IndirectRates) (*models.IndirectCosts, error)

	GetSummary(projectID string) (*estimate.Summary, error)
	BuildWorkbook(projectID string) (*exchange.Workbook, error)
	GetBundle(projectID string) (*models.ProjectBundle, error)
}

// LoadResult reports what was loaded from the active backend.
type LoadResult struct {
	Backend  string `json:"backend"`
	Projects int    `json:"projects"`
	Items    int    `json:"items"`
}

// StorageServicer defines the contract for backend selection, write-through
// mirroring, import/export and backups.
type StorageServicer interface {
	Status() backend.Status
	Initialize(ctx context.Context) backend.Status
	// SyncProject writes the project's current state to the active backend,
	// or removes it there if it no longer exists. Failures are logged only.
	SyncProject(projectID string)
	// SyncCatalog writes the catalog to the active backend. Failures are
	// logged only.
	SyncCatalog()
	Load() (*LoadResult, error)

	ExportProject(projectID string) ([]byte, string, error)
	ImportProject(data []byte) (*models.Project, error)
	ExportProjects() ([]byte, string, error)
	ImportProjects(data []byte) (*LoadResult, error)

	CreateBackup() (*backend.Backup, error)
	ListBackups() ([]string, error)
	RestoreBackup(label string) error
	RestoreFromData(data []byte) error
	ResetData() error
}

// SettingsServicer defines the contract for application settings.
type SettingsServicer interface {
	GetSettings() models.AppSettings
	UpdateSettings(patch models.SettingsPatch) (models.AppSettings, error)
	ResetSettings() (models.AppSettings, error)
	ExportSettings() ([]byte, string, error)
	ImportSettings(data []byte) (models.AppSettings, error)
}

// RemoteStatus describes the hosted-store connection.
type RemoteStatus struct {
	Configured bool   `json:"configured"`
	URL        string `json:"url,omitempty"`
}

// PushResult counts rows written to the hosted store.
type PushResult struct {
	Items         int `json:"items"`
	Projects      int `json:"projects"`
	ProjectItems  int `json:"project_items"`
	IndirectCosts int `json:"indirect_costs"`
	// Deleted counts remote records removed because they no longer exist
	// locally.
	Deleted int `json:"deleted"`
}

// SyncServicer defines the contract for the optional hosted store.
type SyncServicer interface {
	Status() RemoteStatus
	TestConnection(ctx context.Context) error
	PushAll(ctx context.Context) (*PushResult, error)
	PullCatalog(ctx context.Context) (*ImportResult, error)
	PullProjects(ctx context.Context) (*LoadResult, error)
}

// Mirrorer receives write-through notifications after the store changes.
// Implementations log failures rather than returning them.
type Mirrorer interface {
	SyncProject(projectID string)
	SyncCatalog()
}

type noopMirror struct{}

func (noopMirror) SyncProject(string) {}
func (noopMirror) SyncCatalog()       {}
