package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"powcost/internal/backend"
	"powcost/internal/estimate"
	"powcost/internal/exchange"
	"powcost/internal/models"
	"powcost/internal/pagination"
	"powcost/internal/services"
	"powcost/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return doRawRequest(r, method, path, "application/json", strings.NewReader(body))
}

func doRawRequest(r *gin.Engine, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- mock catalog service ---

type mockCatalogService struct {
	listItemsFn      func(filter services.ItemFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Item], error)
	getItemFn        func(id int) (*models.Item, error)
	createItemFn     func(input models.NewItem) (*models.Item, error)
	updateItemFn     func(id int, patch models.ItemPatch) (*models.Item, error)
	deleteItemFn     func(id int) error
	exportCSVFn      func() ([]byte, string, error)
	importCSVFn      func(data []byte, replace bool) (*services.ImportResult, error)
	seedSampleDataFn func() (*services.SeedResult, error)
}

func (m *mockCatalogService) ListItems(filter services.ItemFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Item], error) {
	if m.listItemsFn != nil {
		return m.listItemsFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.Item{}, 1, 50, 0)
	return &resp, nil
}

func (m *mockCatalogService) GetItem(id int) (*models.Item, error) {
	if m.getItemFn != nil {
		return m.getItemFn(id)
	}
	return &models.Item{ID: id}, nil
}

func (m *mockCatalogService) CreateItem(input models.NewItem) (*models.Item, error) {
	if m.createItemFn != nil {
		return m.createItemFn(input)
	}
	return &models.Item{}, nil
}

func (m *mockCatalogService) UpdateItem(id int, patch models.ItemPatch) (*models.Item, error) {
	if m.updateItemFn != nil {
		return m.updateItemFn(id, patch)
	}
	return &models.Item{ID: id}, nil
}

func (m *mockCatalogService) DeleteItem(id int) error {
	if m.deleteItemFn != nil {
		return m.deleteItemFn(id)
	}
	return nil
}

func (m *mockCatalogService) ExportCSV() ([]byte, string, error) {
	if m.exportCSVFn != nil {
		return m.exportCSVFn()
	}
	return []byte{}, "cost_database.csv", nil
}

func (m *mockCatalogService) ImportCSV(data []byte, replace bool) (*services.ImportResult, error) {
	if m.importCSVFn != nil {
		return m.importCSVFn(data, replace)
	}
	return &services.ImportResult{}, nil
}

func (m *mockCatalogService) SeedSampleData() (*services.SeedResult, error) {
	if m.seedSampleDataFn != nil {
		return m.seedSampleDataFn()
	}
	return &services.SeedResult{}, nil
}

var _ services.CatalogServicer = (*mockCatalogService)(nil)

// --- mock project service ---

type mockProjectService struct {
	listProjectsFn      func(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	getProjectFn        func(id string) (*models.Project, error)
	createProjectFn     func(input models.NewProject) (*models.Project, error)
	updateProjectFn     func(id string, patch models.ProjectPatch) (*models.Project, error)
	deleteProjectFn     func(id string) error
	duplicateProjectFn  func(id string) (*models.Project, error)
	getProjectItemsFn   func(projectID string) ([]models.ProjectItem, error)
	addItemToProjectFn  func(projectID string, itemID int, quantity float64) (*models.ProjectItem, error)
	updateProjectItemFn func(projectID string, projectItemID int, patch models.ProjectItemPatch) (*models.ProjectItem, error)
	removeProjectItemFn func(projectID string, projectItemID int) error
	getIndirectCostsFn  func(projectID string) (*models.IndirectCosts, error)
	setIndirectCostsFn  func(projectID string, rates models.IndirectRates) (*models.IndirectCosts, error)
	getSummaryFn        func(projectID string) (*estimate.Summary, error)
	buildWorkbookFn     func(projectID string) (*exchange.Workbook, error)
	getBundleFn         func(projectID string) (*models.ProjectBundle, error)
}

func (m *mockProjectService) ListProjects(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	if m.listProjectsFn != nil {
		return m.listProjectsFn(page)
	}
	resp := pagination.NewPageResponse([]models.Project{}, 1, 50, 0)
	return &resp, nil
}

func (m *mockProjectService) GetProject(id string) (*models.Project, error) {
	if m.getProjectFn != nil {
		return m.getProjectFn(id)
	}
	return &models.Project{ID: id}, nil
}

func (m *mockProjectService) CreateProject(input models.NewProject) (*models.Project, error) {
	if m.createProjectFn != nil {
		return m.createProjectFn(input)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) UpdateProject(id string, patch models.ProjectPatch) (*models.Project, error) {
	if m.updateProjectFn != nil {
		return m.updateProjectFn(id, patch)
	}
	return &models.Project{ID: id}, nil
}

func (m *mockProjectService) DeleteProject(id string) error {
	if m.deleteProjectFn != nil {
		return m.deleteProjectFn(id)
	}
	return nil
}

func (m *mockProjectService) DuplicateProject(id string) (*models.Project, error) {
	if m.duplicateProjectFn != nil {
		return m.duplicateProjectFn(id)
	}
	return &models.Project{ID: "copy"}, nil
}

func (m *mockProjectService) GetProjectItems(projectID string) ([]models.ProjectItem, error) {
	if m.getProjectItemsFn != nil {
		return m.getProjectItemsFn(projectID)
	}
	return []models.ProjectItem{}, nil
}

func (m *mockProjectService) AddItemToProject(projectID string, itemID int, quantity float64) (*models.ProjectItem, error) {
	if m.addItemToProjectFn != nil {
		return m.addItemToProjectFn(projectID, itemID, quantity)
	}
	return &models.ProjectItem{}, nil
}

func (m *mockProjectService) UpdateProjectItem(projectID string, projectItemID int, patch models.ProjectItemPatch) (*models.ProjectItem, error) {
	if m.updateProjectItemFn != nil {
		return m.updateProjectItemFn(projectID, projectItemID, patch)
	}
	return &models.ProjectItem{ID: projectItemID}, nil
}

func (m *mockProjectService) RemoveProjectItem(projectID string, projectItemID int) error {
	if m.removeProjectItemFn != nil {
		return m.removeProjectItemFn(projectID, projectItemID)
	}
	return nil
}

func (m *mockProjectService) GetIndirectCosts(projectID string) (*models.IndirectCosts, error) {
	if m.getIndirectCostsFn != nil {
		return m.getIndirectCostsFn(projectID)
	}
	return &models.IndirectCosts{ProjectID: projectID, IndirectRates: models.DefaultIndirectRates()}, nil
}

func (m *mockProjectService) SetIndirectCosts(projectID string, rates models.IndirectRates) (*models.IndirectCosts, error) {
	if m.setIndirectCostsFn != nil {
		return m.setIndirectCostsFn(projectID, rates)
	}
	return &models.IndirectCosts{ProjectID: projectID, IndirectRates: rates}, nil
}

func (m *mockProjectService) GetSummary(projectID string) (*estimate.Summary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(projectID)
	}
	return &estimate.Summary{}, nil
}

func (m *mockProjectService) BuildWorkbook(projectID string) (*exchange.Workbook, error) {
	if m.buildWorkbookFn != nil {
		return m.buildWorkbookFn(projectID)
	}
	return &exchange.Workbook{}, nil
}

func (m *mockProjectService) GetBundle(projectID string) (*models.ProjectBundle, error) {
	if m.getBundleFn != nil {
		return m.getBundleFn(projectID)
	}
	return &models.ProjectBundle{Project: models.Project{ID: projectID}}, nil
}

var _ services.ProjectServicer = (*mockProjectService)(nil)

// --- mock storage service ---

type mockStorageService struct {
	status            backend.Status
	loadFn            func() (*services.LoadResult, error)
	exportProjectFn   func(projectID string) ([]byte, string, error)
	importProjectFn   func(data []byte) (*models.Project, error)
	exportProjectsFn  func() ([]byte, string, error)
	importProjectsFn  func(data []byte) (*services.LoadResult, error)
	createBackupFn    func() (*backend.Backup, error)
	listBackupsFn     func() ([]string, error)
	restoreBackupFn   func(label string) error
	restoreFromDataFn func(data []byte) error
	resetDataFn       func() error
}

func (m *mockStorageService) Status() backend.Status { return m.status }

func (m *mockStorageService) Initialize(context.Context) backend.Status { return m.status }

func (m *mockStorageService) SyncProject(string) {}

func (m *mockStorageService) SyncCatalog() {}

func (m *mockStorageService) Load() (*services.LoadResult, error) {
	if m.loadFn != nil {
		return m.loadFn()
	}
	return &services.LoadResult{Backend: m.status.Backend}, nil
}

func (m *mockStorageService) ExportProject(projectID string) ([]byte, string, error) {
	if m.exportProjectFn != nil {
		return m.exportProjectFn(projectID)
	}
	return []byte("{}"), "project.json", nil
}

func (m *mockStorageService) ImportProject(data []byte) (*models.Project, error) {
	if m.importProjectFn != nil {
		return m.importProjectFn(data)
	}
	return &models.Project{}, nil
}

func (m *mockStorageService) ExportProjects() ([]byte, string, error) {
	if m.exportProjectsFn != nil {
		return m.exportProjectsFn()
	}
	return []byte("{}"), exchange.ProjectSetExportName, nil
}

func (m *mockStorageService) ImportProjects(data []byte) (*services.LoadResult, error) {
	if m.importProjectsFn != nil {
		return m.importProjectsFn(data)
	}
	return &services.LoadResult{}, nil
}

func (m *mockStorageService) CreateBackup() (*backend.Backup, error) {
	if m.createBackupFn != nil {
		return m.createBackupFn()
	}
	return &backend.Backup{}, nil
}

func (m *mockStorageService) ListBackups() ([]string, error) {
	if m.listBackupsFn != nil {
		return m.listBackupsFn()
	}
	return nil, nil
}

func (m *mockStorageService) RestoreBackup(label string) error {
	if m.restoreBackupFn != nil {
		return m.restoreBackupFn(label)
	}
	return nil
}

func (m *mockStorageService) RestoreFromData(data []byte) error {
	if m.restoreFromDataFn != nil {
		return m.restoreFromDataFn(data)
	}
	return nil
}

func (m *mockStorageService) ResetData() error {
	if m.resetDataFn != nil {
		return m.resetDataFn()
	}
	return nil
}

var _ services.StorageServicer = (*mockStorageService)(nil)

// --- mock settings service ---

type mockSettingsService struct {
	settings         models.AppSettings
	updateSettingsFn func(patch models.SettingsPatch) (models.AppSettings, error)
	exportSettingsFn func() ([]byte, string, error)
	importSettingsFn func(data []byte) (models.AppSettings, error)
}

func (m *mockSettingsService) GetSettings() models.AppSettings { return m.settings }

func (m *mockSettingsService) UpdateSettings(patch models.SettingsPatch) (models.AppSettings, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(patch)
	}
	patch.Apply(&m.settings)
	return m.settings, nil
}

func (m *mockSettingsService) ResetSettings() (models.AppSettings, error) {
	m.settings = models.DefaultSettings()
	return m.settings, nil
}

func (m *mockSettingsService) ExportSettings() ([]byte, string, error) {
	if m.exportSettingsFn != nil {
		return m.exportSettingsFn()
	}
	return []byte("{}"), "settings.json", nil
}

func (m *mockSettingsService) ImportSettings(data []byte) (models.AppSettings, error) {
	if m.importSettingsFn != nil {
		return m.importSettingsFn(data)
	}
	return m.settings, nil
}

var _ services.SettingsServicer = (*mockSettingsService)(nil)

// --- mock sync service ---

type mockSyncService struct {
	status           services.RemoteStatus
	testConnectionFn func(ctx context.Context) error
	pushAllFn        func(ctx context.Context) (*services.PushResult, error)
	pullCatalogFn    func(ctx context.Context) (*services.ImportResult, error)
	pullProjectsFn   func(ctx context.Context) (*services.LoadResult, error)
}

func (m *mockSyncService) Status() services.RemoteStatus { return m.status }

func (m *mockSyncService) TestConnection(ctx context.Context) error {
	if m.testConnectionFn != nil {
		return m.testConnectionFn(ctx)
	}
	return nil
}

func (m *mockSyncService) PushAll(ctx context.Context) (*services.PushResult, error) {
	if m.pushAllFn != nil {
		return m.pushAllFn(ctx)
	}
	return &services.PushResult{}, nil
}

func (m *mockSyncService) PullCatalog(ctx context.Context) (*services.ImportResult, error) {
	if m.pullCatalogFn != nil {
		return m.pullCatalogFn(ctx)
	}
	return &services.ImportResult{}, nil
}

func (m *mockSyncService) PullProjects(ctx context.Context) (*services.LoadResult, error) {
	if m.pullProjectsFn != nil {
		return m.pullProjectsFn(ctx)
	}
	return &services.LoadResult{}, nil
}

var _ services.SyncServicer = (*mockSyncService)(nil)
