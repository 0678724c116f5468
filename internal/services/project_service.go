package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"powcost/internal/estimate"
	"powcost/internal/exchange"
	"powcost/internal/models"
	"powcost/internal/pagination"
	"powcost/internal/store"

	apperrors "powcost/internal/errors"
)

// projectService handles project-related business logic.
type projectService struct {
	store  *store.Store
	mirror Mirrorer
	now    func() time.Time
}

// NewProjectService creates a new ProjectServicer. A nil mirror disables
// write-through.
func NewProjectService(s *store.Store, mirror Mirrorer) ProjectServicer {
	if mirror == nil {
		mirror = noopMirror{}
	}
	return &projectService{store: s, mirror: mirror, now: time.Now}
}

// ListProjects returns a page of projects, most recently updated first.
func (s *projectService) ListProjects(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	projects := s.store.GetProjects()
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].UpdatedAt.After(projects[j].UpdatedAt)
	})
	resp := pagination.Slice(projects, page)
	return &resp, nil
}

// GetProject retrieves a project by id.
func (s *projectService) GetProject(id string) (*models.Project, error) {
	project := s.store.GetProject(id)
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

// CreateProject creates a new project.
func (s *projectService) CreateProject(input models.NewProject) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project title is required")
	}

	project, err := s.store.AddProject(input)
	if err != nil {
		return nil, storeError(err)
	}
	s.mirror.SyncProject(project.ID)
	return project, nil
}

// UpdateProject merges patch into the project and refreshes updated_at.
func (s *projectService) UpdateProject(id string, patch models.ProjectPatch) (*models.Project, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "project title is required")
	}

	project, err := s.store.UpdateProject(id, patch)
	if err != nil {
		return nil, storeError(err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	s.mirror.SyncProject(id)
	return project, nil
}

// DeleteProject removes a project together with its items and markups.
func (s *projectService) DeleteProject(id string) error {
	deleted, err := s.store.DeleteProject(id)
	if err != nil {
		return storeError(err)
	}
	if !deleted {
		return apperrors.ErrProjectNotFound
	}
	s.mirror.SyncProject(id)
	return nil
}

// DuplicateProject creates a new project with the header fields of id. Line
// items and markups are not copied.
func (s *projectService) DuplicateProject(id string) (*models.Project, error) {
	source, err := s.GetProject(id)
	if err != nil {
		return nil, err
	}
	prefix := source.IdentificationNo
	if prefix == "" {
		prefix = "COPY"
	}
	return s.CreateProject(models.NewProject{
		Title:            source.Title + " (Copy)",
		Location:         source.Location,
		Category:         source.Category,
		IdentificationNo: fmt.Sprintf("%s-%d", prefix, s.now().UnixMilli()),
		Duration:         source.Duration,
		SourceOfFund:     source.SourceOfFund,
	})
}

// GetProjectItems returns the line items of a project.
func (s *projectService) GetProjectItems(projectID string) ([]models.ProjectItem, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}
	return s.store.GetProjectItemsByProject(projectID), nil
}

// touch refreshes the project's updated_at after a change to its contents.
func (s *projectService) touch(projectID string) error {
	if _, err := s.store.TouchProject(projectID); err != nil {
		return storeError(err)
	}
	s.mirror.SyncProject(projectID)
	return nil
}

// AddItemToProject places a catalog item in the project. The catalog unit
// cost is copied at this point and never follows later catalog edits.
func (s *projectService) AddItemToProject(projectID string, itemID int, quantity float64) (*models.ProjectItem, error) {
	if quantity < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must not be negative")
	}
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}
	item := s.store.GetItem(itemID)
	if item == nil {
		return nil, apperrors.ErrItemNotFound
	}

	pi, err := s.store.AddProjectItem(models.NewProjectItemFromCatalog(projectID, *item, quantity))
	if err != nil {
		return nil, storeError(err)
	}
	if err := s.touch(projectID); err != nil {
		return nil, err
	}
	return pi, nil
}

// ownedProjectItem returns the project item only if it belongs to projectID.
func (s *projectService) ownedProjectItem(projectID string, projectItemID int) (*models.ProjectItem, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}
	pi := s.store.GetProjectItem(projectItemID)
	if pi == nil || pi.ProjectID != projectID {
		return nil, apperrors.ErrProjectItemNotFound
	}
	return pi, nil
}

// UpdateProjectItem merges patch into a project item; total_cost is always
// recomputed from quantity and unit cost.
func (s *projectService) UpdateProjectItem(projectID string, projectItemID int, patch models.ProjectItemPatch) (*models.ProjectItem, error) {
	if patch.Quantity != nil && *patch.Quantity < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must not be negative")
	}
	if patch.UnitCost != nil && *patch.UnitCost < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unit cost must not be negative")
	}
	if _, err := s.ownedProjectItem(projectID, projectItemID); err != nil {
		return nil, err
	}

	pi, err := s.store.UpdateProjectItem(projectItemID, patch)
	if err != nil {
		return nil, storeError(err)
	}
	if pi == nil {
		return nil, apperrors.ErrProjectItemNotFound
	}
	if err := s.touch(projectID); err != nil {
		return nil, err
	}
	return pi, nil
}

// RemoveProjectItem removes a line item from the project.
func (s *projectService) RemoveProjectItem(projectID string, projectItemID int) error {
	if _, err := s.ownedProjectItem(projectID, projectItemID); err != nil {
		return err
	}
	deleted, err := s.store.DeleteProjectItem(projectItemID)
	if err != nil {
		return storeError(err)
	}
	if !deleted {
		return apperrors.ErrProjectItemNotFound
	}
	return s.touch(projectID)
}

// GetIndirectCosts returns the project's markup record. A project without
// one gets an unsaved record carrying the settings' default rates.
func (s *projectService) GetIndirectCosts(projectID string) (*models.IndirectCosts, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}
	if ic := s.store.GetIndirectCostsByProject(projectID); ic != nil {
		return ic, nil
	}
	return &models.IndirectCosts{
		ProjectID:     projectID,
		IndirectRates: s.store.GetSettings().DefaultRates(),
	}, nil
}

// SetIndirectCosts creates or replaces the project's markup rates.
func (s *projectService) SetIndirectCosts(projectID string, rates models.IndirectRates) (*models.IndirectCosts, error) {
	if rates.OCMPercent < 0 || rates.ProfitPercent < 0 || rates.TaxPercent < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "markup percentages must not be negative")
	}
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}

	ic, err := s.store.UpsertIndirectCosts(projectID, rates)
	if err != nil {
		return nil, storeError(err)
	}
	if err := s.touch(projectID); err != nil {
		return nil, err
	}
	return ic, nil
}

// GetSummary computes the cost breakdown and category subtotals.
func (s *projectService) GetSummary(projectID string) (*estimate.Summary, error) {
	items, err := s.GetProjectItems(projectID)
	if err != nil {
		return nil, err
	}
	ic, err := s.GetIndirectCosts(projectID)
	if err != nil {
		return nil, err
	}
	summary := estimate.Summarize(items, ic.IndirectRates)
	return &summary, nil
}

// BuildWorkbook lays out the three-sheet Program of Works export.
func (s *projectService) BuildWorkbook(projectID string) (*exchange.Workbook, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	ic, err := s.GetIndirectCosts(projectID)
	if err != nil {
		return nil, err
	}

	wb := exchange.BuildWorkbook(exchange.WorkbookInput{
		Project:      *project,
		ProjectItems: s.store.GetProjectItemsByProject(projectID),
		Rates:        ic.IndirectRates,
		Now:          s.now(),
	})
	return &wb, nil
}

// GetBundle returns the project with its items and stored markup record.
func (s *projectService) GetBundle(projectID string) (*models.ProjectBundle, error) {
	project, err := s.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	return &models.ProjectBundle{
		Project:       *project,
		ProjectItems:  s.store.GetProjectItemsByProject(projectID),
		IndirectCosts: s.store.GetIndirectCostsByProject(projectID),
	}, nil
}
