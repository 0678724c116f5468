package services

import (
	"strings"
	"time"

	"powcost/internal/exchange"
	"powcost/internal/logger"
	"powcost/internal/models"
	"powcost/internal/pagination"
	"powcost/internal/store"

	apperrors "powcost/internal/errors"
)

// catalogService handles catalog-related business logic.
type catalogService struct {
	store  *store.Store
	mirror Mirrorer
	now    func() time.Time
}

// NewCatalogService creates a new CatalogServicer. A nil mirror disables
// write-through.
func NewCatalogService(s *store.Store, mirror Mirrorer) CatalogServicer {
	if mirror == nil {
		mirror = noopMirror{}
	}
	return &catalogService{store: s, mirror: mirror, now: time.Now}
}

func (f ItemFilter) matches(item models.Item) bool {
	if f.Category != "" && !strings.EqualFold(item.Category, f.Category) {
		return false
	}
	if f.CostType != nil && item.CostType != *f.CostType {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(item.ItemNo), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) {
			return false
		}
	}
	return true
}

// ListItems returns a page of catalog items in insertion order.
func (s *catalogService) ListItems(filter ItemFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Item], error) {
	items := s.store.GetItems()
	matched := make([]models.Item, 0, len(items))
	for _, item := range items {
		if filter.matches(item) {
			matched = append(matched, item)
		}
	}
	resp := pagination.Slice(matched, page)
	return &resp, nil
}

// GetItem retrieves a catalog item by id.
func (s *catalogService) GetItem(id int) (*models.Item, error) {
	item := s.store.GetItem(id)
	if item == nil {
		return nil, apperrors.ErrItemNotFound
	}
	return item, nil
}

func validateNewItem(input models.NewItem) error {
	if strings.TrimSpace(input.ItemNo) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "item number is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}
	if input.UnitCost < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unit cost must not be negative")
	}
	return nil
}

// CreateItem adds an item to the catalog. The cost type defaults to Material.
func (s *catalogService) CreateItem(input models.NewItem) (*models.Item, error) {
	if err := validateNewItem(input); err != nil {
		return nil, err
	}
	if !input.CostType.Valid() {
		input.CostType = models.ParseCostType(string(input.CostType))
	}

	item, err := s.store.AddItem(input)
	if err != nil {
		return nil, storeError(err)
	}
	s.mirror.SyncCatalog()
	return item, nil
}

// UpdateItem merges patch into the item. Project items that already
// snapshot this item keep their copied values.
func (s *catalogService) UpdateItem(id int, patch models.ItemPatch) (*models.Item, error) {
	if patch.UnitCost != nil && *patch.UnitCost < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unit cost must not be negative")
	}
	if patch.CostType != nil && !patch.CostType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost type must be Material, Labor or Equipment")
	}

	item, err := s.store.UpdateItem(id, patch)
	if err != nil {
		return nil, storeError(err)
	}
	if item == nil {
		return nil, apperrors.ErrItemNotFound
	}
	s.mirror.SyncCatalog()
	return item, nil
}

// DeleteItem removes an item from the catalog.
func (s *catalogService) DeleteItem(id int) error {
	deleted, err := s.store.DeleteItem(id)
	if err != nil {
		return storeError(err)
	}
	if !deleted {
		return apperrors.ErrItemNotFound
	}
	s.mirror.SyncCatalog()
	return nil
}

// ExportCSV renders the whole catalog as CSV with its download name.
func (s *catalogService) ExportCSV() ([]byte, string, error) {
	return exchange.EncodeCatalogCSV(s.store.GetItems()), exchange.CatalogCSVName(s.now()), nil
}

// ImportCSV appends the rows of a catalog CSV, or replaces the catalog with
// them when replace is set.
func (s *catalogService) ImportCSV(data []byte, replace bool) (*ImportResult, error) {
	rows, err := exchange.DecodeCatalogCSV(data)
	if err != nil {
		logger.Get().Warnw("failed to parse catalog csv", "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInvalidImportFile, err)
	}

	if replace {
		if err := s.store.SaveItems([]models.Item{}); err != nil {
			return nil, storeError(err)
		}
	}
	for _, row := range rows {
		if _, err := s.store.AddItem(row); err != nil {
			return nil, storeError(err)
		}
	}

	s.mirror.SyncCatalog()
	return &ImportResult{Imported: len(rows), Replaced: replace}, nil
}

// SeedSampleData adds the sample catalog and a sample project, but only when
// the catalog is empty.
func (s *catalogService) SeedSampleData() (*SeedResult, error) {
	if len(s.store.GetItems()) > 0 {
		return &SeedResult{}, nil
	}

	for _, item := range sampleItems {
		if _, err := s.store.AddItem(item); err != nil {
			return nil, storeError(err)
		}
	}
	project, err := s.store.AddProject(sampleProject)
	if err != nil {
		return nil, storeError(err)
	}

	logger.Get().Infow("seeded sample data", "items", len(sampleItems), "project_id", project.ID)
	s.mirror.SyncCatalog()
	s.mirror.SyncProject(project.ID)
	return &SeedResult{ItemsAdded: len(sampleItems), Project: project}, nil
}
