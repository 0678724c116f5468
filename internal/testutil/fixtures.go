package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"powcost/internal/models"
	"powcost/internal/store"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// SetupTestStore returns a store over a fresh SQLite-backed medium.
func SetupTestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	return store.New(SetupTestMedium(t), opts...)
}

// CreateTestItem adds a Material catalog item with a unique item number.
func CreateTestItem(t *testing.T, s *store.Store) *models.Item {
	t.Helper()
	n := nextID()
	return CreateTestItemWith(t, s, models.NewItem{
		ItemNo:      fmt.Sprintf("T-%03d", n),
		Description: fmt.Sprintf("Test item %d", n),
		Category:    "Site Work",
		Unit:        "cu.m",
		UnitCost:    100,
		CostType:    models.CostTypeMaterial,
	})
}

// CreateTestItemWith adds a catalog item with the given fields.
func CreateTestItemWith(t *testing.T, s *store.Store, input models.NewItem) *models.Item {
	t.Helper()
	item, err := s.AddItem(input)
	if err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}
	return item
}

// CreateTestProject adds a project with a unique title.
func CreateTestProject(t *testing.T, s *store.Store) *models.Project {
	t.Helper()
	project, err := s.AddProject(models.NewProject{
		Title:    fmt.Sprintf("Test Project %d", nextID()),
		Location: "Quezon City",
		Category: "Residential",
	})
	if err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestProjectItem places item in the project with the given quantity.
func CreateTestProjectItem(t *testing.T, s *store.Store, projectID string, item *models.Item, quantity float64) *models.ProjectItem {
	t.Helper()
	pi, err := s.AddProjectItem(models.NewProjectItemFromCatalog(projectID, *item, quantity))
	if err != nil {
		t.Fatalf("failed to create test project item: %v", err)
	}
	return pi
}
