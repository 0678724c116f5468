package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "powcost/internal/errors"
	"powcost/internal/estimate"
	"powcost/internal/exchange"
	"powcost/internal/models"
	"powcost/internal/pagination"
)

func setupProjectRouter(handler *ProjectHandler) *gin.Engine {
	r := gin.New()
	r.GET("/projects", handler.GetProjects)
	r.POST("/projects", handler.CreateProject)
	r.GET("/projects/:id", handler.GetProject)
	r.PUT("/projects/:id", handler.UpdateProject)
	r.DELETE("/projects/:id", handler.DeleteProject)
	r.POST("/projects/:id/duplicate", handler.DuplicateProject)
	r.GET("/projects/:id/bundle", handler.GetBundle)
	r.GET("/projects/:id/items", handler.GetProjectItems)
	r.POST("/projects/:id/items", handler.AddProjectItem)
	r.PUT("/projects/:id/items/:itemId", handler.UpdateProjectItem)
	r.DELETE("/projects/:id/items/:itemId", handler.RemoveProjectItem)
	r.GET("/projects/:id/indirect-costs", handler.GetIndirectCosts)
	r.PUT("/projects/:id/indirect-costs", handler.SetIndirectCosts)
	r.GET("/projects/:id/summary", handler.GetSummary)
	r.GET("/projects/:id/workbook", handler.GetWorkbook)
	return r
}

func TestProjectHandler_CreateProject(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got models.NewProject
		svc := &mockProjectService{
			createProjectFn: func(input models.NewProject) (*models.Project, error) {
				got = input
				return &models.Project{ID: "p1", Title: input.Title}, nil
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc))

		rec := doRequest(r, http.MethodPost, "/projects", `{"title":"School Building","location":"Cebu City"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Title != "School Building" || got.Location != "Cebu City" {
			t.Errorf("unexpected input %+v", got)
		}
		project := parseJSON(t, rec)["project"].(map[string]interface{})
		if project["id"] != "p1" {
			t.Errorf("expected id p1, got %v", project["id"])
		}
	})

	t.Run("returns 400 without title", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}))

		rec := doRequest(r, http.MethodPost, "/projects", `{"location":"Cebu City"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestProjectHandler_GetProjects(t *testing.T) {
	svc := &mockProjectService{
		listProjectsFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
			resp := pagination.NewPageResponse([]models.Project{{ID: "b"}, {ID: "a"}}, 1, 50, 2)
			return &resp, nil
		},
	}
	r := setupProjectRouter(NewProjectHandler(svc))

	rec := doRequest(r, http.MethodGet, "/projects", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := parseJSON(t, rec)["data"].([]interface{})
	if len(data) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(data))
	}
	if data[0].(map[string]interface{})["id"] != "b" {
		t.Errorf("expected service order to be kept")
	}
}

func TestProjectHandler_GetProject(t *testing.T) {
	svc := &mockProjectService{
		getProjectFn: func(string) (*models.Project, error) { return nil, apperrors.ErrProjectNotFound },
	}
	r := setupProjectRouter(NewProjectHandler(svc))

	rec := doRequest(r, http.MethodGet, "/projects/missing", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "PROJECT_NOT_FOUND")
}

func TestProjectHandler_UpdateProject(t *testing.T) {
	t.Run("passes the patch", func(t *testing.T) {
		var gotID string
		var got models.ProjectPatch
		svc := &mockProjectService{
			updateProjectFn: func(id string, patch models.ProjectPatch) (*models.Project, error) {
				gotID, got = id, patch
				return &models.Project{ID: id}, nil
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc))

		rec := doRequest(r, http.MethodPut, "/projects/p1", `{"duration":"8 months"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != "p1" || got.Duration == nil || *got.Duration != "8 months" || got.Title != nil {
			t.Errorf("unexpected update id=%q patch=%+v", gotID, got)
		}
	})

	t.Run("returns 400 for blank title", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}))

		rec := doRequest(r, http.MethodPut, "/projects/p1", `{"title":""}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProjectHandler_DeleteProject(t *testing.T) {
	var deleted string
	svc := &mockProjectService{
		deleteProjectFn: func(id string) error {
			deleted = id
			return nil
		},
	}
	r := setupProjectRouter(NewProjectHandler(svc))

	rec := doRequest(r, http.MethodDelete, "/projects/p1", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != "p1" {
		t.Errorf("expected p1 deleted, got %q", deleted)
	}
}

func TestProjectHandler_DuplicateProject(t *testing.T) {
	t.Run("returns 201 with the copy", func(t *testing.T) {
		var source string
		svc := &mockProjectService{
			duplicateProjectFn: func(id string) (*models.Project, error) {
				source = id
				return &models.Project{ID: "p2", Title: "Shed (Copy)"}, nil
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc))

		rec := doRequest(r, http.MethodPost, "/projects/p1/duplicate", "")

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if source != "p1" {
			t.Errorf("expected p1 duplicated, got %q", source)
		}
		project := parseJSON(t, rec)["project"].(map[string]interface{})
		if project["title"] != "Shed (Copy)" {
			t.Errorf("unexpected project %v", project)
		}
	})

	t.Run("returns 404 for unknown project", func(t *testing.T) {
		svc := &mockProjectService{
			duplicateProjectFn: func(string) (*models.Project, error) { return nil, apperrors.ErrProjectNotFound },
		}
		r := setupProjectRouter(NewProjectHandler(svc))

		rec := doRequest(r, http.MethodPost, "/projects/missing/duplicate", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PROJECT_NOT_FOUND")
	})
}

func TestProjectHandler_AddProjectItem(t *testing.T) {
	t.Run("returns 201 with the snapshot line", func(t *testing.T) {
		var gotProject string
		var gotItem int
		var gotQty float64
		svc := &mockProjectService{
			addItemToProjectFn: func(projectID string, itemID int, quantity float64) (*models.ProjectItem, error) {
				gotProject, gotItem, gotQty = projectID, itemID, quantity
				return &models.ProjectItem{ID: 1, ProjectID: projectID, ItemID: itemID, Quantity: quantity, UnitCost: 100, TotalCost: quantity * 100}, nil
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc))

		rec := doRequest(r, http.MethodPost, "/projects/p1/items", `{"item_id":3,"quantity":"2.5"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotProject != "p1" || gotItem != 3 || gotQty != 2.5 {
			t.Errorf("unexpected call %q %d %v", gotProject, gotItem, gotQty)
		}
		item := parseJSON(t, rec)["item"].(map[string]interface{})
		if item["total_cost"] != float64(250) {
			t.Errorf("expected total_cost 250, got %v", item["total_cost"])
		}
	})

	t.Run("returns 400 for negative quantity", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}))

		rec := doRequest(r, http.MethodPost, "/projects/p1/items", `{"item_id":3,"quantity":-1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 without item_id", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}))

		rec := doRequest(r, http.MethodPost, "/projects/p1/items", `{"quantity":1}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for unknown catalog item", func(t *testing.T) {
		svc := &mockProjectService{
			addItemToProjectFn: func(string, int, float64) (*models.ProjectItem, error) {
				return nil, apperrors.ErrItemNotFound
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc))

		rec := doRequest(r, http.MethodPost, "/projects/p1/items", `{"item_id":99,"quantity":1}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ITEM_NOT_FOUND")
	})
}

func TestProjectHandler_UpdateProjectItem(t *testing.T) {
	t.Run("passes quantity and price", func(t *testing.T) {
		var got models.ProjectItemPatch
		var gotID int
		svc := &mockProjectService{
			updateProjectItemFn: func(_ string, projectItemID int, patch models.ProjectItemPatch) (*models.ProjectItem, error) {
				gotID, got = projectItemID, patch
				return &models.ProjectItem{ID: projectItemID}, nil
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc))

		rec := doRequest(r, http.MethodPut, "/projects/p1/items/5", `{"quantity":4,"unit_cost":"12.5"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != 5 {
			t.Errorf("expected project item 5, got %d", gotID)
		}
		if got.Quantity == nil || *got.Quantity != 4 || got.UnitCost == nil || *got.UnitCost != 12.5 {
			t.Errorf("unexpected patch %+v", got)
		}
		if got.Description != nil || got.Unit != nil {
			t.Errorf("expected description and unit untouched")
		}
	})

	t.Run("returns 400 for bad item id", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}))

		rec := doRequest(r, http.MethodPut, "/projects/p1/items/0", `{"quantity":4}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProjectHandler_RemoveProjectItem(t *testing.T) {
	svc := &mockProjectService{
		removeProjectItemFn: func(string, int) error { return apperrors.ErrProjectItemNotFound },
	}
	r := setupProjectRouter(NewProjectHandler(svc))

	rec := doRequest(r, http.MethodDelete, "/projects/p1/items/5", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "PROJECT_ITEM_NOT_FOUND")
}

func TestProjectHandler_IndirectCosts(t *testing.T) {
	t.Run("get returns the record", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}))

		rec := doRequest(r, http.MethodGet, "/projects/p1/indirect-costs", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		ic := parseJSON(t, rec)["indirect_costs"].(map[string]interface{})
		if ic["ocm_percent"] != float64(5) || ic["tax_percent"] != float64(12) {
			t.Errorf("unexpected rates %v", ic)
		}
	})

	t.Run("put passes the rates", func(t *testing.T) {
		var got models.IndirectRates
		svc := &mockProjectService{
			setIndirectCostsFn: func(projectID string, rates models.IndirectRates) (*models.IndirectCosts, error) {
				got = rates
				return &models.IndirectCosts{ID: 1, ProjectID: projectID, IndirectRates: rates}, nil
			},
		}
		r := setupProjectRouter(NewProjectHandler(svc))

		rec := doRequest(r, http.MethodPut, "/projects/p1/indirect-costs", `{"ocm_percent":10,"profit_percent":"10","tax_percent":0}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		want := models.IndirectRates{OCMPercent: 10, ProfitPercent: 10, TaxPercent: 0}
		if got != want {
			t.Errorf("expected %+v, got %+v", want, got)
		}
	})

	t.Run("put rejects negative rates", func(t *testing.T) {
		r := setupProjectRouter(NewProjectHandler(&mockProjectService{}))

		rec := doRequest(r, http.MethodPut, "/projects/p1/indirect-costs", `{"ocm_percent":-5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestProjectHandler_GetSummary(t *testing.T) {
	svc := &mockProjectService{
		getSummaryFn: func(string) (*estimate.Summary, error) {
			s := estimate.Summarize([]models.ProjectItem{
				{Category: "Earthworks", CostType: models.CostTypeMaterial, Quantity: 1, UnitCost: 1000, TotalCost: 1000},
			}, models.IndirectRates{OCMPercent: 10, ProfitPercent: 10, TaxPercent: 10})
			return &s, nil
		},
	}
	r := setupProjectRouter(NewProjectHandler(svc))

	rec := doRequest(r, http.MethodGet, "/projects/p1/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	summary := parseJSON(t, rec)["summary"].(map[string]interface{})
	if summary["item_count"] != float64(1) {
		t.Errorf("expected item_count 1, got %v", summary["item_count"])
	}
	if _, ok := summary["breakdown"].(map[string]interface{}); !ok {
		t.Errorf("expected breakdown object, got %v", summary["breakdown"])
	}
}

func TestProjectHandler_GetWorkbook(t *testing.T) {
	svc := &mockProjectService{
		buildWorkbookFn: func(string) (*exchange.Workbook, error) {
			return &exchange.Workbook{FileName: "POW_School_2024-03-01.xlsx", Sheets: []exchange.Sheet{{Name: "Program of Works"}}}, nil
		},
	}
	r := setupProjectRouter(NewProjectHandler(svc))

	rec := doRequest(r, http.MethodGet, "/projects/p1/workbook", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	wb := parseJSON(t, rec)["workbook"].(map[string]interface{})
	if wb["file_name"] != "POW_School_2024-03-01.xlsx" {
		t.Errorf("unexpected file name %v", wb["file_name"])
	}
}

func TestProjectHandler_GetBundle(t *testing.T) {
	r := setupProjectRouter(NewProjectHandler(&mockProjectService{}))

	rec := doRequest(r, http.MethodGet, "/projects/p1/bundle", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	bundle := parseJSON(t, rec)["bundle"].(map[string]interface{})
	if bundle["project"].(map[string]interface{})["id"] != "p1" {
		t.Errorf("unexpected bundle %v", bundle)
	}
}
