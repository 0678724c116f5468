package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"powcost/internal/models"
	"powcost/internal/pagination"
	"powcost/internal/services"
)

// ProjectHandler handles project, project item and markup requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ProjectRequest represents the request payload for creating a project.
type ProjectRequest struct {
	Title            string `json:"title" binding:"required,max=200"`
	Location         string `json:"location" binding:"max=200"`
	Category         string `json:"category" binding:"max=100"`
	IdentificationNo string `json:"identification_no" binding:"max=100"`
	Duration         string `json:"duration" binding:"max=100"`
	SourceOfFund     string `json:"source_of_fund" binding:"max=100"`
}

// UpdateProjectRequest represents the request payload for updating a project.
type UpdateProjectRequest struct {
	Title            *string `json:"title" binding:"omitempty,min=1,max=200"`
	Location         *string `json:"location" binding:"omitempty,max=200"`
	Category         *string `json:"category" binding:"omitempty,max=100"`
	IdentificationNo *string `json:"identification_no" binding:"omitempty,max=100"`
	Duration         *string `json:"duration" binding:"omitempty,max=100"`
	SourceOfFund     *string `json:"source_of_fund" binding:"omitempty,max=100"`
}

// AddProjectItemRequest represents the request payload for placing a catalog
// item in a project.
type AddProjectItemRequest struct {
	ItemID   int    `json:"item_id" binding:"required,min=1"`
	Quantity Amount `json:"quantity" binding:"non_negative"`
}

// UpdateProjectItemRequest represents the request payload for editing a
// project item. The total is always recomputed.
type UpdateProjectItemRequest struct {
	Quantity    *Amount `json:"quantity" binding:"omitempty,non_negative"`
	UnitCost    *Amount `json:"unit_cost" binding:"omitempty,non_negative"`
	Description *string `json:"description"`
	Unit        *string `json:"unit"`
}

// IndirectCostsRequest represents the request payload for setting a
// project's markup percentages.
type IndirectCostsRequest struct {
	OCMPercent    Amount `json:"ocm_percent" binding:"non_negative"`
	ProfitPercent Amount `json:"profit_percent" binding:"non_negative"`
	TaxPercent    Amount `json:"tax_percent" binding:"non_negative"`
}

// CreateProject handles creating a project.
// @Summary     Create project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body ProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	project, err := h.projectService.CreateProject(models.NewProject{
		Title:            req.Title,
		Location:         req.Location,
		Category:         req.Category,
		IdentificationNo: req.IdentificationNo,
		Duration:         req.Duration,
		SourceOfFund:     req.SourceOfFund,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing projects, most recently updated first.
// @Summary     List projects
// @Tags        projects
// @Produce     json
// @Security    ApiKeyAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 50, max 500)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Paginated projects"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.projectService.ListProjects(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProject handles retrieving one project.
// @Summary     Get project
// @Tags        projects
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} models.Project "Project"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject handles a partial update of a project.
// @Summary     Update project
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string               true "Project ID"
// @Param       request body UpdateProjectRequest true "Fields to change"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	project, err := h.projectService.UpdateProject(c.Param("id"), models.ProjectPatch{
		Title:            req.Title,
		Location:         req.Location,
		Category:         req.Category,
		IdentificationNo: req.IdentificationNo,
		Duration:         req.Duration,
		SourceOfFund:     req.SourceOfFund,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DuplicateProject handles copying a project's header into a new project.
// @Summary     Duplicate project
// @Description Creates "{title} (Copy)" with the same header fields. Line items and markups are not copied.
// @Tags        projects
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     201 {object} models.Project "Project created"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/duplicate [post]
func (h *ProjectHandler) DuplicateProject(c *gin.Context) {
	project, err := h.projectService.DuplicateProject(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// DeleteProject handles deleting a project with its items and markups.
// @Summary     Delete project
// @Tags        projects
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} MessageResponse "Project deleted"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	if err := h.projectService.DeleteProject(c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Project deleted successfully"})
}

// GetProjectItems handles listing the items placed in a project.
// @Summary     List project items
// @Tags        project-items
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.ProjectItem "Project items"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/items [get]
func (h *ProjectHandler) GetProjectItems(c *gin.Context) {
	items, err := h.projectService.GetProjectItems(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddProjectItem handles placing a catalog item in a project. The catalog
// price is copied onto the new line.
// @Summary     Add item to project
// @Tags        project-items
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string                true "Project ID"
// @Param       request body AddProjectItemRequest true "Catalog item and quantity"
// @Success     201 {object} models.ProjectItem "Project item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or item not found"
// @Router      /projects/{id}/items [post]
func (h *ProjectHandler) AddProjectItem(c *gin.Context) {
	var req AddProjectItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	pi, err := h.projectService.AddItemToProject(c.Param("id"), req.ItemID, float64(req.Quantity))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": pi})
}

// UpdateProjectItem handles editing a project item.
// @Summary     Update project item
// @Tags        project-items
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string                   true "Project ID"
// @Param       itemId  path int                      true "Project item ID"
// @Param       request body UpdateProjectItemRequest true "Fields to change"
// @Success     200 {object} models.ProjectItem "Updated project item"
// @Failure     404 {object} ErrorResponse "Project item not found"
// @Router      /projects/{id}/items/{itemId} [put]
func (h *ProjectHandler) UpdateProjectItem(c *gin.Context) {
	itemID, err := parsePathID(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	pi, err := h.projectService.UpdateProjectItem(c.Param("id"), itemID, models.ProjectItemPatch{
		Quantity:    req.Quantity.ptr(),
		UnitCost:    req.UnitCost.ptr(),
		Description: req.Description,
		Unit:        req.Unit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": pi})
}

// RemoveProjectItem handles removing an item from a project.
// @Summary     Remove project item
// @Tags        project-items
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id     path string true "Project ID"
// @Param       itemId path int    true "Project item ID"
// @Success     200 {object} MessageResponse "Project item removed"
// @Failure     404 {object} ErrorResponse "Project item not found"
// @Router      /projects/{id}/items/{itemId} [delete]
func (h *ProjectHandler) RemoveProjectItem(c *gin.Context) {
	itemID, err := parsePathID(c, "itemId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.RemoveProjectItem(c.Param("id"), itemID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Project item removed successfully"})
}

// GetIndirectCosts handles retrieving a project's markup percentages.
// Projects without a saved record report the default rates.
// @Summary     Get indirect costs
// @Tags        indirect-costs
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} models.IndirectCosts "Markup percentages"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/indirect-costs [get]
func (h *ProjectHandler) GetIndirectCosts(c *gin.Context) {
	ic, err := h.projectService.GetIndirectCosts(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"indirect_costs": ic})
}

// SetIndirectCosts handles saving a project's markup percentages.
// @Summary     Set indirect costs
// @Tags        indirect-costs
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path string               true "Project ID"
// @Param       request body IndirectCostsRequest true "Markup percentages"
// @Success     200 {object} models.IndirectCosts "Saved markup percentages"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/indirect-costs [put]
func (h *ProjectHandler) SetIndirectCosts(c *gin.Context) {
	var req IndirectCostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	ic, err := h.projectService.SetIndirectCosts(c.Param("id"), models.IndirectRates{
		OCMPercent:    float64(req.OCMPercent),
		ProfitPercent: float64(req.ProfitPercent),
		TaxPercent:    float64(req.TaxPercent),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"indirect_costs": ic})
}

// GetSummary handles computing a project's cost breakdown.
// @Summary     Get cost summary
// @Description Direct costs by cost type, compounded markups and per-category subtotals
// @Tags        projects
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} estimate.Summary "Cost summary"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/summary [get]
func (h *ProjectHandler) GetSummary(c *gin.Context) {
	summary, err := h.projectService.GetSummary(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetWorkbook handles building the Program of Works spreadsheet model.
// @Summary     Get Program of Works workbook
// @Tags        projects
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} exchange.Workbook "Workbook rows"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/workbook [get]
func (h *ProjectHandler) GetWorkbook(c *gin.Context) {
	wb, err := h.projectService.BuildWorkbook(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workbook": wb})
}

// GetBundle handles reading a project together with its items and stored
// markup record.
// @Summary     Get project bundle
// @Tags        projects
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} models.ProjectBundle "Project bundle"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/bundle [get]
func (h *ProjectHandler) GetBundle(c *gin.Context) {
	bundle, err := h.projectService.GetBundle(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bundle": bundle})
}
