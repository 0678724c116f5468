package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "powcost/internal/errors"
	"powcost/internal/models"
	"powcost/internal/pagination"
	"powcost/internal/services"
)

// ItemHandler handles catalog requests.
type ItemHandler struct {
	catalogService services.CatalogServicer
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(catalogService services.CatalogServicer) *ItemHandler {
	return &ItemHandler{catalogService: catalogService}
}

// CreateItemRequest represents the request payload for adding a catalog item.
type CreateItemRequest struct {
	ItemNo      string          `json:"item_no" binding:"required,max=50"`
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Unit        string          `json:"unit"`
	UnitCost    Amount          `json:"unit_cost" binding:"non_negative"`
	CostType    models.CostType `json:"cost_type" binding:"omitempty,cost_type"`
}

// UpdateItemRequest represents the request payload for updating a catalog
// item. Omitted fields are left unchanged.
type UpdateItemRequest struct {
	ItemNo      *string          `json:"item_no" binding:"omitempty,min=1,max=50"`
	Description *string          `json:"description" binding:"omitempty,min=1"`
	Category    *string          `json:"category"`
	Subcategory *string          `json:"subcategory"`
	Unit        *string          `json:"unit"`
	UnitCost    *Amount          `json:"unit_cost" binding:"omitempty,non_negative"`
	CostType    *models.CostType `json:"cost_type" binding:"omitempty,cost_type"`
}

// CreateItem handles adding an item to the catalog.
// @Summary     Create a catalog item
// @Description Add a priced line item to the cost catalog
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body CreateItemRequest true "Item details"
// @Success     201 {object} models.Item "Item created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Storage failure"
// @Router      /items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	item, err := h.catalogService.CreateItem(models.NewItem{
		ItemNo:      req.ItemNo,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Unit:        req.Unit,
		UnitCost:    float64(req.UnitCost),
		CostType:    req.CostType,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// GetItems handles listing catalog items.
// @Summary     List catalog items
// @Description Get a paginated, filterable list of catalog items
// @Tags        items
// @Produce     json
// @Security    ApiKeyAuth
// @Param       category  query string false "Filter by category"
// @Param       cost_type query string false "Filter by cost type (Material/Labor/Equipment)"
// @Param       search    query string false "Match item number or description"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 50, max 500)"
// @Success     200 {object} pagination.PageResponse[models.Item] "Paginated items"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /items [get]
func (h *ItemHandler) GetItems(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	filter := services.ItemFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if v := c.Query("cost_type"); v != "" {
		ct := models.CostType(v)
		if !ct.Valid() {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost_type must be Material, Labor or Equipment"))
			return
		}
		filter.CostType = &ct
	}

	result, err := h.catalogService.ListItems(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetItem handles retrieving one catalog item.
// @Summary     Get catalog item
// @Tags        items
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path int true "Item ID"
// @Success     200 {object} models.Item "Item"
// @Failure     400 {object} ErrorResponse "Invalid item ID"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	item, err := h.catalogService.GetItem(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// UpdateItem handles a partial update of a catalog item. Project items that
// were already created from it keep their copied price.
// @Summary     Update catalog item
// @Tags        items
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id      path int               true "Item ID"
// @Param       request body UpdateItemRequest true "Fields to change"
// @Success     200 {object} models.Item "Updated item"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	item, err := h.catalogService.UpdateItem(id, models.ItemPatch{
		ItemNo:      req.ItemNo,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Unit:        req.Unit,
		UnitCost:    req.UnitCost.ptr(),
		CostType:    req.CostType,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles removing a catalog item.
// @Summary     Delete catalog item
// @Tags        items
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path int true "Item ID"
// @Success     200 {object} MessageResponse "Item deleted"
// @Failure     404 {object} ErrorResponse "Item not found"
// @Router      /items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.catalogService.DeleteItem(id); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Item deleted successfully"})
}

// ExportItems handles downloading the catalog as CSV.
// @Summary     Export catalog
// @Tags        items
// @Produce     text/csv
// @Security    ApiKeyAuth
// @Success     200 {file} file "cost_database_{date}.csv"
// @Router      /items/export [get]
func (h *ItemHandler) ExportItems(c *gin.Context) {
	data, name, err := h.catalogService.ExportCSV()
	if err != nil {
		respondWithError(c, err)
		return
	}
	sendDownload(c, name, "text/csv; charset=utf-8", data)
}

// ImportItems handles uploading a catalog CSV.
// @Summary     Import catalog
// @Description Append the rows of a catalog CSV, or replace the catalog with mode=replace
// @Tags        items
// @Accept      text/csv,multipart/form-data
// @Produce     json
// @Security    ApiKeyAuth
// @Param       mode query    string false "append (default) or replace"
// @Param       file formData file   false "CSV file"
// @Success     200 {object} services.ImportResult "Import result"
// @Failure     400 {object} ErrorResponse "Unreadable file"
// @Router      /items/import [post]
func (h *ItemHandler) ImportItems(c *gin.Context) {
	mode := c.DefaultQuery("mode", "append")
	if mode != "append" && mode != "replace" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "mode must be 'append' or 'replace'"))
		return
	}

	data, err := readUpload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.catalogService.ImportCSV(data, mode == "replace")
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SeedSampleData handles loading the sample catalog and project.
// @Summary     Load sample data
// @Description Adds the sample catalog and a sample project when the catalog is empty
// @Tags        items
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.SeedResult "Seed result"
// @Router      /items/sample [post]
func (h *ItemHandler) SeedSampleData(c *gin.Context) {
	result, err := h.catalogService.SeedSampleData()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
