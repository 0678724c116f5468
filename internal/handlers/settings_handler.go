package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"powcost/internal/models"
	"powcost/internal/services"
)

// SettingsHandler handles application settings.
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the request payload for changing settings.
type UpdateSettingsRequest struct {
	DefaultOCMPercent    *Amount `json:"defaultOcmPercent" binding:"omitempty,non_negative"`
	DefaultProfitPercent *Amount `json:"defaultProfitPercent" binding:"omitempty,non_negative"`
	DefaultTaxPercent    *Amount `json:"defaultTaxPercent" binding:"omitempty,non_negative"`
	CurrencySymbol       *string `json:"currencySymbol" binding:"omitempty,max=8"`
	RemoteURL            *string `json:"remoteUrl" binding:"omitempty,url"`
	RemoteAPIKey         *string `json:"remoteApiKey"`
}

// GetSettings handles reading the settings.
// @Summary     Get settings
// @Tags        settings
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} models.AppSettings "Settings"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.settingsService.GetSettings()})
}

// UpdateSettings handles a partial update of the settings.
// @Summary     Update settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body UpdateSettingsRequest true "Fields to change"
// @Success     200 {object} models.AppSettings "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	settings, err := h.settingsService.UpdateSettings(models.SettingsPatch{
		DefaultOCMPercent:    req.DefaultOCMPercent.ptr(),
		DefaultProfitPercent: req.DefaultProfitPercent.ptr(),
		DefaultTaxPercent:    req.DefaultTaxPercent.ptr(),
		CurrencySymbol:       req.CurrencySymbol,
		RemoteURL:            req.RemoteURL,
		RemoteAPIKey:         req.RemoteAPIKey,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// ResetSettings handles restoring the default settings.
// @Summary     Reset settings
// @Tags        settings
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} models.AppSettings "Default settings"
// @Router      /settings/reset [post]
func (h *SettingsHandler) ResetSettings(c *gin.Context) {
	settings, err := h.settingsService.ResetSettings()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// ExportSettings handles downloading the settings file.
// @Summary     Export settings
// @Tags        settings
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {file} file "pow_settings_{date}.json"
// @Router      /settings/export [get]
func (h *SettingsHandler) ExportSettings(c *gin.Context) {
	data, name, err := h.settingsService.ExportSettings()
	if err != nil {
		respondWithError(c, err)
		return
	}
	sendDownload(c, name, "application/json", data)
}

// ImportSettings handles merging an uploaded settings file.
// @Summary     Import settings
// @Tags        settings
// @Accept      json,multipart/form-data
// @Produce     json
// @Security    ApiKeyAuth
// @Param       file formData file false "Settings file"
// @Success     200 {object} models.AppSettings "Merged settings"
// @Failure     400 {object} ErrorResponse "Invalid settings file"
// @Router      /settings/import [post]
func (h *SettingsHandler) ImportSettings(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.ImportSettings(data)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
