package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"powcost/internal/services"
)

// StorageHandler handles backend status, project files and backups.
type StorageHandler struct {
	storageService services.StorageServicer
}

// NewStorageHandler creates a new StorageHandler.
func NewStorageHandler(storageService services.StorageServicer) *StorageHandler {
	return &StorageHandler{storageService: storageService}
}

// RestoreBackupURI binds the backup date path parameter.
type RestoreBackupURI struct {
	Date string `uri:"date" binding:"required,backup_date"`
}

// GetStatus handles reporting the active backend.
// @Summary     Storage status
// @Tags        storage
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} backend.Status "Active backend"
// @Router      /storage/status [get]
func (h *StorageHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": h.storageService.Status()})
}

// Initialize handles re-probing the data directory and loading from it.
// @Summary     Initialize storage
// @Description Probe the data directory; when writable, switch to file storage and load its contents
// @Tags        storage
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} backend.Status "Active backend"
// @Router      /storage/initialize [post]
func (h *StorageHandler) Initialize(c *gin.Context) {
	status := h.storageService.Initialize(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": status})
}

// Load handles reloading store data from the file backend.
// @Summary     Load from storage
// @Tags        storage
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.LoadResult "Loaded counts"
// @Failure     409 {object} ErrorResponse "File storage unavailable"
// @Router      /storage/load [post]
func (h *StorageHandler) Load(c *gin.Context) {
	result, err := h.storageService.Load()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateBackup handles writing a full-state backup. The file backend stores
// it under the data directory; the key-value backend returns it as a download.
// @Summary     Create backup
// @Tags        storage
// @Produce     json
// @Security    ApiKeyAuth
// @Success     201 {object} backend.Backup "Backup written"
// @Success     200 {file}   file           "Backup download"
// @Router      /storage/backups [post]
func (h *StorageHandler) CreateBackup(c *gin.Context) {
	backup, err := h.storageService.CreateBackup()
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(backup.Data) > 0 {
		sendDownload(c, backup.FileName, "application/json", backup.Data)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"backup": backup})
}

// ListBackups handles listing backup dates, newest first.
// @Summary     List backups
// @Tags        storage
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {array} string "Backup dates"
// @Router      /storage/backups [get]
func (h *StorageHandler) ListBackups(c *gin.Context) {
	labels, err := h.storageService.ListBackups()
	if err != nil {
		respondWithError(c, err)
		return
	}
	if labels == nil {
		labels = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"backups": labels})
}

// RestoreBackup handles restoring the backup written on a given date.
// @Summary     Restore backup
// @Tags        storage
// @Produce     json
// @Security    ApiKeyAuth
// @Param       date path string true "Backup date (YYYY-MM-DD)"
// @Success     200 {object} MessageResponse "Backup restored"
// @Failure     400 {object} ErrorResponse "Invalid date"
// @Failure     404 {object} ErrorResponse "Backup not found"
// @Failure     409 {object} ErrorResponse "File storage unavailable"
// @Router      /storage/backups/{date}/restore [post]
func (h *StorageHandler) RestoreBackup(c *gin.Context) {
	var uri RestoreBackupURI
	if err := c.ShouldBindUri(&uri); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if err := h.storageService.RestoreBackup(uri.Date); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Backup restored successfully"})
}

// RestoreUpload handles restoring an uploaded full-state backup.
// @Summary     Restore uploaded backup
// @Tags        storage
// @Accept      json,multipart/form-data
// @Produce     json
// @Security    ApiKeyAuth
// @Param       file formData file false "Backup file"
// @Success     200 {object} MessageResponse "Backup restored"
// @Failure     400 {object} ErrorResponse "Unreadable backup"
// @Router      /storage/restore [post]
func (h *StorageHandler) RestoreUpload(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.storageService.RestoreFromData(data); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Backup restored successfully"})
}

// ExportProject handles downloading one project with its items and markups.
// @Summary     Export project
// @Tags        projects
// @Produce     application/json
// @Security    ApiKeyAuth
// @Param       id path string true "Project ID"
// @Success     200 {file}   file          "Project file"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/export [get]
func (h *StorageHandler) ExportProject(c *gin.Context) {
	data, name, err := h.storageService.ExportProject(c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	sendDownload(c, name, "application/json", data)
}

// ImportProject handles uploading a project file. An existing project with
// the same id is replaced.
// @Summary     Import project
// @Tags        projects
// @Accept      json,multipart/form-data
// @Produce     json
// @Security    ApiKeyAuth
// @Param       file formData file false "Project file"
// @Success     201 {object} models.Project "Imported project"
// @Failure     400 {object} ErrorResponse "Unreadable project file"
// @Router      /projects/import [post]
func (h *StorageHandler) ImportProject(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.storageService.ImportProject(data)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// ExportProjects handles downloading every project in one file.
// @Summary     Export all projects
// @Tags        projects
// @Produce     application/json
// @Security    ApiKeyAuth
// @Success     200 {file} file "Projects file"
// @Router      /projects/export [get]
func (h *StorageHandler) ExportProjects(c *gin.Context) {
	data, name, err := h.storageService.ExportProjects()
	if err != nil {
		respondWithError(c, err)
		return
	}
	sendDownload(c, name, "application/json", data)
}

// ImportProjects handles replacing every project from an uploaded file.
// @Summary     Import all projects
// @Tags        projects
// @Accept      json,multipart/form-data
// @Produce     json
// @Security    ApiKeyAuth
// @Param       file formData file false "Projects file"
// @Success     200 {object} services.LoadResult "Imported counts"
// @Failure     400 {object} ErrorResponse "Unreadable projects file"
// @Router      /projects/import-all [post]
func (h *StorageHandler) ImportProjects(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.storageService.ImportProjects(data)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResetData handles clearing every record and restoring default settings.
// @Summary     Reset local data
// @Description Empties the catalog and all projects and restores default settings. Files written by the file backend are kept.
// @Tags        storage
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} MessageResponse "Data reset"
// @Failure     500 {object} ErrorResponse "Write failed"
// @Router      /storage/reset [post]
func (h *StorageHandler) ResetData(c *gin.Context) {
	if err := h.storageService.ResetData(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "All local data has been reset"})
}
