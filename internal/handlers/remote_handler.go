package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"powcost/internal/services"
)

// RemoteHandler handles synchronization with the hosted store.
type RemoteHandler struct {
	syncService services.SyncServicer
}

// NewRemoteHandler creates a new RemoteHandler.
func NewRemoteHandler(syncService services.SyncServicer) *RemoteHandler {
	return &RemoteHandler{syncService: syncService}
}

// GetStatus handles reporting whether the hosted store is configured.
// @Summary     Remote status
// @Tags        remote
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.RemoteStatus "Remote status"
// @Router      /remote/status [get]
func (h *RemoteHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"remote": h.syncService.Status()})
}

// TestConnection handles checking that the hosted store is reachable.
// @Summary     Test remote connection
// @Tags        remote
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} MessageResponse "Connected"
// @Failure     409 {object} ErrorResponse "Remote not configured"
// @Failure     502 {object} ErrorResponse "Remote request failed"
// @Router      /remote/test [post]
func (h *RemoteHandler) TestConnection(c *gin.Context) {
	if err := h.syncService.TestConnection(c.Request.Context()); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Connection successful"})
}

// Push handles uploading all local data to the hosted store.
// @Summary     Push to remote
// @Tags        remote
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.PushResult "Rows written"
// @Failure     409 {object} ErrorResponse "Remote not configured"
// @Failure     502 {object} ErrorResponse "Remote request failed"
// @Router      /remote/push [post]
func (h *RemoteHandler) Push(c *gin.Context) {
	result, err := h.syncService.PushAll(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PullCatalog handles replacing the catalog from the hosted store.
// @Summary     Pull catalog from remote
// @Tags        remote
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.ImportResult "Items pulled"
// @Failure     409 {object} ErrorResponse "Remote not configured"
// @Failure     502 {object} ErrorResponse "Remote request failed"
// @Router      /remote/pull [post]
func (h *RemoteHandler) PullCatalog(c *gin.Context) {
	result, err := h.syncService.PullCatalog(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PullProjects handles replacing every project from the hosted store.
// @Summary     Pull projects from remote
// @Tags        remote
// @Produce     json
// @Security    ApiKeyAuth
// @Success     200 {object} services.LoadResult "Projects pulled"
// @Failure     409 {object} ErrorResponse "Remote not configured"
// @Failure     502 {object} ErrorResponse "Remote request failed"
// @Router      /remote/pull-projects [post]
func (h *RemoteHandler) PullProjects(c *gin.Context) {
	result, err := h.syncService.PullProjects(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
