// Package server assembles the HTTP router.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "powcost/internal/docs" // swagger spec
	apperrors "powcost/internal/errors"
	"powcost/internal/handlers"
	"powcost/internal/middleware"
	"powcost/internal/services"
)

// Services are the business services exposed over HTTP.
type Services struct {
	Catalog  services.CatalogServicer
	Projects services.ProjectServicer
	Storage  services.StorageServicer
	Settings services.SettingsServicer
	Sync     services.SyncServicer
}

// Options configure the router's outer layer.
type Options struct {
	// APIKey guards /api/v1; empty leaves it open.
	APIKey string
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.APIKeyHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter wires middleware, handlers and routes.
func NewRouter(svc Services, opts Options) *gin.Engine {
	itemHandler := handlers.NewItemHandler(svc.Catalog)
	projectHandler := handlers.NewProjectHandler(svc.Projects)
	storageHandler := handlers.NewStorageHandler(svc.Storage)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings)
	remoteHandler := handlers.NewRemoteHandler(svc.Sync)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	router.NoRoute(func(c *gin.Context) {
		middleware.RenderError(c, apperrors.ErrNotFound)
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": svc.Storage.Status()})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(opts.APIKey))

	items := v1.Group("/items")
	items.GET("", itemHandler.GetItems)
	items.POST("", itemHandler.CreateItem)
	items.GET("/export", itemHandler.ExportItems)
	items.POST("/import", itemHandler.ImportItems)
	items.POST("/sample", itemHandler.SeedSampleData)
	items.GET("/:id", itemHandler.GetItem)
	items.PUT("/:id", itemHandler.UpdateItem)
	items.DELETE("/:id", itemHandler.DeleteItem)

	projects := v1.Group("/projects")
	projects.GET("", projectHandler.GetProjects)
	projects.POST("", projectHandler.CreateProject)
	projects.GET("/export", storageHandler.ExportProjects)
	projects.POST("/import", storageHandler.ImportProject)
	projects.POST("/import-all", storageHandler.ImportProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.POST("/:id/duplicate", projectHandler.DuplicateProject)
	projects.GET("/:id/bundle", projectHandler.GetBundle)
	projects.GET("/:id/export", storageHandler.ExportProject)
	projects.GET("/:id/summary", projectHandler.GetSummary)
	projects.GET("/:id/workbook", projectHandler.GetWorkbook)
	projects.GET("/:id/indirect-costs", projectHandler.GetIndirectCosts)
	projects.PUT("/:id/indirect-costs", projectHandler.SetIndirectCosts)
	projects.GET("/:id/items", projectHandler.GetProjectItems)
	projects.POST("/:id/items", projectHandler.AddProjectItem)
	projects.PUT("/:id/items/:itemId", projectHandler.UpdateProjectItem)
	projects.DELETE("/:id/items/:itemId", projectHandler.RemoveProjectItem)

	storage := v1.Group("/storage")
	storage.GET("/status", storageHandler.GetStatus)
	storage.POST("/initialize", storageHandler.Initialize)
	storage.POST("/load", storageHandler.Load)
	storage.GET("/backups", storageHandler.ListBackups)
	storage.POST("/backups", storageHandler.CreateBackup)
	storage.POST("/backups/:date/restore", storageHandler.RestoreBackup)
	storage.POST("/restore", storageHandler.RestoreUpload)
	storage.POST("/reset", storageHandler.ResetData)

	v1.GET("/settings", settingsHandler.GetSettings)
	v1.PUT("/settings", settingsHandler.UpdateSettings)
	v1.POST("/settings/reset", settingsHandler.ResetSettings)
	v1.GET("/settings/export", settingsHandler.ExportSettings)
	v1.POST("/settings/import", settingsHandler.ImportSettings)

	remote := v1.Group("/remote")
	remote.GET("/status", remoteHandler.GetStatus)
	remote.POST("/test", remoteHandler.TestConnection)
	remote.POST("/push", remoteHandler.Push)
	remote.POST("/pull", remoteHandler.PullCatalog)
	remote.POST("/pull-projects", remoteHandler.PullProjects)

	return router
}
