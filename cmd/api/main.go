package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/afero"

	"powcost/internal/backend"
	"powcost/internal/config"
	"powcost/internal/database"
	"powcost/internal/filemirror"
	"powcost/internal/kv"
	"powcost/internal/logger"
	"powcost/internal/server"
	"powcost/internal/services"
	"powcost/internal/store"
	"powcost/internal/validator"
)

// @title           POW Cost API
// @version         1.0
// @description     Cost catalog, Program of Works projects and cost summaries for construction estimates.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Shared API key configured with API_KEY.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

// openMedium opens the key-value medium for the configured driver.
func openMedium(cfg *config.Config) (kv.Medium, error) {
	if cfg.StoreDriver == config.DriverBadger {
		return kv.OpenBadger(cfg.BadgerPath, logger.Get())
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		_ = dbManager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return kv.NewGormMedium(dbManager.DB(), kv.WithCloser(dbManager.Close)), nil
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	medium, err := openMedium(appConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := medium.Close(); err != nil {
			log.Warnf("medium close error: %v", err)
		}
	}()

	st := store.New(kv.WithQuota(medium, appConfig.StoreCapacity))

	// File mirror falls back to the key-value backend when DATA_DIR is unset
	// or not writable.
	mirror := filemirror.New(afero.NewOsFs(), filemirror.StaticDirectory(appConfig.DataDir), st)
	selector := backend.NewSelector(mirror, backend.NewKVBackend(st))

	// Initialize services
	storageService := services.NewStorageService(st, selector)
	catalogService := services.NewCatalogService(st, storageService)
	svc := server.Services{
		Catalog:  catalogService,
		Projects: services.NewProjectService(st, storageService),
		Storage:  storageService,
		Settings: services.NewSettingsService(st),
		Sync:     services.NewSyncService(st, storageService, &http.Client{Timeout: appConfig.RemoteTimeout}),
	}

	status := storageService.Initialize(context.Background())
	log.Infow("storage ready", "backend", status.Backend, "directory", status.Directory)

	if appConfig.SeedSampleData {
		if _, err := catalogService.SeedSampleData(); err != nil {
			log.Warnf("failed to seed sample data: %v", err)
		}
	}

	validator.Register()
	router := server.NewRouter(svc, server.Options{
		APIKey:         appConfig.APIKey,
		AllowedOrigins: appConfig.CORSAllowedOrigins,
	})

	log.Infof("Starting POW Cost server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
