package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/cache"
	"github.com/andresuchdata/salescast/backend-go/internal/config"
	"github.com/andresuchdata/salescast/backend-go/internal/drive"
	"github.com/andresuchdata/salescast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/salescast/backend-go/internal/service"
	"github.com/andresuchdata/salescast/backend-go/pkg/logger"
	"github.com/gorilla/mux"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Setup(cfg.Server.Mode)
	logger.SetLevel(cfg.LogLevel)

	ctx := context.Background()

	// Initialize Google Drive service
	driveService, err := drive.NewServiceFromFile(ctx, cfg.Drive.CredentialsFile)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	// Initialize Database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache disabled")
		dashboardCache = cache.NewNoopDashboardCache()
	}
	analysisCache, err := cache.NewAnalysisCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Analysis cache disabled")
		analysisCache = cache.NewNoopAnalysisCache()
	}

	// Initialize Services
	salesService := service.NewSalesService(
		postgres.NewSalesRepository(db),
		postgres.NewProductRepository(db),
		dashboardCache,
		analysisCache,
	)
	ingestService := drive.NewIngestService(driveService, salesService)

	// Register routes
	r := mux.NewRouter()
	drive.NewHandler(driveService, ingestService, cfg.Drive.RootFolder).RegisterRoutes(r)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}
	logger.Log.Info().Str("addr", srv.Addr).Msg("Drive ingest server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Log.Fatal().Err(err).Msg("Drive ingest server stopped")
	}
}
