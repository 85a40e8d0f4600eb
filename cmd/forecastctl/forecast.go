package main

import (
	"fmt"

	"github.com/andresuchdata/salescast/backend-go/internal/config"
	"github.com/andresuchdata/salescast/backend-go/internal/pipeline"
	"github.com/andresuchdata/salescast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/salescast/backend-go/internal/service"
	"github.com/andresuchdata/salescast/backend-go/internal/storage"
	"github.com/andresuchdata/salescast/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func runForecast(c *cli.Context) error {
	db := dbFrom(c)
	productRepo := postgres.NewProductRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	alertRepo := postgres.NewAlertRepository(db)

	forecasts := service.NewForecastService(productRepo, salesRepo, forecastRepo, nil, nil)
	alerts := service.NewAlertService(productRepo, salesRepo, forecastRepo, alertRepo, nil)

	cfg := pipeline.DefaultConfig()
	cfg.DaysAhead = c.Int("days-ahead")
	cfg.WorkerCount = c.Int("workers")
	worker := pipeline.NewWorker(forecasts, alerts, cfg)

	exportPrefix := c.String("export-prefix")
	var exporter *pipeline.Exporter
	if exportPrefix != "" {
		storageCfg := config.Load().Storage
		if !storageCfg.Enabled() {
			return fmt.Errorf("--export-prefix needs STORAGE_ENDPOINT and STORAGE_BUCKET")
		}
		store, err := storage.NewMinioClient(storageCfg)
		if err != nil {
			return err
		}
		exporter = pipeline.NewExporter(forecasts, store)
	}

	summary, keys, err := pipeline.NewOrchestrator(productRepo, worker, exporter).
		Run(c.Context, c.Int64("user-id"), exportPrefix)
	if err != nil {
		return err
	}

	logger.Log.Info().
		Int("completed", summary.Completed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Strs("exported", keys).
		Msg("forecast run finished")

	if summary.Failed > 0 {
		return fmt.Errorf("%d products failed", summary.Failed)
	}
	return nil
}
