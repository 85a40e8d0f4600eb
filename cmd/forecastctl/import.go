package main

import (
	"fmt"
	"os"

	"github.com/andresuchdata/salescast/backend-go/internal/config"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/drive"
	"github.com/andresuchdata/salescast/backend-go/internal/ingest"
	"github.com/andresuchdata/salescast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/salescast/backend-go/internal/service"
	"github.com/andresuchdata/salescast/backend-go/internal/storage"
	"github.com/andresuchdata/salescast/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

type importTotals struct {
	files    int
	imported int
	skipped  int
}

func (t *importTotals) add(r *domain.ImportResult) {
	t.files++
	t.imported += r.Imported
	t.skipped += r.Skipped
}

func runImport(c *cli.Context) error {
	ctx := c.Context
	userID := c.Int64("user-id")
	productID := c.Int64("product-id")
	files := c.StringSlice("file")
	prefix := c.String("bucket-prefix")
	folder := c.String("drive-folder")

	if len(files) == 0 && prefix == "" && folder == "" {
		return fmt.Errorf("one of --file, --bucket-prefix or --drive-folder is required")
	}

	db := dbFrom(c)
	sales := service.NewSalesService(postgres.NewSalesRepository(db), postgres.NewProductRepository(db), nil, nil)
	var totals importTotals

	// 1. Local files
	for _, path := range files {
		format, err := ingest.DetectFormat(path)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		result, err := sales.Import(ctx, userID, productID, f, format)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		logger.Log.Info().Str("file", path).Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("file imported")
		totals.add(result)
	}

	// 2. Bucket objects
	if prefix != "" {
		cfg := config.Load().Storage
		if !cfg.Enabled() {
			return fmt.Errorf("--bucket-prefix needs STORAGE_ENDPOINT and STORAGE_BUCKET")
		}
		store, err := storage.NewMinioClient(cfg)
		if err != nil {
			return err
		}
		if err := importObjects(c, store, sales, prefix, &totals); err != nil {
			return err
		}
	}

	// 3. Drive folder
	if folder != "" {
		driveService, err := drive.NewServiceFromFile(ctx, config.Load().Drive.CredentialsFile)
		if err != nil {
			return err
		}
		results, err := drive.NewIngestService(driveService, sales).IngestFolder(ctx, userID, productID, folder)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Error != "" {
				logger.Log.Warn().Str("file", r.Name).Str("error", r.Error).Msg("drive file skipped")
				continue
			}
			totals.add(&domain.ImportResult{Imported: r.Imported, Skipped: r.Skipped})
		}
	}

	logger.Log.Info().
		Int("files", totals.files).
		Int("imported", totals.imported).
		Int("skipped", totals.skipped).
		Msg("import finished")
	return nil
}

func importObjects(c *cli.Context, store storage.ObjectStorage, sales *service.SalesService, prefix string, totals *importTotals) error {
	ctx := c.Context
	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return err
	}

	for _, obj := range objects {
		format, err := ingest.DetectFormat(obj.Key)
		if err != nil {
			logger.Log.Debug().Str("key", obj.Key).Msg("skipping unsupported object")
			continue
		}

		body, err := store.OpenObject(ctx, obj.Key)
		if err != nil {
			return err
		}
		result, err := sales.Import(ctx, c.Int64("user-id"), c.Int64("product-id"), body, format)
		body.Close()
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", obj.Key, err)
		}
		logger.Log.Info().Str("key", obj.Key).Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("object imported")
		totals.add(result)
	}
	return nil
}
