package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/salescast/backend-go/internal/config"
	"github.com/andresuchdata/salescast/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/salescast/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newUserIDFlag(required bool) *cli.Int64Flag {
	return &cli.Int64Flag{
		Name:     "user-id",
		Usage:    "Owner of the products to process",
		Required: required,
	}
}

func initDB(c *cli.Context) error {
	db, err := sqlx.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, postgres.Wrap(db, config.Load().Database.MaxConcurrency))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *postgres.DB {
	return c.Context.Value(dbKey{}).(*postgres.DB)
}

func main() {
	cfg := config.Load()
	logger.Setup("release")
	logger.SetLevel(cfg.LogLevel)

	app := &cli.App{
		Name:  "forecastctl",
		Usage: "Operate the sales forecasting backend",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply the database schema",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					if err := dbFrom(c).Migrate(c.Context); err != nil {
						return err
					}
					logger.Log.Info().Msg("schema applied")
					return nil
				},
			},
			{
				Name:  "import",
				Usage: "Import sales history files for a product",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newUserIDFlag(true),
					&cli.Int64Flag{
						Name:     "product-id",
						Usage:    "Product the sales belong to",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "file",
						Usage: "Local CSV, JSON or XLSX file (repeatable)",
					},
					&cli.StringFlag{
						Name:  "bucket-prefix",
						Usage: "Import every supported object under this prefix of the storage bucket",
					},
					&cli.StringFlag{
						Name:    "drive-folder",
						Usage:   "Import every supported file in this Google Drive folder id",
						EnvVars: []string{"DRIVE_IMPORT_FOLDER"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runImport,
			},
			{
				Name:  "forecast",
				Usage: "Regenerate forecasts and alerts for many products",
				Flags: []cli.Flag{
					newDBURLFlag(),
					newUserIDFlag(false),
					&cli.IntFlag{
						Name:    "days-ahead",
						Usage:   "Forecast horizon in days (1-90)",
						Value:   cfg.Forecast.DefaultHorizon,
						EnvVars: []string{"FORECAST_DEFAULT_HORIZON"},
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Concurrent products",
						Value:   cfg.Forecast.Workers,
						EnvVars: []string{"FORECAST_WORKERS"},
					},
					&cli.StringFlag{
						Name:  "export-prefix",
						Usage: "Upload forecast and summary CSVs under this bucket prefix",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runForecast,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("forecastctl failed")
	}
}
