package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	viper.Reset()
	setDefaults()

	cfg := fromViper()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "salescast", cfg.Database.DBName)
	assert.Equal(t, int64(20), cfg.Database.MaxConcurrency)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.DashboardTTLSeconds)
	assert.Equal(t, 30, cfg.Forecast.DefaultHorizon)
	assert.Equal(t, 4, cfg.Forecast.Workers)
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromViper_Overrides(t *testing.T) {
	viper.Reset()
	setDefaults()
	viper.Set("FORECAST_WORKERS", 8)
	viper.Set("STORAGE_ENDPOINT", "minio:9000")
	viper.Set("STORAGE_BUCKET", "sales")

	cfg := fromViper()

	assert.Equal(t, 8, cfg.Forecast.Workers)
	assert.True(t, cfg.Storage.Enabled())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())

	d.URL = "postgres://u:p@db/n"
	assert.Equal(t, "postgres://u:p@db/n", d.DSN())
}
