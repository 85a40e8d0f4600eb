package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/andresuchdata/salescast/backend-go/internal/config"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardOverviewKey_StablePerUser(t *testing.T) {
	assert.Equal(t, "dashboard:overview:user:7", dashboardOverviewKey(7))
	assert.Equal(t, dashboardOverviewKey(7), dashboardOverviewKey(7))
	assert.NotEqual(t, dashboardOverviewKey(7), dashboardOverviewKey(8))
}

func TestAnalysisKey_SharesProductPrefix(t *testing.T) {
	month := analysisKey(7, 3, forecast.GranularityMonth)
	week := analysisKey(7, 3, forecast.GranularityWeek)

	assert.Equal(t, "analysis:user:7:product:3:month", month)
	assert.NotEqual(t, month, week)
	assert.True(t, strings.HasPrefix(week, analysisProductPrefix(7, 3)))
	// product 3 prefix must not swallow product 30
	assert.False(t, strings.HasPrefix(analysisKey(7, 30, forecast.GranularityMonth), analysisProductPrefix(7, 3)))
}

func TestNewCaches_DisabledReturnsNoop(t *testing.T) {
	ctx := context.Background()

	dash, err := NewDashboardCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, dash.SetOverview(ctx, 1, &domain.DashboardOverview{TotalProducts: 3}))
	got, found, err := dash.GetOverview(ctx, 1)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)

	analysis, err := NewAnalysisCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	_, found, err = analysis.GetAnalysis(ctx, 1, 2, forecast.GranularityMonth)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, analysis.InvalidateProduct(ctx, 1, 2))
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := buildRedisOptions(config.CacheConfig{RedisPassword: "pw", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildRedisOptions(config.CacheConfig{RedisURL: "redis://cache:6380/1"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 1, opts.DB)

	_, err = buildRedisOptions(config.CacheConfig{RedisURL: "::not a url"})
	assert.Error(t, err)
}
