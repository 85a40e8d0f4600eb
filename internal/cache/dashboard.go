package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/config"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const dashboardOverviewKeyPrefix = "dashboard:overview"

type DashboardCache interface {
	GetOverview(ctx context.Context, userID int64) (*domain.DashboardOverview, bool, error)
	SetOverview(ctx context.Context, userID int64, overview *domain.DashboardOverview) error
	Invalidate(ctx context.Context, userID int64) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg, cfg.DashboardTTLSeconds)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetOverview(ctx context.Context, userID int64) (*domain.DashboardOverview, bool, error) {
	var overview domain.DashboardOverview
	found, err := getJSON(ctx, c.client, dashboardOverviewKey(userID), &overview)
	if err != nil || !found {
		return nil, false, err
	}
	return &overview, true, nil
}

func (c *redisDashboardCache) SetOverview(ctx context.Context, userID int64, overview *domain.DashboardOverview) error {
	return setJSON(ctx, c.client, dashboardOverviewKey(userID), overview, c.ttl)
}

func (c *redisDashboardCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, dashboardOverviewKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (n *noopDashboardCache) GetOverview(ctx context.Context, userID int64) (*domain.DashboardOverview, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetOverview(ctx context.Context, userID int64, overview *domain.DashboardOverview) error {
	return nil
}

func (n *noopDashboardCache) Invalidate(ctx context.Context, userID int64) error {
	return nil
}

func dashboardOverviewKey(userID int64) string {
	return fmt.Sprintf("%s:user:%d", dashboardOverviewKeyPrefix, userID)
}
