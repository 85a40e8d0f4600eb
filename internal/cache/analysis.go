package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/config"
	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/redis/go-redis/v9"
)

const analysisKeyPrefix = "analysis"

// AnalysisCache stores product analysis views until the product's sales
// change.
type AnalysisCache interface {
	GetAnalysis(ctx context.Context, userID, productID int64, g forecast.Granularity) (*domain.ProductAnalysis, bool, error)
	SetAnalysis(ctx context.Context, userID, productID int64, analysis *domain.ProductAnalysis) error
	InvalidateProduct(ctx context.Context, userID, productID int64) error
}

type redisAnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopAnalysisCache struct{}

func NewAnalysisCache(cfg config.CacheConfig) (AnalysisCache, error) {
	if !cfg.Enabled {
		return &noopAnalysisCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg, cfg.AnalysisTTLSeconds)
	if err != nil {
		return nil, err
	}

	return &redisAnalysisCache{client: client, ttl: ttl}, nil
}

func NewNoopAnalysisCache() AnalysisCache {
	return &noopAnalysisCache{}
}

func (c *redisAnalysisCache) GetAnalysis(ctx context.Context, userID, productID int64, g forecast.Granularity) (*domain.ProductAnalysis, bool, error) {
	var analysis domain.ProductAnalysis
	found, err := getJSON(ctx, c.client, analysisKey(userID, productID, g), &analysis)
	if err != nil || !found {
		return nil, false, err
	}
	return &analysis, true, nil
}

func (c *redisAnalysisCache) SetAnalysis(ctx context.Context, userID, productID int64, analysis *domain.ProductAnalysis) error {
	return setJSON(ctx, c.client, analysisKey(userID, productID, analysis.Granularity), analysis, c.ttl)
}

func (c *redisAnalysisCache) InvalidateProduct(ctx context.Context, userID, productID int64) error {
	return deleteKeysWithPrefix(ctx, c.client, analysisProductPrefix(userID, productID), scanBatchSize)
}

func (n *noopAnalysisCache) GetAnalysis(ctx context.Context, userID, productID int64, g forecast.Granularity) (*domain.ProductAnalysis, bool, error) {
	return nil, false, nil
}

func (n *noopAnalysisCache) SetAnalysis(ctx context.Context, userID, productID int64, analysis *domain.ProductAnalysis) error {
	return nil
}

func (n *noopAnalysisCache) InvalidateProduct(ctx context.Context, userID, productID int64) error {
	return nil
}

func analysisProductPrefix(userID, productID int64) string {
	return fmt.Sprintf("%s:user:%d:product:%d:", analysisKeyPrefix, userID, productID)
}

func analysisKey(userID, productID int64, g forecast.Granularity) string {
	return analysisProductPrefix(userID, productID) + string(g)
}
