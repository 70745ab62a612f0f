package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/benvon/smart-notes/internal/models"
)

// AnalysisCacheInterface defines the cache surface used by the analyze endpoint
type AnalysisCacheInterface interface {
	Get(ctx context.Context, content string) (*models.AnalysisResult, error)
	Set(ctx context.Context, content string, result *models.AnalysisResult) error
}

// AnalysisCache caches analysis results in Redis keyed by a content hash.
// The analyzer is deterministic, so identical text always maps to the same
// result and entries never need invalidation beyond the TTL.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalysisCache creates a cache over an existing Redis client
func NewAnalysisCache(client *redis.Client, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{client: client, ttl: ttl}
}

// Get returns the cached result for the content, or nil on a miss
func (c *AnalysisCache) Get(ctx context.Context, content string) (*models.AnalysisResult, error) {
	data, err := c.client.Get(ctx, cacheKey(content)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis cache: %w", err)
	}

	result := &models.AnalysisResult{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached analysis: %w", err)
	}
	return result, nil
}

// Set stores the result for the content with the cache TTL
func (c *AnalysisCache) Set(ctx context.Context, content string, result *models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis for cache: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(content), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write analysis cache: %w", err)
	}
	return nil
}

func cacheKey(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "analysis:" + hex.EncodeToString(sum[:])
}

var _ AnalysisCacheInterface = (*AnalysisCache)(nil)
