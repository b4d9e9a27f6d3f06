package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"data-validation/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	runKeyPrefix = "validation:run:"
	latestRunKey = "validation:latest"
)

// ErrCacheMiss is returned when a run is not cached.
var ErrCacheMiss = errors.New("validation run not cached")

// ReportCache keeps recent validation runs in Redis so the API can answer
// without touching MySQL.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

func RunKey(code string) string {
	return runKeyPrefix + code
}

// Store caches run under its code and marks it as the latest run.
func (c *ReportCache) Store(ctx context.Context, run *models.ValidationRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", run.RunCode, err)
	}

	if err := c.client.Set(ctx, RunKey(run.RunCode), string(data), c.ttl).Err(); err != nil {
		return fmt.Errorf("cache run %s: %w", run.RunCode, err)
	}
	if err := c.client.Set(ctx, latestRunKey, run.RunCode, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache latest run: %w", err)
	}
	return nil
}

// Get returns the cached run for code, or ErrCacheMiss.
func (c *ReportCache) Get(ctx context.Context, code string) (*models.ValidationRun, error) {
	data, err := c.client.Get(ctx, RunKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var run models.ValidationRun
	if err := json.Unmarshal([]byte(data), &run); err != nil {
		return nil, fmt.Errorf("decode cached run %s: %w", code, err)
	}
	return &run, nil
}

// Latest returns the most recently stored run, or ErrCacheMiss.
func (c *ReportCache) Latest(ctx context.Context) (*models.ValidationRun, error) {
	code, err := c.client.Get(ctx, latestRunKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return c.Get(ctx, code)
}
