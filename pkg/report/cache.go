package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amrwatch/surveillance/pkg/analysis"
	"github.com/amrwatch/surveillance/pkg/common/logger"
	"github.com/amrwatch/surveillance/pkg/common/models"
	"github.com/redis/go-redis/v9"
)

// RateCache keeps computed rate tables in Redis so repeated dashboard
// queries with identical filters skip the recount. Cache failures only
// log; the caller always gets a freshly computed table on a miss.
type RateCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRateCache(client *redis.Client, ttl time.Duration) *RateCache {
	return &RateCache{client: client, ttl: ttl}
}

func CacheKey(antibiotics []string, filter analysis.Filter) string {
	year := ""
	if filter.Year != nil {
		year = strconv.Itoa(*filter.Year)
	}
	return fmt.Sprintf("rates:%s:%s:%s", strings.Join(antibiotics, ","), filter.Organism, year)
}

func (c *RateCache) Get(ctx context.Context, key string) ([]models.RateRecord, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Warn("rate cache read failed")
		}
		return nil, false
	}
	var records []models.RateRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Log.WithError(err).Warn("rate cache entry corrupt")
		return nil, false
	}
	return records, true
}

func (c *RateCache) Set(ctx context.Context, key string, records []models.RateRecord) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(records)
	if err != nil {
		logger.Log.WithError(err).Warn("rate cache encode failed")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Warn("rate cache write failed")
	}
}

// Invalidate drops all cached rate tables; called when the record set
// grows.
func (c *RateCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, "rates:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Log.WithError(err).Warn("rate cache invalidation failed")
		}
	}
	if err := iter.Err(); err != nil {
		logger.Log.WithError(err).Warn("rate cache scan failed")
	}
}
