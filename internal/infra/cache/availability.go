package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/service-marketplace/internal/domain/booking"
	"github.com/BruksfildServices01/service-marketplace/internal/metrics"
)

const keyPrefix = "availability"

// AvailabilityCache guarda a resposta de disponibilidade por prestador e data.
// Erros do redis só são logados; quem chama recalcula.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl, log: log}
}

func key(providerID uint, date string) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, providerID, date)
}

func (c *AvailabilityCache) Get(ctx context.Context, providerID uint, date string) ([]string, bool) {
	raw, err := c.client.Get(ctx, key(providerID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("availability cache get failed", zap.Error(err))
		}
		metrics.CacheMisses.Inc()
		return nil, false
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warn("availability cache entry corrupted", zap.String("key", key(providerID, date)), zap.Error(err))
		metrics.CacheMisses.Inc()
		return nil, false
	}

	metrics.CacheHits.Inc()
	return slots, true
}

func (c *AvailabilityCache) Set(ctx context.Context, providerID uint, date string, slots []string) {
	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(providerID, date), raw, c.ttl).Err(); err != nil {
		c.log.Warn("availability cache set failed", zap.Error(err))
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, providerID uint, date string) {
	if err := c.client.Del(ctx, key(providerID, date)).Err(); err != nil {
		c.log.Warn("availability cache invalidate failed", zap.Error(err))
	}
}

// InvalidateProvider remove todas as datas do prestador (troca de grade semanal).
func (c *AvailabilityCache) InvalidateProvider(ctx context.Context, providerID uint) {
	pattern := fmt.Sprintf("%s:%d:*", keyPrefix, providerID)

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("availability cache scan failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("availability cache invalidate failed", zap.Error(err))
	}
}

// Nop é usado quando REDIS_ADDR não está configurado.
type Nop struct{}

func (Nop) Get(context.Context, uint, string) ([]string, bool) { return nil, false }
func (Nop) Set(context.Context, uint, string, []string)        {}
func (Nop) Invalidate(context.Context, uint, string)           {}
func (Nop) InvalidateProvider(context.Context, uint)           {}

var (
	_ domain.SlotCache = (*AvailabilityCache)(nil)
	_ domain.SlotCache = Nop{}
)
