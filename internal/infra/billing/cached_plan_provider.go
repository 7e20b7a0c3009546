package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
)

const planKeyPrefix = "glow:plan:"

// CachedPlanProvider keeps plan lookups in Redis for ttl. A Redis failure
// falls back to the wrapped provider.
type CachedPlanProvider struct {
	next   quota.PlanProvider
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedPlanProvider(
	next quota.PlanProvider,
	client *redis.Client,
	ttl time.Duration,
	logger *zap.Logger,
) *CachedPlanProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedPlanProvider{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func planKey(tenantID uint) string {
	return fmt.Sprintf("%s%d", planKeyPrefix, tenantID)
}

func (c *CachedPlanProvider) GetActivePlan(ctx context.Context, tenantID uint) (quota.PlanTier, error) {
	key := planKey(tenantID)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var plan quota.PlanTier
		if jsonErr := json.Unmarshal(raw, &plan); jsonErr == nil {
			return plan, nil
		}
		c.logger.Warn("discarding corrupt plan cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("plan cache read failed", zap.String("key", key), zap.Error(err))
	}

	plan, err := c.next.GetActivePlan(ctx, tenantID)
	if err != nil {
		return quota.PlanTier{}, err
	}

	if data, err := json.Marshal(plan); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("plan cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return plan, nil
}

// Invalidate drops the cached plan, e.g. after a billing webhook.
func (c *CachedPlanProvider) Invalidate(ctx context.Context, tenantID uint) error {
	return c.client.Del(ctx, planKey(tenantID)).Err()
}

var _ quota.PlanProvider = (*CachedPlanProvider)(nil)
