package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "webhook:event:"

// RedisGuard is a ReplayGuard backed by Redis. Admission is a single SET NX,
// atomic across processes, and ids expire after the retention window instead
// of accumulating forever. Size the TTL to the provider's retry window.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

func (g *RedisGuard) AdmitOnce(ctx context.Context, eventID string) (bool, error) {
	admitted, err := g.client.SetNX(ctx, redisKeyPrefix+eventID, 1, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record event id: %w", err)
	}
	return admitted, nil
}
