package dedupe

import (
	"context"
	"errors"
	"time"

	"walletlink/internal/domain"
	"walletlink/internal/usecase"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisGuard serializes silent-authorization attempts per (dApp, interaction)
// across wallet processes. Each guard instance releases only keys it
// acquired itself, so a crashed peer's claim simply expires.
type redisGuard struct {
	client *redis.Client
	owner  string
	ttl    time.Duration
}

var redisReleaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewRedisGuard(addr, password string, db int, ttl time.Duration) (usecase.InteractionGuard, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisGuard{
		client: client,
		owner:  uuid.NewString(),
		ttl:    ttl,
	}, nil
}

func (g *redisGuard) Acquire(ctx context.Context, dapp domain.AccountAddress, interaction domain.InteractionID) (bool, error) {
	return g.client.SetNX(ctx, guardKey(dapp, interaction), g.owner, g.ttl).Result()
}

func (g *redisGuard) Release(ctx context.Context, dapp domain.AccountAddress, interaction domain.InteractionID) error {
	return redisReleaseScript.Run(ctx, g.client, []string{guardKey(dapp, interaction)}, g.owner).Err()
}

func guardKey(dapp domain.AccountAddress, interaction domain.InteractionID) string {
	return "interaction:" + string(dapp) + ":" + string(interaction)
}
