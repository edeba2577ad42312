package dedupe

import (
	"context"
	"sync"
	"time"

	"walletlink/internal/domain"
	"walletlink/internal/usecase"
)

type memoryGuard struct {
	mu   sync.Mutex
	now  func() time.Time
	ttl  time.Duration
	held map[string]time.Time
}

type MemoryGuardConfig struct {
	Now func() time.Time
	TTL time.Duration
}

func NewMemoryGuard(cfg MemoryGuardConfig) usecase.InteractionGuard {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Minute
	}
	return &memoryGuard{
		now:  cfg.Now,
		ttl:  cfg.TTL,
		held: make(map[string]time.Time),
	}
}

func (g *memoryGuard) Acquire(_ context.Context, dapp domain.AccountAddress, interaction domain.InteractionID) (bool, error) {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	key := guardKey(dapp, interaction)
	expiry, ok := g.held[key]
	if ok && now.Before(expiry) {
		return false, nil
	}
	g.held[key] = now.Add(g.ttl)
	return true, nil
}

func (g *memoryGuard) Release(_ context.Context, dapp domain.AccountAddress, interaction domain.InteractionID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, guardKey(dapp, interaction))
	return nil
}
