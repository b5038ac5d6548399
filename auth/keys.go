package auth

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// KeyFetchFunc fetches the current signing key set from the remote
// key-set endpoint.
type KeyFetchFunc func(ctx context.Context) (interface{}, error)

var errKeyFetchLimited = errors.New("key-set fetch limit reached and no keys cached")

// KeyProvider caches the provider's signing keys process-wide and
// bounds refreshes to maxPerMinute upstream fetches in any rolling
// minute. When the limit is hit the cached set is served even if
// stale, so a burst of unknown-kid tokens during key rotation cannot
// hammer the key-set endpoint.
type KeyProvider struct {
	fetch        KeyFetchFunc
	ttl          time.Duration
	maxPerMinute int
	now          func() time.Time

	mu       sync.Mutex
	keys     interface{}
	fetched  time.Time
	attempts []time.Time
}

func NewKeyProvider(fetch KeyFetchFunc, ttl time.Duration, maxPerMinute int) *KeyProvider {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if maxPerMinute <= 0 {
		maxPerMinute = 5
	}
	return &KeyProvider{
		fetch:        fetch,
		ttl:          ttl,
		maxPerMinute: maxPerMinute,
		now:          time.Now,
	}
}

// KeyFunc is the validator's key lookup. The mutex is held across the
// upstream fetch: refresh replaces the cache wholesale and concurrent
// requests wait for one fetch instead of racing their own.
func (p *KeyProvider) KeyFunc(ctx context.Context) (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if p.keys != nil && now.Sub(p.fetched) < p.ttl {
		return p.keys, nil
	}

	p.prune(now)
	if len(p.attempts) >= p.maxPerMinute {
		if p.keys != nil {
			return p.keys, nil
		}
		return nil, errKeyFetchLimited
	}
	p.attempts = append(p.attempts, now)

	keys, err := p.fetch(ctx)
	if err != nil {
		if p.keys != nil {
			return p.keys, nil
		}
		return nil, errors.Wrap(err, "fetch key set")
	}
	p.keys = keys
	p.fetched = now
	return keys, nil
}

func (p *KeyProvider) prune(now time.Time) {
	cutoff := now.Add(-time.Minute)
	kept := p.attempts[:0]
	for _, t := range p.attempts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	p.attempts = kept
}
