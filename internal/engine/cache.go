package engine

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// cacheKey identifies one cached evaluation pass. Sort order is not part of
// the key: the cached value keeps the unsorted feasible set and re-sorting is
// cheap compared to re-running the evaluators over the whole catalog.
type cacheKey struct {
	budget   string
	strategy Strategy
}

// resultSet is the cached product of one full evaluation pass: every feasible
// opportunity, unsorted, plus the aggregate totals.
type resultSet struct {
	opportunities []Opportunity
	totalProfit   decimal.Decimal
	generatedAt   time.Time
}

type cacheEntry struct {
	set       *resultSet
	createdAt time.Time
}

// ResultCache memoizes evaluation passes per (budget, strategy) with a fixed
// TTL. Expiry is checked lazily on access — no background sweeper — so an
// entry can linger up to one TTL past its last read; that staleness window is
// a deliberate trade for not running a janitor goroutine. Concurrent misses
// for the same key coalesce into a single computation via singleflight.
// Entries are replaced atomically under the mutex; readers never observe a
// partially written set. The clock is injected so tests control expiry.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*cacheEntry
	group   singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

// NewResultCache creates a cache with the given TTL. A nil clock selects
// time.Now.
func NewResultCache(ttl time.Duration, now func() time.Time) *ResultCache {
	if now == nil {
		now = time.Now
	}
	return &ResultCache{
		entries: make(map[cacheKey]*cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// GetOrCompute returns the cached result set for (budget, strategy), running
// compute on a miss, after expiry, or when force is set. All concurrent
// missing callers for one key observe the single in-flight computation.
func (rc *ResultCache) GetOrCompute(budget decimal.Decimal, strategy Strategy, force bool,
	compute func() (*resultSet, error)) (*resultSet, error) {

	key := cacheKey{budget.String(), strategy}

	if force {
		// Forced refresh bypasses both the cache and the flight group:
		// the caller explicitly asked for fresh data.
		set, err := compute()
		if err != nil {
			return nil, err
		}
		rc.store(key, set)
		return set, nil
	}

	if set, ok := rc.lookup(key); ok {
		return set, nil
	}

	result, err, _ := rc.group.Do(key.budget+":"+strategy.String(), func() (interface{}, error) {
		// A waiter that arrives after the leader stored the entry must
		// not recompute.
		if set, ok := rc.lookup(key); ok {
			return set, nil
		}
		set, err := compute()
		if err != nil {
			return nil, err
		}
		rc.store(key, set)
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*resultSet), nil
}

func (rc *ResultCache) lookup(key cacheKey) (*resultSet, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	e, ok := rc.entries[key]
	if !ok {
		return nil, false
	}
	if rc.now().Sub(e.createdAt) >= rc.ttl {
		return nil, false
	}
	return e.set, true
}

func (rc *ResultCache) store(key cacheKey, set *resultSet) {
	rc.mu.Lock()
	rc.entries[key] = &cacheEntry{set: set, createdAt: rc.now()}
	rc.mu.Unlock()
}
