package middleware

import (
	"math"
	"sync"

	"golang.org/x/time/rate"
)

// LimiterPair holds both tiers' token buckets for one client IP
type LimiterPair struct {
	Normal *rate.Limiter
	Cached *rate.Limiter
}

// GetNormalTokens returns the whole tokens left in the normal tier
func (lp *LimiterPair) GetNormalTokens() int {
	return int(math.Floor(lp.Normal.Tokens()))
}

// GetCachedTokens returns the whole tokens left in the cached tier
func (lp *LimiterPair) GetCachedTokens() int {
	return int(math.Floor(lp.Cached.Tokens()))
}

// IPRateLimiter hands out a LimiterPair per client IP. The normal tier
// gates full resolutions; the cached tier admits extra requests that may
// only be served from the persistent store.
type IPRateLimiter struct {
	mu          sync.RWMutex
	pairs       map[string]*LimiterPair
	normalRate  rate.Limit
	normalBurst int
	cachedRate  rate.Limit
	cachedBurst int
}

// NewIPRateLimiter creates a two-tier per-IP rate limiter
func NewIPRateLimiter(normalRate rate.Limit, normalBurst int, cachedRate rate.Limit, cachedBurst int) *IPRateLimiter {
	return &IPRateLimiter{
		pairs:       make(map[string]*LimiterPair),
		normalRate:  normalRate,
		normalBurst: normalBurst,
		cachedRate:  cachedRate,
		cachedBurst: cachedBurst,
	}
}

// GetNormalLimit returns the normal tier burst limit
func (i *IPRateLimiter) GetNormalLimit() int {
	return i.normalBurst
}

// GetCachedLimit returns the cached tier burst limit
func (i *IPRateLimiter) GetCachedLimit() int {
	return i.cachedBurst
}

// GetLimiter returns the pair for ip, creating it on first sight
func (i *IPRateLimiter) GetLimiter(ip string) *LimiterPair {
	i.mu.RLock()
	pair, ok := i.pairs[ip]
	i.mu.RUnlock()
	if ok {
		return pair
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if pair, ok := i.pairs[ip]; ok {
		return pair
	}
	pair = &LimiterPair{
		Normal: rate.NewLimiter(i.normalRate, i.normalBurst),
		Cached: rate.NewLimiter(i.cachedRate, i.cachedBurst),
	}
	i.pairs[ip] = pair
	return pair
}
