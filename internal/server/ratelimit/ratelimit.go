// Package ratelimit provides per-client, per-endpoint token bucket rate limiting.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type bucket struct {
	limiter    *rate.Limiter
	limit      int
	lastAccess time.Time
}

// Limiter manages token buckets keyed by client and endpoint.
type Limiter struct {
	config *Config

	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time

	cleanupStop chan struct{}
	stopOnce    sync.Once
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			IdleTTL:         time.Hour,
		}
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = time.Hour
	}

	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupStop = make(chan struct{})
		go l.cleanup(config.CleanupInterval)
	}

	return l
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
func (l *Limiter) Allow(clientID string, path string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil {
		endpoint = &EndpointConfig{
			Path:   "*",
			Method: "*",
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if endpoint.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.getBucket(clientID+"|"+endpoint.key(), endpoint, now)

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	info := Info{
		Allowed:   allowed,
		Limit:     b.limit,
		Remaining: max(0, int(math.Floor(tokens))),
		ResetTime: now.Add(untilTokens(b.limiter, float64(b.limiter.Burst())-tokens)),
	}
	if !allowed {
		info.RetryAfter = untilTokens(b.limiter, 1-tokens)
	}
	return allowed, info
}

// untilTokens is how long the limiter needs to accumulate n more tokens.
func untilTokens(l *rate.Limiter, n float64) time.Duration {
	if n <= 0 || l.Limit() <= 0 {
		return 0
	}
	return time.Duration(n / float64(l.Limit()) * float64(time.Second))
}

func (l *Limiter) getBucket(key string, endpoint *EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		b.lastAccess = now
		return b
	}

	burst := endpoint.Burst
	if burst <= 0 {
		burst = endpoint.Limit
	}
	every := endpoint.Window / time.Duration(endpoint.Limit)
	b := &bucket{
		limiter:    rate.NewLimiter(rate.Every(every), burst),
		limit:      endpoint.Limit,
		lastAccess: now,
	}
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupBuckets removes buckets idle for longer than IdleTTL.
func (l *Limiter) cleanupBuckets() {
	cutoff := l.now().Add(-l.config.IdleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}

// Len returns the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
