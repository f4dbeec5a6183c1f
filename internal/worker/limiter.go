package worker

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const (
	// minIdleTTL is how long an unused key is kept at minimum
	minIdleTTL = 10 * time.Minute

	// overflowKey is the shared bucket for new keys once maxKeys are tracked
	overflowKey = "\x00overflow"
)

// Limiter keeps one token bucket per key. Keys are provider names for batch
// analysis, client addresses for the HTTP API and hosts for source checks.
// Idle keys expire, and with a key cap set, keys beyond it share one bucket.
type Limiter struct {
	limiters     *gocache.Cache
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
	maxKeys      int // 0 = unbounded
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	ttl := idleTTL(requestsPerSecond, burst)
	cleanup := ttl / 2
	if ttl == gocache.NoExpiration {
		cleanup = 0
	}

	return &Limiter{
		limiters:     gocache.New(ttl, cleanup),
		defaultRate:  rate.Limit(requestsPerSecond),
		defaultBurst: burst,
	}
}

// NewPerMinuteLimiter creates a limiter allowing requestsPerMinute per key, all of which
// may burst. maxKeys caps the number of tracked keys (0 = unbounded).
func NewPerMinuteLimiter(requestsPerMinute, maxKeys int) *Limiter {
	l := NewLimiter(float64(requestsPerMinute)/60, requestsPerMinute)
	if maxKeys > 0 {
		l.maxKeys = maxKeys
	}
	return l
}

// idleTTL is never shorter than the time a drained bucket needs to refill,
// so an evicted key behaves exactly like a kept one.
func idleTTL(requestsPerSecond float64, burst int) time.Duration {
	if requestsPerSecond <= 0 {
		return gocache.NoExpiration
	}
	refill := time.Duration(float64(burst) / requestsPerSecond * float64(time.Second))
	if refill > minIdleTTL {
		return refill
	}
	return minIdleTTL
}

// Wait blocks until key may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow reports whether key may proceed now, consuming a token if so
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

// WaitWithDelay waits for clearance and then an additional delay, such as a robots.txt crawl delay
func (l *Limiter) WaitWithDelay(ctx context.Context, key string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, key); err != nil {
		return err
	}

	if additionalDelay > 0 {
		timer := time.NewTimer(additionalDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// Len returns the number of keys being tracked
func (l *Limiter) Len() int {
	return l.limiters.ItemCount()
}

func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limiter, ok := l.touch(key); ok {
		return limiter
	}

	if l.maxKeys > 0 && l.limiters.ItemCount() >= l.maxKeys {
		l.limiters.DeleteExpired()
		if l.limiters.ItemCount() >= l.maxKeys {
			key = overflowKey
			if limiter, ok := l.touch(key); ok {
				return limiter
			}
		}
	}

	limiter := rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters.SetDefault(key, limiter)
	return limiter
}

// touch returns the limiter for key and restarts its idle timer. l.mu must be held.
func (l *Limiter) touch(key string) (*rate.Limiter, bool) {
	v, found := l.limiters.Get(key)
	if !found {
		return nil, false
	}
	limiter := v.(*rate.Limiter)
	l.limiters.SetDefault(key, limiter)
	return limiter, true
}

// HostKey returns the lowercase host of a URL for use as a limiter key
func HostKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}
	return strings.ToLower(parsed.Hostname()), nil
}
