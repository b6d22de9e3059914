// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// cleanupInterval is how often idle clients are forgotten.
const cleanupInterval = 5 * time.Minute

// clientHits holds the request times of one client inside the window,
// oldest first.
type clientHits struct {
	mu   sync.Mutex
	hits []time.Time
}

// prune drops hits older than cutoff and reports how many remain.
func (c *clientHits) prune(cutoff time.Time) int {
	i := 0
	for i < len(c.hits) && !c.hits[i].After(cutoff) {
		i++
	}
	c.hits = c.hits[i:]
	return len(c.hits)
}

// record appends a hit at now unless limit hits already sit in the window.
func (c *clientHits) record(now time.Time, window time.Duration, limit int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.prune(now.Add(-window)) >= limit {
		return false
	}
	c.hits = append(c.hits, now)
	return true
}

// RateLimiter throttles requests per client with a sliding window. The
// contact form POST is mounted behind it.
type RateLimiter struct {
	mu         sync.RWMutex
	clients    map[string]*clientHits
	limit      int
	window     time.Duration
	trustProxy bool
	now        func() time.Time
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// RateLimitOption configures a RateLimiter.
type RateLimitOption func(*RateLimiter)

// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP. Enable
// it only behind a reverse proxy that overwrites those headers, otherwise
// a client can pick a fresh key per request.
func TrustProxyHeaders() RateLimitOption {
	return func(rl *RateLimiter) { rl.trustProxy = true }
}

// NewRateLimiter allows limit requests per client per window and starts a
// goroutine that forgets idle clients until Stop is called.
func NewRateLimiter(limit int, window time.Duration, opts ...RateLimitOption) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientHits),
		limit:   limit,
		window:  window,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background cleanup goroutine. Safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// allow records a request from key unless the key is over its limit. The
// hit is recorded while rl.mu is held so cleanup cannot drop the entry
// in between.
func (rl *RateLimiter) allow(key string) bool {
	now := rl.now()

	rl.mu.RLock()
	if c, ok := rl.clients[key]; ok {
		defer rl.mu.RUnlock()
		return c.record(now, rl.window, rl.limit)
	}
	rl.mu.RUnlock()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	c, ok := rl.clients[key]
	if !ok {
		c = &clientHits{}
		rl.clients[key] = c
	}
	return c.record(now, rl.window, rl.limit)
}

// retryAfter is the number of whole seconds until key gets a free slot.
func (rl *RateLimiter) retryAfter(key string) int {
	rl.mu.RLock()
	c, ok := rl.clients[key]
	rl.mu.RUnlock()
	if !ok {
		return 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.hits) == 0 {
		return 1
	}
	wait := c.hits[0].Add(rl.window).Sub(rl.now())
	secs := int(wait / time.Second)
	if wait%time.Second != 0 {
		secs++
	}
	if secs < 1 {
		secs = 1
	}
	return secs
}

// cleanup forgets clients without hits inside the window.
func (rl *RateLimiter) cleanup() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, c := range rl.clients {
		c.mu.Lock()
		idle := c.prune(cutoff) == 0
		c.mu.Unlock()
		if idle {
			delete(rl.clients, key)
		}
	}
}

// Middleware answers 429 with Retry-After once a client is over the limit.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := remoteIP(r)
		if rl.trustProxy {
			key = clientIP(r)
		}
		if !rl.allow(key) {
			slog.Warn("rate limit exceeded", "remote", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfter(key)))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the originating address as reported by a proxy, used for
// logging. It prefers the leftmost X-Forwarded-For hop, then X-Real-IP,
// then the connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteIP(r)
}

// remoteIP is the connection address without its port.
func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
