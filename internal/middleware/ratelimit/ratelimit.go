// Package ratelimit bounds mutating API requests per client IP.
package ratelimit

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultLimit is the per-IP budget of mutating requests per minute.
const DefaultLimit = 60

const (
	sweepInterval = 5 * time.Minute
	staleAfter    = 10 * time.Minute
)

// Limiter counts requests per client IP over a rolling minute. Idle client
// entries are swept in the background until Stop is called.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int

	rejected int64 // atomic

	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

// window is one client's count since its current minute started.
type window struct {
	lastRequest time.Time
	requests    int
}

// NewLimiter allows limit requests per minute per IP. A non-positive limit
// falls back to DefaultLimit.
func NewLimiter(limit int) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	l := &Limiter{
		clients:   make(map[string]*window),
		limit:     limit,
		stopSweep: make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow reports whether another request from clientIP fits the budget.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.clients[clientIP]
	if !ok {
		l.clients[clientIP] = &window{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(w.lastRequest) > time.Minute {
		w.requests = 1
		w.lastRequest = now
		return true
	}

	w.requests++
	w.lastRequest = now
	if w.requests > l.limit {
		atomic.AddInt64(&l.rejected, 1)
		return false
	}
	return true
}

func (l *Limiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.dropStale()
		case <-l.stopSweep:
			return
		}
	}
}

func (l *Limiter) dropStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, w := range l.clients {
		if w.lastRequest.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// ActiveClients returns how many client IPs are currently tracked.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Metrics is the counter snapshot served by the metrics endpoint.
type Metrics struct {
	Rejected       int64
	TrackedClients int64
}

// GetMetrics snapshots the limiter counters.
func (l *Limiter) GetMetrics() Metrics {
	l.mu.Lock()
	tracked := int64(len(l.clients))
	l.mu.Unlock()

	return Metrics{
		Rejected:       atomic.LoadInt64(&l.rejected),
		TrackedClients: tracked,
	}
}

// Stop ends the background sweep.
func (l *Limiter) Stop() {
	l.shutdownOnce.Do(func() {
		close(l.stopSweep)
	})
}
