package cache

import (
	"log/slog"
	"time"
)

// Cleaner is implemented by caches that can evict their expired entries.
type Cleaner interface {
	CleanExpired() int
}

// Manager runs a shared eviction loop over the registered caches so each
// cache does not need its own janitor goroutine.
type Manager struct {
	caches  []Cleaner
	stop    chan struct{}
	done    chan struct{}
	started bool
}

func NewManager() *Manager {
	return &Manager{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Register adds a cache to the eviction loop. Not safe to call after
// StartCleanup.
func (m *Manager) Register(c Cleaner) {
	m.caches = append(m.caches, c)
}

// StartCleanup begins evicting expired entries every interval.
func (m *Manager) StartCleanup(interval time.Duration) {
	m.started = true
	go m.run(interval)
}

func (m *Manager) run(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := 0
			for _, c := range m.caches {
				cleaned += c.CleanExpired()
			}
			if cleaned > 0 {
				slog.Debug("Evicted expired cache entries", "count", cleaned)
			}
		case <-m.stop:
			return
		}
	}
}

// Stop ends the eviction loop and waits for it to exit. Safe to call when
// StartCleanup never ran.
func (m *Manager) Stop() {
	if !m.started {
		return
	}
	close(m.stop)
	<-m.done
}
