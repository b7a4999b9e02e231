package cache

import (
	"strconv"
	"strings"
	"time"
)

// DashboardCache caches computed dashboard payloads keyed by period and
// exchange rate. Writes to a period invalidate every rate variant for it.
type DashboardCache[T any] struct {
	lru *LRUCache[T]
}

// NewDashboardCache creates a dashboard cache with the given capacity and TTL
func NewDashboardCache[T any](maxSize int, ttl time.Duration) *DashboardCache[T] {
	return &DashboardCache[T]{lru: NewLRUCache[T](maxSize, ttl)}
}

func dashboardKey(period string, rate float64) string {
	var b strings.Builder
	b.WriteString(period)
	b.WriteByte('|')
	b.WriteString(strconv.FormatFloat(rate, 'f', -1, 64))
	return b.String()
}

// Get retrieves the cached payload for a period and rate
func (c *DashboardCache[T]) Get(period string, rate float64) (T, bool) {
	return c.lru.Get(dashboardKey(period, rate))
}

// Set stores the payload for a period and rate
func (c *DashboardCache[T]) Set(period string, rate float64, data T) {
	c.lru.Set(dashboardKey(period, rate), data)
}

// InvalidatePeriod drops every cached payload for the period, regardless of
// the rate it was computed with. Returns the number of entries removed.
func (c *DashboardCache[T]) InvalidatePeriod(period string) int {
	return c.lru.DeletePrefix(period + "|")
}

// CleanExpired removes expired entries
func (c *DashboardCache[T]) CleanExpired() int {
	return c.lru.CleanExpired()
}

// Size returns the current number of cached payloads
func (c *DashboardCache[T]) Size() int {
	return c.lru.Size()
}
