package cache

import (
	"testing"
	"time"
)

func TestDashboardCache_GetSet(t *testing.T) {
	c := NewDashboardCache[string](10, time.Minute)

	if _, ok := c.Get("2024-01", 5.0); ok {
		t.Fatal("Get() on empty cache returned a value")
	}

	c.Set("2024-01", 5.0, "payload-a")
	c.Set("2024-01", 5.5, "payload-b")

	got, ok := c.Get("2024-01", 5.0)
	if !ok || got != "payload-a" {
		t.Errorf("Get(2024-01, 5.0) = %q, %v; want payload-a, true", got, ok)
	}
	got, ok = c.Get("2024-01", 5.5)
	if !ok || got != "payload-b" {
		t.Errorf("Get(2024-01, 5.5) = %q, %v; want payload-b, true", got, ok)
	}
}

func TestDashboardCache_InvalidatePeriod(t *testing.T) {
	c := NewDashboardCache[string](10, time.Minute)

	c.Set("2024-01", 5.0, "a")
	c.Set("2024-01", 5.5, "b")
	c.Set("2024-02", 5.0, "c")

	if removed := c.InvalidatePeriod("2024-01"); removed != 2 {
		t.Errorf("InvalidatePeriod(2024-01) removed %d entries, want 2", removed)
	}

	if _, ok := c.Get("2024-01", 5.0); ok {
		t.Error("entry for invalidated period still present")
	}
	if _, ok := c.Get("2024-02", 5.0); !ok {
		t.Error("entry for other period was removed")
	}
}

func TestDashboardCache_Expiry(t *testing.T) {
	c := NewDashboardCache[string](10, time.Millisecond)

	c.Set("2024-01", 5.0, "a")
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get("2024-01", 5.0); ok {
		t.Error("expired entry still returned")
	}
	if removed := c.CleanExpired(); removed != 0 {
		// Get already dropped it; CleanExpired has nothing left.
		t.Errorf("CleanExpired() = %d, want 0", removed)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("Get(c) = %d, %v; want 3, true", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}
