package ratelimit

import "testing"

func TestLimiterAllowsWithinBudget(t *testing.T) {
	l := NewLimiter(3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected within budget", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Fatal("request over budget was allowed")
	}

	// A different client has its own window.
	if !l.Allow("10.0.0.2") {
		t.Fatal("unrelated client rejected")
	}
}

func TestLimiterCounters(t *testing.T) {
	l := NewLimiter(1)
	defer l.Stop()

	l.Allow("10.0.0.1")
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.1")
	l.Allow("10.0.0.2")

	m := l.GetMetrics()
	if m.Rejected != 2 {
		t.Errorf("Rejected = %d, want 2", m.Rejected)
	}
	if m.TrackedClients != 2 {
		t.Errorf("TrackedClients = %d, want 2", m.TrackedClients)
	}
	if got := l.ActiveClients(); got != 2 {
		t.Errorf("ActiveClients = %d, want 2", got)
	}
}

func TestLimiterDefaultsOnBadLimit(t *testing.T) {
	l := NewLimiter(0)
	defer l.Stop()

	if l.limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", l.limit, DefaultLimit)
	}
}
