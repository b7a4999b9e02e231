package cache

import (
	"sync/atomic"
	"testing"
	"time"
)

type countingCleaner struct {
	calls int64
}

func (c *countingCleaner) CleanExpired() int {
	atomic.AddInt64(&c.calls, 1)
	return 1
}

func TestManagerRunsRegisteredCleaners(t *testing.T) {
	first := &countingCleaner{}
	second := &countingCleaner{}

	m := NewManager()
	m.Register(first)
	m.Register(second)
	m.StartCleanup(5 * time.Millisecond)

	deadline := time.After(time.Second)
	for atomic.LoadInt64(&first.calls) == 0 || atomic.LoadInt64(&second.calls) == 0 {
		select {
		case <-deadline:
			t.Fatal("cleaners were not invoked before the deadline")
		case <-time.After(time.Millisecond):
		}
	}

	m.Stop()
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()
	m.Register(&countingCleaner{})

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() blocked when cleanup was never started")
	}
}
