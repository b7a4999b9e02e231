package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestUSDToBRLFetchesAndCaches(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"USDBRL": {"bid": "5.43"}}`))
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL)
	ctx := context.Background()

	if rate := p.USDToBRL(ctx); rate != 5.43 {
		t.Fatalf("rate = %v", rate)
	}
	if rate := p.USDToBRL(ctx); rate != 5.43 {
		t.Fatalf("cached rate = %v", rate)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected 1 upstream hit, got %d", n)
	}
}

func TestUSDToBRLFallbackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProviderWithURL(srv.URL)
	if rate := p.USDToBRL(context.Background()); rate != FallbackRate {
		t.Fatalf("rate = %v, want fallback %v", rate, FallbackRate)
	}
}

func TestUSDToBRLFallbackOnGarbage(t *testing.T) {
	cases := []string{
		`not json`,
		`{"EURBRL": {"bid": "6.1"}}`,
		`{"USDBRL": {"bid": "zero"}}`,
		`{"USDBRL": {"bid": "-1"}}`,
	}
	for i, body := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		p := NewProviderWithURL(srv.URL)
		if rate := p.USDToBRL(context.Background()); rate != FallbackRate {
			t.Fatalf("case %d: rate = %v, want fallback", i, rate)
		}
		srv.Close()
	}
}
