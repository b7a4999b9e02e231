package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"patrimonio/internal/middleware/ratelimit"
	"patrimonio/internal/middleware/security"
	"patrimonio/internal/middleware/trace"
	"patrimonio/internal/records"
	"patrimonio/internal/services"
)

// Server wires the API routes behind the security, tracing, and rate limit
// middleware. All endpoints are JSON except /metrics, which is plain text.
type Server struct {
	http.Server

	source      records.Source
	recordSvc   *services.RecordService
	templateSvc *services.TemplateService
	dashboards  *services.DashboardService

	readyCheck func(ctx context.Context) error
	cacheSize  func() int

	detector     *security.Detector
	limiter      *ratelimit.Limiter
	tracer       *trace.Middleware
	startedAt    time.Time
	shutdownOnce sync.Once
}

// Deps carries everything the server serves from. ReadyCheck is optional;
// when set, /readyz reports 503 until it passes. CacheSize, when set, feeds
// the dashboard cache gauge on /metrics.
type Deps struct {
	Source     records.Source
	Records    *services.RecordService
	Templates  *services.TemplateService
	Dashboards *services.DashboardService
	ReadyCheck func(ctx context.Context) error
	CacheSize  func() int
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		source:      deps.Source,
		recordSvc:   deps.Records,
		templateSvc: deps.Templates,
		dashboards:  deps.Dashboards,
		readyCheck:  deps.ReadyCheck,
		cacheSize:   deps.CacheSize,
		detector:    security.NewDetector(),
		limiter:     ratelimit.NewLimiter(ratelimit.DefaultLimit),
		startedAt:   time.Now(),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/receitas", s.handleIncomes)
	mux.HandleFunc("/api/custos", s.handleCosts)
	mux.HandleFunc("/api/investimentos", s.handleInvestments)
	mux.HandleFunc("/api/ativos", s.handleAssets)
	mux.HandleFunc("/api/passivos", s.handleLiabilities)
	mux.HandleFunc("/api/templates", s.handleTemplates)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	handler := headers.Middleware(s.tracer.Middleware(s.withProtection(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// withProtection rate-limits mutating requests and flags suspicious ones.
// Reads stay unlimited; the dashboard is polled.
func (s *Server) withProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := s.detector.ExtractClientIP(r)

		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"request_id", trace.GetRequestID(r.Context()),
				"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"request_id", trace.GetRequestID(r.Context()),
					"client_ip", clientIP, "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the middleware cleanup goroutines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.readyCheck(ctx); err != nil {
			slog.WarnContext(r.Context(), "Readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// handleMetrics exposes request, security, and cache counters in a
// Prometheus-compatible text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	traceMetrics := s.tracer.GetMetrics()
	securityMetrics := s.detector.GetMetrics()
	limitMetrics := s.limiter.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_response_time_microseconds Response time of the last request\n")
	fmt.Fprintf(w, "# TYPE http_response_time_microseconds gauge\n")
	fmt.Fprintf(w, "http_response_time_microseconds %d\n\n", traceMetrics.AverageResponseTime)

	fmt.Fprintf(w, "# HELP suspicious_requests_total Total suspicious requests detected\n")
	fmt.Fprintf(w, "# TYPE suspicious_requests_total counter\n")
	fmt.Fprintf(w, "suspicious_requests_total %d\n\n", securityMetrics.SuspiciousRequests)

	fmt.Fprintf(w, "# HELP rate_limit_rejections_total Total requests rejected by the rate limiter\n")
	fmt.Fprintf(w, "# TYPE rate_limit_rejections_total counter\n")
	fmt.Fprintf(w, "rate_limit_rejections_total %d\n\n", limitMetrics.Rejected)

	fmt.Fprintf(w, "# HELP active_rate_limit_clients Currently tracked rate limit clients\n")
	fmt.Fprintf(w, "# TYPE active_rate_limit_clients gauge\n")
	fmt.Fprintf(w, "active_rate_limit_clients %d\n\n", s.limiter.ActiveClients())

	if s.cacheSize != nil {
		fmt.Fprintf(w, "# HELP cache_entries Current dashboard cache entries\n")
		fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
		fmt.Fprintf(w, "cache_entries{type=\"dashboard\"} %d\n\n", s.cacheSize())
	}

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.startedAt).Seconds())
}
