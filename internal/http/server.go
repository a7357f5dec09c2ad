// Package http exposes the transaction ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pennyguard/internal/cache"
	"pennyguard/internal/core"
	"pennyguard/internal/middleware/ratelimit"
	"pennyguard/internal/middleware/security"
	"pennyguard/internal/middleware/trace"
	"pennyguard/internal/services"
)

// Options configures the API server.
type Options struct {
	Addr string

	// SummaryCacheTTL bounds how stale a cached summary may get; mutations
	// purge the cache anyway, so this only matters across processes.
	SummaryCacheTTL  time.Duration
	SummaryCacheSize int

	// RateLimitPerMinute applies to mutating requests per client IP.
	RateLimitPerMinute int
}

// Server wires the transaction service to HTTP routes with tracing,
// security headers, rate limiting and a summary cache.
type Server struct {
	http.Server

	service      *services.TransactionService
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager
	rateLimiter  *ratelimit.Limiter
	ipResolver   *security.IPResolver
	shutdownOnce sync.Once
}

func NewServer(opts Options, service *services.TransactionService) *Server {
	if opts.SummaryCacheTTL <= 0 {
		opts.SummaryCacheTTL = 30 * time.Second
	}
	if opts.SummaryCacheSize <= 0 {
		opts.SummaryCacheSize = 100
	}

	s := &Server{
		service:      service,
		summaryCache: cache.NewLRUCache[core.Summary](opts.SummaryCacheSize, opts.SummaryCacheTTL),
		cacheManager: cache.NewManager(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		ipResolver: security.NewIPResolver(),
	}
	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)

	limited := s.rateLimiter.Middleware(s.ipResolver.ClientIP)
	mux.Handle("POST /api/transactions", limited(http.HandlerFunc(s.handleCreateTransaction)))
	mux.Handle("PUT /api/transactions/{id}", limited(http.HandlerFunc(s.handleUpdateTransaction)))
	mux.Handle("DELETE /api/transactions/{id}", limited(http.HandlerFunc(s.handleDeleteTransaction)))

	tracing := trace.NewMiddleware(s.ipResolver.ClientIP)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           tracing.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Shutdown stops the HTTP server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateSummaries drops every cached summary. Any mutation can shift
// totals for every timeframe and search, so per-key invalidation buys
// nothing.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
}
