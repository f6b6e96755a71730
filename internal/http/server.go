// Package http exposes the tracker as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/goals"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/scan"
	"fintrack/internal/services"
)

// ArchiveReader reads back archived transactions for inspection endpoints.
type ArchiveReader interface {
	Recent(ctx context.Context, limit int) ([]core.Transaction, error)
}

// spentCache memoizes per-period spending for the goal endpoints. Entries
// expire on TTL and are dropped wholesale whenever the ledger mutates.
type spentCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[core.GoalPeriod]spentEntry
}

type spentEntry struct {
	value     float64
	expiresAt time.Time
}

func newSpentCache(ttl time.Duration) *spentCache {
	return &spentCache{
		ttl:     ttl,
		entries: make(map[core.GoalPeriod]spentEntry),
	}
}

func (c *spentCache) Get(period core.GoalPeriod) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[period]
	if !exists || time.Now().After(entry.expiresAt) {
		delete(c.entries, period)
		return 0, false
	}
	return entry.value, true
}

func (c *spentCache) Set(period core.GoalPeriod, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[period] = spentEntry{value: value, expiresAt: time.Now().Add(c.ttl)}
}

func (c *spentCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

type Server struct {
	http.Server

	store       *ledger.Store
	ledgerSvc   *services.LedgerService
	goals       *goals.Tracker
	reminderSvc *services.ReminderService
	scanner     *scan.Service
	archive     ArchiveReader

	rateLimiter *rateLimiter
	metrics     *securityMetrics
	spent       *spentCache
	requestLog  *applog.StructuredLogger
}

// Options carries the optional collaborators; nil fields disable the
// corresponding endpoints gracefully.
type Options struct {
	Scanner *scan.Service
	Archive ArchiveReader
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, store *ledger.Store, ledgerSvc *services.LedgerService, tracker *goals.Tracker, reminderSvc *services.ReminderService, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		ledgerSvc:   ledgerSvc,
		goals:       tracker,
		reminderSvc: reminderSvc,
		scanner:     opts.Scanner,
		archive:     opts.Archive,
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
		spent:       newSpentCache(time.Minute),
		requestLog:  applog.NewStructuredLogger(applog.Default(applog.ComponentHTTP)),
	}

	// Any ledger mutation can move money in or out of a goal window.
	store.Subscribe(func(ev ledger.Event) {
		switch ev.Kind {
		case ledger.TransactionAdded, ledger.TransactionRemoved:
			s.spent.Invalidate()
		}
	})

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.withMiddleware(s.handleListTransactions))
	mux.HandleFunc("DELETE /transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))
	mux.HandleFunc("PUT /transactions/filter", s.withMiddleware(s.handleSetFilter))
	mux.HandleFunc("GET /balance", s.withMiddleware(s.handleBalance))

	mux.HandleFunc("POST /tags", s.withMiddleware(s.handleCreateTag))
	mux.HandleFunc("GET /tags", s.withMiddleware(s.handleListTags))
	mux.HandleFunc("DELETE /tags/{id}", s.withMiddleware(s.handleDeleteTag))

	mux.HandleFunc("GET /goals", s.withMiddleware(s.handleListGoals))
	mux.HandleFunc("GET /goals/{period}", s.withMiddleware(s.handleGetGoal))
	mux.HandleFunc("PUT /goals/{period}", s.withMiddleware(s.handleSetGoal))

	mux.HandleFunc("POST /reminders", s.withMiddleware(s.handleCreateReminder))
	mux.HandleFunc("GET /reminders", s.withMiddleware(s.handleListReminders))
	mux.HandleFunc("POST /reminders/{id}/toggle", s.withMiddleware(s.handleToggleReminder))
	mux.HandleFunc("DELETE /reminders/{id}", s.withMiddleware(s.handleDeleteReminder))

	mux.HandleFunc("POST /scan", s.withMiddleware(s.handleScan))
	mux.HandleFunc("GET /archive/recent", s.withMiddleware(s.handleArchiveRecent))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.rateLimiter != nil {
		s.rateLimiter.stop()
	}
	return s.Server.Shutdown(ctx)
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.requestLog.LogHTTPStart(ctx, r, requestID, clientIP)

		// Mutating requests are rate limited per client.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.requestLog.LogHTTPEnd(ctx, r, requestID, rw.statusCode, duration.Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
