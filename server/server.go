// Package server exposes the analytics reports of a built database over HTTP
// as JSON, for the dashboard front-end.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Prayag-01/ai-project/db"
	"github.com/Prayag-01/ai-project/model"
)

const maxTopLimit = 100

// ReportServer serves read-only reports from Store.
type ReportServer struct {
	Store    db.Store
	Logger   *zap.SugaredLogger
	TopLimit int
}

func New(store db.Store, logger *zap.SugaredLogger, topLimit int) *ReportServer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if topLimit <= 0 {
		topLimit = db.DefaultTopLimit
	}
	return &ReportServer{Store: store, Logger: logger, TopLimit: topLimit}
}

func (s *ReportServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", getOnly(s.handleHealth))
	mux.HandleFunc("/api/v1/tables", getOnly(s.handleTables))
	mux.HandleFunc("/api/v1/costs/providers", getOnly(s.handleProviderCosts))
	mux.HandleFunc("/api/v1/costs/products", getOnly(s.handleProductCosts))
	mux.HandleFunc("/api/v1/metrics/top", getOnly(s.handleTopProductModels))
	mux.HandleFunc("/api/v1/products", getOnly(s.handleProducts))
	mux.HandleFunc("/api/v1/models", getOnly(s.handleModels))
	mux.HandleFunc("/api/v1/calls", getOnly(s.handleCallLogs))
	mux.HandleFunc("/api/v1/metrics/daily", getOnly(s.handleDailyMetrics))
	mux.HandleFunc("/api/v1/billing", getOnly(s.handleBilling))
	return mux
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *ReportServer) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Infow("report server listening", "addr", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Logger.Info("report server shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

func getOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func (s *ReportServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		s.Logger.Errorw("db ping failed", "error", err)
		http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}

func (s *ReportServer) handleTables(w http.ResponseWriter, r *http.Request) {
	counts, err := s.Store.TableCounts(r.Context())
	s.respond(w, r, counts, err)
}

func (s *ReportServer) handleProviderCosts(w http.ResponseWriter, r *http.Request) {
	costs, err := s.Store.ProviderCosts(r.Context())
	s.respond(w, r, costs, err)
}

func (s *ReportServer) handleProductCosts(w http.ResponseWriter, r *http.Request) {
	costs, err := s.Store.ProductCosts(r.Context())
	s.respond(w, r, costs, err)
}

func (s *ReportServer) handleTopProductModels(w http.ResponseWriter, r *http.Request) {
	limit := s.TopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTopLimit {
			http.Error(w, fmt.Sprintf("limit must be an integer between 1 and %d", maxTopLimit), http.StatusBadRequest)
			return
		}
		limit = n
	}
	rows, err := s.Store.TopProductModels(r.Context(), limit)
	s.respond(w, r, rows, err)
}

func (s *ReportServer) handleProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.Store.ListProducts(r.Context())
	s.respond(w, r, products, err)
}

func (s *ReportServer) handleModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.Store.ListModels(r.Context())
	s.respond(w, r, models, err)
}

func (s *ReportServer) handleCallLogs(w http.ResponseWriter, r *http.Request) {
	status := model.CallStatus(r.URL.Query().Get("status"))
	if status != "" && !status.IsValid() {
		http.Error(w, fmt.Sprintf("unknown status %q", status), http.StatusBadRequest)
		return
	}
	logs, err := s.Store.ListCallLogs(r.Context(), status)
	s.respond(w, r, logs, err)
}

func (s *ReportServer) handleDailyMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.Store.ListDailyMetrics(r.Context(), r.URL.Query().Get("product"))
	s.respond(w, r, metrics, err)
}

func (s *ReportServer) handleBilling(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Store.ListBilling(r.Context())
	s.respond(w, r, entries, err)
}

func (s *ReportServer) respond(w http.ResponseWriter, r *http.Request, body any, err error) {
	if err != nil {
		s.Logger.Errorw("report query failed", "path", r.URL.Path, "error", err)
		http.Error(w, "report query failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.Warnw("failed to encode response", "path", r.URL.Path, "error", err)
	}
}
