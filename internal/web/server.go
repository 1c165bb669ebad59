// Package web serves the portfolio dashboard, a JSON API and an SSE stream of cycle results.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/martifolio/internal/domain"
	"github.com/vadiminshakov/martifolio/internal/storage/strategies"
	"go.uber.org/zap"
)

const (
	snapshotPollInterval = 2 * time.Second
	heartbeatInterval    = 30 * time.Second
	maxStrategiesBody    = 1 << 20
)

type snapshotReader interface {
	SnapshotsAfter(index uint64) ([]domain.PortfolioSnapshotRecord, error)
	Latest() (domain.PortfolioSnapshotRecord, bool, error)
}

type latestProvider interface {
	Latest() (domain.PortfolioSnapshot, bool)
}

// Server exposes the dashboard and API over HTTP.
type Server struct {
	addr       string
	latest     latestProvider
	snapshots  snapshotReader
	strategies strategies.Store
	logger     *zap.Logger
	router     chi.Router

	pollInterval time.Duration
}

// NewServer creates a server. snapshots may be nil, which disables the stream.
func NewServer(addr string, latest latestProvider, snapshots snapshotReader, store strategies.Store, logger *zap.Logger) *Server {
	s := &Server{
		addr:         addr,
		latest:       latest,
		snapshots:    snapshots,
		strategies:   store,
		logger:       logger,
		pollInterval: snapshotPollInterval,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio", s.handlePortfolio)
		r.Get("/portfolio/stream", s.handlePortfolioStream)
		r.Get("/strategies", s.handleGetStrategies)
		r.Put("/strategies", s.handlePutStrategies)
	})
	return r
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting web server", zap.String("addr", s.addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "web server")
	}
	return nil
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.latest.Latest()
	if !ok && s.snapshots != nil {
		// nothing computed since start, serve the last journaled cycle
		record, found, err := s.snapshots.Latest()
		if err != nil {
			s.logger.Warn("read latest journaled snapshot", zap.Error(err))
		}
		snapshot, ok = record.Snapshot, found && err == nil
	}
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "portfolio not computed yet")
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleGetStrategies(w http.ResponseWriter, r *http.Request) {
	loaded, err := s.strategies.Load(r.Context())
	if errors.Is(err, strategies.ErrNotFound) {
		loaded, err = domain.Strategies{}, nil
	}
	if err != nil {
		s.logger.Error("failed to load strategies", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load strategies")
		return
	}
	writeJSON(w, http.StatusOK, loaded)
}

func (s *Server) handlePutStrategies(w http.ResponseWriter, r *http.Request) {
	var payload domain.Strategies
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStrategiesBody)).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid strategies payload")
		return
	}

	normalized, err := payload.Normalize()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.strategies.Save(r.Context(), normalized); err != nil {
		s.logger.Error("failed to save strategies", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save strategies")
		return
	}

	s.logger.Info("strategies updated", zap.Int("assets", len(normalized)))
	writeJSON(w, http.StatusOK, normalized)
}

func (s *Server) handlePortfolioStream(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	poll := time.NewTicker(s.pollInterval)
	defer poll.Stop()

	lastIndex := uint64(0)
	send := func() error {
		records, err := s.snapshots.SnapshotsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\nevent: portfolio\ndata: %s\n\n", record.Index, payload)
			lastIndex = record.Index
		}
		if len(records) > 0 {
			flusher.Flush()
		}
		return nil
	}

	if err := send(); err != nil {
		s.logger.Error("portfolio stream initial load", zap.Error(err))
		http.Error(w, "failed to load snapshots", http.StatusInternalServerError)
		return
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case <-poll.C:
			if err := send(); err != nil {
				s.logger.Warn("portfolio stream poll", zap.Error(err))
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
