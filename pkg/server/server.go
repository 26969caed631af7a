package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sherine-k/elevaid/pkg/config"
	"github.com/sherine-k/elevaid/pkg/detection"
	"github.com/sherine-k/elevaid/pkg/logger"
	"github.com/sherine-k/elevaid/pkg/simulation"
)

// Options configures a Server
type Options struct {
	Config   *config.Config
	Session  *simulation.Session
	Detector *detection.Client
	Logger   *zerolog.Logger

	// RunContext bounds simulations started over HTTP. Runs outlive the
	// request that started them.
	RunContext context.Context
}

// Server exposes the dispatch simulator over HTTP
type Server struct {
	cfg      *config.Config
	session  *simulation.Session
	detector *detection.Client
	logger   *zerolog.Logger
	runCtx   context.Context
	mux      *http.ServeMux
}

// New creates a server and registers its routes
func New(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.RunContext == nil {
		opts.RunContext = context.Background()
	}
	if opts.Session == nil {
		opts.Session = simulation.NewSession(simulation.SessionOptions{
			FloorCount: opts.Config.FloorCount,
			Timing:     opts.Config.Timing,
			Logger:     opts.Logger,
		})
	}
	if opts.Detector == nil {
		opts.Detector = detection.NewClient(opts.Config.Server.DetectorURL, opts.Config.Server.DetectorTimeout)
	}

	s := &Server{
		cfg:      opts.Config,
		session:  opts.Session,
		detector: opts.Detector,
		logger:   opts.Logger,
		runCtx:   opts.RunContext,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/simulation_data", s.handleSimulationData)
	s.mux.HandleFunc("POST /api/calculate_times", s.handleCalculateTimes)
	s.mux.HandleFunc("POST /upload", s.handleUpload)

	s.mux.HandleFunc("GET /api/session", s.handleSession)
	s.mux.HandleFunc("POST /api/session/floors/{floor}", s.handleToggleFloor)
	s.mux.HandleFunc("POST /api/session/priority/{floor}", s.handleTogglePriority)
	s.mux.HandleFunc("PUT /api/session/direction", s.handleDirection)
	s.mux.HandleFunc("PUT /api/session/timing", s.handleTiming)
	s.mux.HandleFunc("POST /api/session/start", s.handleStart)
	s.mux.HandleFunc("POST /api/session/reset", s.handleReset)
	s.mux.HandleFunc("GET /api/session/events", s.handleEvents)
}

// Session returns the session served by this server
func (s *Server) Session() *simulation.Session {
	return s.session
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
