package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"walk-companion/internal/config"
	"walk-companion/internal/mylogger"
	"walk-companion/internal/observability"
	"walk-companion/internal/walker-location-service/adapters/driven/rd"
	"walk-companion/internal/walker-location-service/adapters/driver/myhttp/handle"
	"walk-companion/internal/walker-location-service/adapters/driver/myhttp/middleware"
	"walk-companion/internal/walker-location-service/core/ports"
	"walk-companion/internal/walker-location-service/core/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	store  ports.IAvailabilityStore
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	s.store = rd.New(s.cfg.Redis, s.mylog)
	mylog.Info("Availability store ready")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.WalkerLocationServicePort),
		Handler: observability.Instrument(s.mux),
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.WalkerLocationServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.mylog.Error("Failed to close availability store", err)
		}
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires the availability service and registers routes.
func (s *Server) Configure() {
	availabilityService := services.NewAvailabilityService(s.appCtx, s.mylog, s.store)
	availabilityHandler := handle.NewAvailabilityHandler(availabilityService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.PublicJwtSecret)

	s.mux.Handle("POST /availability/online", authMiddleware.Wrap(availabilityHandler.GoOnline()))
	s.mux.Handle("POST /availability/offline", authMiddleware.Wrap(availabilityHandler.GoOffline()))
	s.mux.Handle("POST /availability/heartbeat", authMiddleware.Wrap(availabilityHandler.Heartbeat()))
	s.mux.Handle("POST /availability/busy", authMiddleware.Wrap(availabilityHandler.SetBusy()))
	s.mux.Handle("GET /availability", authMiddleware.Wrap(availabilityHandler.GetAvailability()))

	s.mux.Handle("GET /metrics", promhttp.Handler())
}
