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
	"walk-companion/internal/walk-service/adapters/driven/availability"
	"walk-companion/internal/walk-service/adapters/driven/bm"
	"walk-companion/internal/walk-service/adapters/driven/db"
	"walk-companion/internal/walk-service/adapters/driven/notification"
	"walk-companion/internal/walk-service/adapters/driver/myhttp/handle"
	"walk-companion/internal/walk-service/adapters/driver/myhttp/middleware"
	"walk-companion/internal/walk-service/adapters/driver/myhttp/ws"
	"walk-companion/internal/walk-service/core/ports"
	"walk-companion/internal/walk-service/core/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var ErrServerClosed = errors.New("Server closed")

const WaitTime = 10

const (
	RoleWanderer = "WANDERER"
	RoleWalker   = "WALKER"
)

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     ports.INotifyBroker
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
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

	// Initialize database connection
	db, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	mylog.Info("Successful database connection")

	// Initialize RabbitMQ connection
	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	// Configure routes and handlers
	if err := s.Configure(); err != nil {
		return err
	}

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.WalkServicePort),
		Handler: observability.Instrument(s.mux),
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.WalkServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
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

// Configure wires repositories, services and handlers, and registers routes.
func (s *Server) Configure() error {
	// Repositories and driven adapters
	walksRepo := db.NewWalksRepo(s.db)
	profilesRepo := db.NewProfilesRepo(s.db)
	sessionsRepo := db.NewSessionsRepo(s.db)
	subscriptionsRepo := db.NewSubscriptionsRepo(s.db)
	availabilityView := availability.New(s.cfg.Redis, s.cfg.Matching, s.mylog)

	// services
	walksService := services.NewWalksService(s.appCtx, s.mylog, walksRepo, availabilityView, s.mb)
	matchingService := services.NewMatchingService(s.appCtx, s.mylog, s.cfg.Matching, walksRepo, profilesRepo, availabilityView, s.mb)
	sessionsService := services.NewSessionsService(s.appCtx, s.mylog, walksRepo, sessionsRepo, s.mb)
	subscriptionsService := services.NewSubscriptionsService(s.appCtx, s.mylog, subscriptionsRepo, walksService)

	// handlers
	walksHandler := handle.NewWalksHandler(walksService, s.mylog)
	matchingHandler := handle.NewMatchingHandler(matchingService, s.mylog)
	sessionsHandler := handle.NewSessionsHandler(sessionsService, s.mylog)
	subscriptionsHandler := handle.NewSubscriptionsHandler(subscriptionsService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.PublicJwtSecret)

	// websocket bridge: broker deliveries fan out to open sockets
	dispatcher := ws.NewDispatcher(s.mylog)
	bridge := notification.New(s.appCtx, &s.wg, s.mylog, dispatcher, s.mb)
	if err := bridge.Run(); err != nil {
		return fmt.Errorf("cannot start notification bridge: %w", err)
	}

	// Walk lifecycle
	s.mux.Handle("POST /walks", authMiddleware.Wrap(RoleWanderer, walksHandler.CreateWalk()))
	s.mux.Handle("GET /walks/active", authMiddleware.Wrap(RoleWanderer, walksHandler.GetActiveWalk()))
	s.mux.Handle("GET /walks/history", authMiddleware.Wrap(RoleWanderer, walksHandler.GetHistory()))
	s.mux.Handle("GET /walks/pending", authMiddleware.Wrap(RoleWalker, matchingHandler.PendingRequests()))
	s.mux.Handle("GET /walks/{walk_id}", authMiddleware.Wrap("", walksHandler.GetWalk()))
	s.mux.Handle("POST /walks/{walk_id}/cancel", authMiddleware.Wrap(RoleWanderer, walksHandler.CancelWalk()))

	// Matching
	s.mux.Handle("POST /walks/{walk_id}/find-walkers", authMiddleware.Wrap(RoleWanderer, matchingHandler.FindWalkers()))
	s.mux.Handle("POST /walks/{walk_id}/accept", authMiddleware.Wrap(RoleWalker, matchingHandler.Accept()))
	s.mux.Handle("POST /walks/{walk_id}/reject", authMiddleware.Wrap(RoleWalker, matchingHandler.Reject()))
	s.mux.Handle("POST /walks/{walk_id}/request-walker", authMiddleware.Wrap(RoleWanderer, matchingHandler.RequestWalker()))

	// Sessions
	s.mux.Handle("POST /walks/{walk_id}/start", authMiddleware.Wrap("", sessionsHandler.StartWalk()))
	s.mux.Handle("GET /sessions/{session_id}", authMiddleware.Wrap("", sessionsHandler.GetSession()))
	s.mux.Handle("POST /sessions/{session_id}/end", authMiddleware.Wrap("", sessionsHandler.EndWalk()))
	s.mux.Handle("POST /sessions/{session_id}/sos", authMiddleware.Wrap("", sessionsHandler.TriggerSos()))
	s.mux.Handle("POST /sessions/{session_id}/sos/resolve", authMiddleware.Wrap("", sessionsHandler.ResolveSos()))

	// Subscriptions
	s.mux.Handle("POST /subscriptions", authMiddleware.Wrap(RoleWanderer, subscriptionsHandler.Create()))
	s.mux.Handle("GET /subscriptions/active", authMiddleware.Wrap(RoleWanderer, subscriptionsHandler.GetActive()))
	s.mux.Handle("POST /subscriptions/quick-start", authMiddleware.Wrap(RoleWanderer, subscriptionsHandler.QuickStart()))
	s.mux.Handle("PUT /subscriptions/{subscription_id}", authMiddleware.Wrap(RoleWanderer, subscriptionsHandler.Update()))
	s.mux.Handle("POST /subscriptions/{subscription_id}/pause", authMiddleware.Wrap(RoleWanderer, subscriptionsHandler.Pause()))
	s.mux.Handle("POST /subscriptions/{subscription_id}/resume", authMiddleware.Wrap(RoleWanderer, subscriptionsHandler.Resume()))
	s.mux.Handle("POST /subscriptions/{subscription_id}/cancel", authMiddleware.Wrap(RoleWanderer, subscriptionsHandler.Cancel()))

	// websocket routes
	s.mux.Handle("GET /ws", authMiddleware.Wrap("", dispatcher.WsHandler()))

	s.mux.Handle("GET /metrics", promhttp.Handler())

	return nil
}
