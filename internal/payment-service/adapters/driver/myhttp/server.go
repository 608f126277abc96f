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
	"walk-companion/internal/payment-service/adapters/driven/bm"
	"walk-companion/internal/payment-service/adapters/driven/db"
	"walk-companion/internal/payment-service/adapters/driven/gateway"
	"walk-companion/internal/payment-service/adapters/driven/payouts"
	"walk-companion/internal/payment-service/adapters/driven/rd"
	"walk-companion/internal/payment-service/adapters/driver/myhttp/handle"
	"walk-companion/internal/payment-service/adapters/driver/myhttp/middleware"
	"walk-companion/internal/payment-service/core/ports"
	"walk-companion/internal/payment-service/core/services"

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
	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.PaymentServicePort),
		Handler: observability.Instrument(s.mux),
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.PaymentServicePort)

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
func (s *Server) Configure() {
	// Repositories and driven adapters
	sessionsRepo := db.NewSessionsRepo(s.db)
	paymentsRepo := db.NewPaymentsRepo(s.db)
	walletRepo := db.NewWalletRepo(s.db)
	payoutsRepo := db.NewPayoutsRepo(s.db)
	gatewayClient := gateway.New(s.cfg.Payment, s.mylog)
	transferProvider := payouts.New(s.cfg.Payment, s.mylog)
	availabilityControl := rd.New(s.cfg.Redis, s.mylog)

	// services
	paymentsService := services.NewPaymentsService(s.appCtx, s.mylog, s.cfg.Matching,
		sessionsRepo, paymentsRepo, gatewayClient, availabilityControl, s.mb)
	walletService := services.NewWalletService(s.appCtx, s.mylog, s.cfg.Payment,
		walletRepo, payoutsRepo, transferProvider)

	// handlers
	paymentsHandler := handle.NewPaymentsHandler(paymentsService, s.mylog)
	walletHandler := handle.NewWalletHandler(walletService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.App.PublicJwtSecret)

	// Payments
	s.mux.Handle("POST /payments/orders", authMiddleware.Wrap(RoleWanderer, paymentsHandler.CreateOrder()))
	s.mux.Handle("POST /payments/verify", authMiddleware.Wrap(RoleWanderer, paymentsHandler.VerifyPayment()))
	s.mux.Handle("GET /payments/{payment_id}", authMiddleware.Wrap("", paymentsHandler.GetPayment()))

	// Wallet
	s.mux.Handle("GET /wallet/balance", authMiddleware.Wrap("", walletHandler.Balance()))
	s.mux.Handle("POST /wallet/add", authMiddleware.Wrap("", walletHandler.Add()))
	s.mux.Handle("POST /wallet/withdraw", authMiddleware.Wrap(RoleWalker, walletHandler.Withdraw()))
	s.mux.Handle("GET /wallet/history", authMiddleware.Wrap("", walletHandler.History()))

	s.mux.Handle("GET /metrics", promhttp.Handler())
}
