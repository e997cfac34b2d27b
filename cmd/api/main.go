package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	"github.com/harborline/loanserve/internal/access"
	"github.com/harborline/loanserve/internal/audit"
	"github.com/harborline/loanserve/internal/config"
	"github.com/harborline/loanserve/internal/csrf"
	"github.com/harborline/loanserve/internal/handler"
	"github.com/harborline/loanserve/internal/jobs"
	"github.com/harborline/loanserve/internal/ledger"
	"github.com/harborline/loanserve/internal/middleware"
	"github.com/harborline/loanserve/internal/ratelimit"
	"github.com/harborline/loanserve/internal/repository"
	"github.com/harborline/loanserve/internal/service"
	"github.com/harborline/loanserve/internal/settings"
	"github.com/harborline/loanserve/internal/utils/email"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	mailer := email.NewSender(cfg, logger)
	recorder := audit.NewRecorder(repo, mailer, logger)
	checker := access.NewChecker(repo, logger)
	settingsCache := settings.NewCache(repo, logger)
	txLedger := ledger.NewLedger(repo, recorder, logger)
	svc := service.NewService(repo, recorder, settingsCache, mailer, logger)

	guard, err := csrf.NewGuard(cfg.CSRFSecret)
	if err != nil {
		logger.Fatalf("Failed to initialize CSRF guard: %v", err)
	}

	// Counter store: shared Redis when configured, SQL fallback otherwise.
	var counterStore ratelimit.CounterStore = repo
	if cfg.RedisAddr != "" {
		counterStore = ratelimit.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
		logger.Infof("Rate limit counters backed by redis at %s", cfg.RedisAddr)
	} else {
		logger.Info("Rate limit counters backed by Postgres fallback store")
	}
	limiter := ratelimit.NewLimiter(counterStore, cfg.RateLimitDisabled, logger)

	h := handler.NewHandler(svc, txLedger, checker, guard, logger)

	// Scheduled maintenance
	scheduler := cron.New()
	if cfg.RedisAddr == "" {
		if err := jobs.RegisterCounterSweeper(scheduler, repo, logger); err != nil {
			logger.Fatalf("Failed to register counter sweeper: %v", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Public routes (rate limited, no identity)
	publicRouter := r.PathPrefix("/api").Subrouter()
	publicRouter.Use(middleware.RateLimitMiddleware(limiter, ratelimit.CategoryAuth, logger))
	publicRouter.HandleFunc("/password-reset", h.RequestPasswordReset).Methods("POST")

	// Protected routes: identity -> rate limit -> CSRF -> handler. Identity
	// comes first so API limits are keyed per user, not per IP.
	authRouter := r.PathPrefix("/api").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.Use(middleware.RateLimitMiddleware(limiter, ratelimit.CategoryAPI, logger))
	authRouter.Use(middleware.CSRFMiddleware(guard, logger))
	authRouter.HandleFunc("/csrf-token", h.GetCSRFToken).Methods("GET")
	authRouter.HandleFunc("/loans/{id:[0-9]+}", h.GetLoan).Methods("GET")
	authRouter.HandleFunc("/loans/{id:[0-9]+}", h.UpdateLoan).Methods("PATCH")
	authRouter.HandleFunc("/loans/{id:[0-9]+}/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/loans/{id:[0-9]+}/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/loans/{id:[0-9]+}/payoff-statement", h.CreatePayoffStatement).Methods("POST")
	authRouter.HandleFunc("/loans/{id:[0-9]+}/audit", h.ListAuditEntries).Methods("GET")
	authRouter.HandleFunc("/audit/export", h.ExportAuditTrail).Methods("GET")
	authRouter.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
