package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"callerdesk-console/internal/audit"
	"callerdesk-console/internal/auth"
	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/internal/calls"
	"callerdesk-console/internal/config"
	"callerdesk-console/internal/httpapi"
	"callerdesk-console/internal/observability/metrics"
	"callerdesk-console/internal/reporting"
	"callerdesk-console/internal/routing"
	"callerdesk-console/internal/settings"
	"callerdesk-console/pkg/logger"
	"callerdesk-console/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	var db *sql.DB
	auditRepo := audit.Repository(audit.NewMemoryRepo())
	if cfg.DB.Enabled() {
		db, err = utils.OpenPostgres(rootCtx, cfg.PostgresDSN(), utils.PostgresPoolConfig{})
		if err != nil {
			log.Error("postgres init failed", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		auditRepo = audit.NewPostgresRepo(db)
	} else {
		log.Warn("DB_HOST not set; audit events are kept in memory")
	}
	auditSvc := audit.NewService(auditRepo)

	consoleMetrics := metrics.NewConsoleMetrics(prometheus.DefaultRegisterer)

	api, err := callerdesk.New(callerdesk.Config{
		BaseURL:  cfg.CallerDesk.BaseURL,
		Timeout:  cfg.CallerDesk.HTTPTimeout,
		Logger:   log,
		Observer: consoleMetrics,
	})
	if err != nil {
		log.Error("callerdesk client init failed", "err", err)
		os.Exit(1)
	}

	credentials := settings.NewService(settings.NewRedisStore(rdb), api, auditSvc, cfg.CallerDesk.AuthCode)

	router := routing.NewRouter(calls.NewHistoryQuery(api), routing.NewRedirector(api), routing.Options{
		Matcher:  routing.MatcherFor(cfg.Routing.NumberMatch),
		PageSize: cfg.Routing.HistoryPageSize,
		Recorder: routing.Recorders{routing.AuditAdapter{Audit: auditSvc}, consoleMetrics},
	})

	app := deps{
		cfg:         cfg,
		db:          db,
		rdb:         rdb,
		auth:        authManager,
		metrics:     consoleMetrics,
		credentials: credentials,
		router:      router,
		handlers: httpapi.Handlers{
			Auth:             authManager,
			API:              api,
			Settings:         credentials,
			Router:           router,
			Reporting:        reporting.NewService(api),
			Audit:            auditSvc,
			LivePollInterval: cfg.App.LivePollInterval,
			Streams:          consoleMetrics,
		},
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))
	registerRoutes(r, app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
