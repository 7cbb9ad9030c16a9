package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carelink/carelink/config"
	"github.com/carelink/carelink/internal/email"
	"github.com/carelink/carelink/internal/health"
	"github.com/carelink/carelink/internal/infrastructure/postgres"
	ctxlog "github.com/carelink/carelink/internal/log"
	"github.com/carelink/carelink/internal/metrics"
	"github.com/carelink/carelink/internal/token"
	httptransport "github.com/carelink/carelink/internal/transport/http"
	"github.com/carelink/carelink/internal/transport/http/handler"
	"github.com/carelink/carelink/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	tokens := token.NewManager([]byte(cfg.JWTSecret))
	sender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// Identity
	userRepo := postgres.NewUserRepository(pool)
	helperRepo := postgres.NewHelperRepository(pool)
	authUsecase := usecase.NewAuthUsecase(userRepo, helperRepo, tokens)
	authHandler := handler.NewAuthHandler(authUsecase, logger)

	// Connections
	connectionRepo := postgres.NewConnectionRepository(pool)
	connectionUsecase := usecase.NewConnectionUsecase(connectionRepo, helperRepo)
	connectionHandler := handler.NewConnectionHandler(connectionUsecase, logger)

	// Emergency contacts
	contactRepo := postgres.NewContactRepository(pool)
	contactUsecase := usecase.NewContactUsecase(contactRepo)
	contactHandler := handler.NewContactHandler(contactUsecase, logger)

	// Alerts
	alertRepo := postgres.NewAlertRepository(pool)
	alertUsecase := usecase.NewAlertUsecase(alertRepo, connectionRepo, sender, logger)
	alertHandler := handler.NewAlertHandler(alertUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, tokens, authHandler, connectionHandler, contactHandler, alertHandler),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
