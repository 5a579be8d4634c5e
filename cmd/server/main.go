package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"user-roster/internal/config"
	"user-roster/internal/domain"
	apphttp "user-roster/internal/http"
	"user-roster/internal/metrics"
	"user-roster/internal/seed"
	"user-roster/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var seedUsers []domain.User
	if cfg.Database.Path != "" {
		db, err := seed.Open(cfg.Database.Path)
		if err != nil {
			logger.Fatalf("open seed database: %v", err)
		}
		seedUsers, err = seed.LoadUsers(ctx, db)
		db.Close()
		if err != nil {
			logger.Fatalf("load seed users: %v", err)
		}
		logger.Infof("loaded %d seed users from %s", len(seedUsers), cfg.Database.Path)
	}

	users := store.NewUserStore(seedUsers)

	auth := apphttp.NewAuthenticator(
		cfg.Auth.JWTSecret,
		cfg.Auth.APIPassword,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)
	if auth.Enabled() && cfg.Auth.APIPassword == "" {
		logger.Fatalf("auth api password is required when a jwt secret is configured")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(apphttp.RequestLogger(logger))

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(metrics.Config{
			Namespace: cfg.Metrics.Namespace,
			AppLabel:  cfg.Metrics.AppLabel,
		}, nil)
		// instrumentation sits outside recovery so it observes the 500s
		// recovery produces
		router.Use(collector.Middleware())
	}
	router.Use(gin.Recovery())

	handler := apphttp.NewHandler(users, auth, cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit, logger)
	handler.RegisterRoutes(router)

	if collector != nil {
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}
