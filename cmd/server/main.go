package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babytrack/internal/api"
	"babytrack/internal/auth"
	"babytrack/internal/config"
	"babytrack/internal/db"
	"babytrack/internal/logging"
	redisdb "babytrack/internal/redis"
	"babytrack/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.json"
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	l, err := logging.New(cfg.IsProd(), cfg.Log.Level)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer l.Sync()
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Init(cfg, l)
	if err != nil {
		l.Fatal("error initializing database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			l.Error("error closing database", zap.Error(err))
		}
	}()
	st := store.NewGormStore(conn)

	issuer, err := auth.NewIssuer(cfg.Server.JWTSecret)
	if err != nil {
		l.Fatal("error initializing token issuer", zap.Error(err))
	}
	if _, err := auth.EnsureAdmin(ctx, st, issuer, l); err != nil {
		l.Fatal("error seeding admin user", zap.Error(err))
	}

	// Rate limiting stays off unless redis is configured.
	var limiter auth.Limiter
	if rdb := redisdb.NewClient(cfg); rdb != nil {
		defer rdb.Close()
		if err := redisdb.Ping(ctx, rdb); err != nil {
			l.Fatal("error connecting to redis", zap.Error(err))
		}
		fw, err := auth.NewFixedWindowLimiter(rdb, "babytrack:ratelimit", cfg.RateLimit.PerMinute, time.Minute)
		if err != nil {
			l.Fatal("error initializing rate limiter", zap.Error(err))
		}
		limiter = fw
		l.Info("rate limiting enabled", zap.Int("perMinute", cfg.RateLimit.PerMinute))
	}

	r := api.SetupRouter(api.Deps{
		Config:  cfg,
		Store:   st,
		Issuer:  issuer,
		Limiter: limiter,
		Logger:  l,
	})
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	go func() {
		l.Info("server listening", zap.String("addr", cfg.Addr()), zap.String("subpath", cfg.Server.Subpath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("error shutting down server", zap.Error(err))
	}
}
