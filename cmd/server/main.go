package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rayanjunio/FlexiLease-Autos/internal/address"
	"github.com/rayanjunio/FlexiLease-Autos/internal/auth"
	"github.com/rayanjunio/FlexiLease-Autos/internal/cache"
	"github.com/rayanjunio/FlexiLease-Autos/internal/config"
	"github.com/rayanjunio/FlexiLease-Autos/internal/db"
	"github.com/rayanjunio/FlexiLease-Autos/internal/server"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	conn, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}
	logger.Info("connection with database ready")

	carCache := cache.NewRedis(cfg.RedisAddr)
	if err := carCache.Ping(context.Background()); err != nil {
		logger.Fatal("redis connection failed", zap.Error(err))
	}

	e := server.New(server.Deps{
		DB:      conn,
		Cache:   carCache,
		Address: address.NewClient(cfg.ViaCEPBaseURL),
		Tokens:  auth.NewManager(cfg.JWTSecret),
		Logger:  logger,
	})

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server gracefully stopped")
}

func buildLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
