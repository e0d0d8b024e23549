package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vidvault/video-vault/internal/api"
	"github.com/vidvault/video-vault/internal/core/service"
	"github.com/vidvault/video-vault/internal/infrastructure/blob"
	mongodb "github.com/vidvault/video-vault/internal/infrastructure/db/mongo"
	redisdb "github.com/vidvault/video-vault/internal/infrastructure/db/redis"
	"github.com/vidvault/video-vault/internal/pkg/config"
	"github.com/vidvault/video-vault/pkg/logger"
)

const (
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	blobs, err := blob.New(ctx, blob.Config{
		Endpoint:        cfg.Blob.Endpoint,
		AccessKeyID:     cfg.Blob.AccessKeyID,
		SecretAccessKey: cfg.Blob.SecretAccessKey,
		Bucket:          cfg.Blob.Bucket,
		Region:          cfg.Blob.Region,
		UseSSL:          cfg.Blob.UseSSL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise object storage")
	}

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	// Seed the two well-known access codes so a fresh deployment is usable
	// without manual setup. Upserts, so existing codes are left alone.
	if err := service.EnsureDefaultCodes(ctx, mongodb.NewAccessCodeRepository(db), service.DefaultCodes{
		UserCode:  cfg.DefaultUserCode,
		AdminCode: cfg.DefaultAdminCode,
	}, log); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default access codes")
	}

	e := api.NewRouter(db, rdb, blobs, log, api.Options{
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      tokenTTL,
		MaxUploadSize: cfg.MaxUploadSize,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
