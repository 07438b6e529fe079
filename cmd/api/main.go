package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ai-dashboard/internal/config"
	"github.com/ai-dashboard/internal/infrastructure/cache"
	"github.com/ai-dashboard/internal/infrastructure/dynamo"
	jwtinfra "github.com/ai-dashboard/internal/infrastructure/jwt"
	"github.com/ai-dashboard/internal/infrastructure/kv"
	"github.com/ai-dashboard/internal/infrastructure/metrics"
	s3infra "github.com/ai-dashboard/internal/infrastructure/s3"
	"github.com/ai-dashboard/internal/pkg/logger"
	transporthttp "github.com/ai-dashboard/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	if envErr != nil {
		log.Info("no .env file found, reading from environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := dynamo.LoadAWSConfig(ctx, cfg)
	if err != nil {
		log.Fatal("failed to load AWS config", zap.Error(err))
	}

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(awsCfg, cfg)
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables, cfg.KV.Backend == "dynamo", log.Named("dynamo"))

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatal("JWT provider not available", zap.Error(err))
	}

	store, closeStore, err := openKVStore(cfg, awsCfg, dynamoClient)
	if err != nil {
		log.Fatal("failed to open key-value store", zap.String("backend", cfg.KV.Backend), zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close key-value store", zap.Error(err))
		}
	}()
	log.Info("key-value store ready", zap.String("backend", cfg.KV.Backend))

	deps := &transporthttp.Deps{
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SessionRepo: dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		ChatRepo:    dynamo.NewChatRepo(dynamoClient, cfg.DynamoTables.Chat),
		KV:          kv.NewAdapter(store, log.Named("kv")),
		Cache:       cache.New(cfg.CacheSizeMB, log.Named("cache")),
		Metrics:     metrics.New(cfg.MetricsEnabled),
		JWTProvider: jwtProvider,
		Log:         log,
	}

	router := transporthttp.NewRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

// openKVStore builds the backend selected by KV_BACKEND. The returned close
// func is always safe to call.
func openKVStore(cfg *config.Config, awsCfg aws.Config, dynamoClient *dynamodb.Client) (kv.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.KV.Backend {
	case "memory":
		return kv.NewMemoryStore(), noop, nil
	case "pebble", "":
		s, err := kv.NewPebbleStore(cfg.KV.PebblePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case "dynamo":
		return dynamo.NewKVRepo(dynamoClient, cfg.DynamoTables.KV), noop, nil
	case "s3":
		client := s3infra.NewClient(awsCfg, cfg)
		return s3infra.NewStore(client, cfg.S3BucketName, cfg.KV.S3Prefix), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown kv backend %q", cfg.KV.Backend)
	}
}
