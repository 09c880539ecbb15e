package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/coldkit/coldkit/pkg/billing"
	"github.com/coldkit/coldkit/pkg/compose"
	"github.com/coldkit/coldkit/pkg/config"
	"github.com/coldkit/coldkit/pkg/entitlement"
	"github.com/coldkit/coldkit/pkg/httpserver"
	"github.com/coldkit/coldkit/pkg/logger"
	"github.com/coldkit/coldkit/pkg/pg"
	"github.com/coldkit/coldkit/pkg/profile"
	"github.com/coldkit/coldkit/pkg/redis"
	"github.com/coldkit/coldkit/pkg/storage"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	// PlansPath points to an optional YAML file overriding the built-in
	// plan catalog.
	PlansPath string `env:"PLANS_PATH"`

	// BillingProvider selects the payment backend: lemonsqueezy or paddle.
	BillingProvider string `env:"BILLING_PROVIDER" envDefault:"lemonsqueezy"`

	// StorageDriver selects the document blob backend: local or s3.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"local"`
	LocalDataDir  string `env:"LOCAL_DATA_DIR" envDefault:"./data/documents"`

	// CacheEnabled fronts the entitlement store with Redis.
	CacheEnabled bool `env:"CACHE_ENABLED" envDefault:"false"`

	Server httpserver.Config
	DB     pg.Config
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Environment, "coldkitd"))
	slog.SetDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "service exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	healthchecks := []func(context.Context) error{pg.Healthcheck(pool)}

	var entStore entitlement.Store = entitlement.NewPostgresStore(pool)
	if cfg.CacheEnabled {
		var redisCfg redis.Config
		config.MustLoad(&redisCfg)

		rdb, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()

		entStore = entitlement.NewCachedStore(entStore, rdb)
		healthchecks = append(healthchecks, redis.Healthcheck(rdb))
	}

	ents, err := entitlement.NewService(ctx, catalogSource(cfg), entStore,
		entitlement.WithLogger(log))
	if err != nil {
		return fmt.Errorf("entitlement: %w", err)
	}

	provider, err := billingProvider(cfg)
	if err != nil {
		return fmt.Errorf("billing: %w", err)
	}

	blobs, err := blobStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	var geminiCfg compose.GeminiConfig
	config.MustLoad(&geminiCfg)
	gen, err := compose.NewGeminiProvider(geminiCfg)
	if err != nil {
		return fmt.Errorf("gemini: %w", err)
	}

	composer := compose.NewComposer(gen, ents, compose.WithLogger(log))

	profiles := profile.NewService(profile.NewPostgresStore(pool), blobs,
		profile.WithSummarizer(composer),
		profile.WithLogger(log))

	api := &api{
		log:       log,
		ents:      ents,
		billing:   provider,
		profiles:  profiles,
		composer:  composer,
		readiness: healthchecks,
	}

	srv := httpserver.New(cfg.Server, httpserver.WithLogger(log))
	return srv.Run(ctx, api.router())
}

func catalogSource(cfg appConfig) entitlement.CatalogSource {
	if cfg.PlansPath != "" {
		return entitlement.NewYAMLSource(cfg.PlansPath)
	}
	return entitlement.NewInMemSource(nil)
}

func billingProvider(cfg appConfig) (billing.Provider, error) {
	switch cfg.BillingProvider {
	case "paddle":
		var c billing.PaddleConfig
		config.MustLoad(&c)
		return billing.NewPaddleProvider(c)
	default:
		var c billing.LemonSqueezyConfig
		config.MustLoad(&c)
		return billing.NewLemonSqueezyProvider(c)
	}
}

func blobStorage(ctx context.Context, cfg appConfig) (storage.Storage, error) {
	if cfg.StorageDriver == "s3" {
		var c storage.S3Config
		config.MustLoad(&c)
		return storage.NewS3Storage(ctx, c)
	}
	return storage.NewLocalStorage(cfg.LocalDataDir, "")
}
