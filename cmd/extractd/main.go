package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/coldkit/coldkit/pkg/config"
	"github.com/coldkit/coldkit/pkg/extract"
	"github.com/coldkit/coldkit/pkg/httpserver"
	"github.com/coldkit/coldkit/pkg/logger"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	Server      httpserver.Config
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Environment, "extractd"))
	slog.SetDefault(log)

	handler := extract.NewHandler(extract.NewPDFExtractor(), extract.WithLogger(log))

	srv := httpserver.New(cfg.Server, httpserver.WithLogger(log))
	if err := srv.Run(ctx, handler.Router()); err != nil {
		log.ErrorContext(ctx, "server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
