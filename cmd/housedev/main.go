package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"housedev/internal/app"
	"housedev/internal/config"
	"housedev/internal/env"
	"housedev/internal/importer"
	"housedev/internal/logger"
	"housedev/internal/render"
)

func main() {
	os.Exit(run())
}

func run() int {
	_, envErr := env.Load(".env")
	cfg, cfgErr := config.Load(config.Path())
	log := logger.New(cfg.LogPath)
	log.SetMirror(os.Stderr)
	if envErr != nil {
		log.Logf(".env: %v", envErr)
	}
	if cfgErr != nil {
		log.Logf("config: %v (using defaults)", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := app.New(cfg, log, render.New(cfg, log), importer.New())
	if err := a.Init(ctx); err != nil {
		log.Logf("setup failed: %v", err)
		return 1
	}
	defer a.Dispose()

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Logf("render loop: %v", err)
		return 1
	}
	return 0
}
