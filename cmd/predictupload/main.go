package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/predictupload/internal/cli"
	"github.com/dmitrijs2005/predictupload/internal/config"
	"github.com/dmitrijs2005/predictupload/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, os.Stdout, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	err = app.Run(ctx, config.Files())
	if cerr := app.Close(); cerr != nil {
		logger.Warn(ctx, "close failed", "error", cerr)
	}
	if err != nil {
		logger.Error(ctx, "predictupload failed", "error", err)
		stop()
		os.Exit(1)
	}

}
