package main

import (
	"context"
	"flag"
	"os"

	app "github.com/aadsidhu-design/flexa-sub004/internal/app"
	"github.com/aadsidhu-design/flexa-sub004/internal/config"
	"github.com/aadsidhu-design/flexa-sub004/internal/replay"
	"github.com/aadsidhu-design/flexa-sub004/pkg/logger"
)

func main() {
	var (
		logLevel = flag.String("log-level", "info", "Log verbosity: debug, info, warn, error")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	_ = logger.SetLevelString(*logLevel)

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	svc := app.New(
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDefaultArmRadius(cfg.ArmRadiusMeters),
		app.WithTunings(cfg.Detectors),
		app.WithSmoothnessOptions(cfg.Smoothness.Options()...),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	if err := replay.Run(ctx, svc, replay.All()); err != nil {
		logger.Get().Error(ctx, "replay failed", logger.Error(err))
		os.Exit(1)
	}
}
