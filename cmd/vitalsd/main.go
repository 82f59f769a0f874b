package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitalsd/internal/config"
	"vitalsd/internal/logger"
	"vitalsd/internal/service"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	svc := service.New(cfg)

	go func() {
		if err := svc.Run(ctx); err != nil {
			logger.Logger.Error().Err(err).Msg("service exited")
			cancel()
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		logger.Logger.Info().Msg("shutting down")
		cancel()
	case <-ctx.Done():
	}

	// give graceful shutdown some time
	time.Sleep(500 * time.Millisecond)
	logger.Logger.Info().Msg("exited")
}
