package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/homeslice-backend/internal/app"
	"github.com/yungbote/homeslice-backend/internal/platform/envutil"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
)

func main() {
	log, err := logger.New(envutil.GetEnv("APP_MODE", "development", nil))
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	a, err := app.New(log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server error", "error", err)
		}
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.Shutdown(ctx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}
}
