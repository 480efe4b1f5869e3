package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Brownie44l1/crop-api/internal/config"
	"github.com/Brownie44l1/crop-api/internal/handlers"
	"github.com/Brownie44l1/crop-api/internal/infrastructure"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := infrastructure.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer infra.Close()

	handler := handlers.NewHandler(infra.Diagnosis, cfg.Weather.DefaultCity, logger)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("server starting", "addr", srv.Addr, "classes", infra.Classifier.Metadata.Classes)
	logger.Info("endpoints",
		"GET /", "upload form",
		"POST /", "form submission",
		"POST /diagnose", "plain-text report",
		"GET /health", "health check",
	)
	logger.Info("upload test: curl -X POST -F image=@leaf.jpg -F city=Pune http://localhost" + srv.Addr + "/diagnose")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")
}
