package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miradorstack/fleetview/internal/config"
	"github.com/miradorstack/fleetview/internal/mockapi"
	"github.com/miradorstack/fleetview/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}
	logger := utils.NewLogger(nil, cfg.Logging.Level, cfg.Logging.JSON)

	mock := mockapi.NewServer(mockapi.Options{
		Fixtures:   mockapi.DefaultFixtures(time.Now()),
		BriefTTL:   cfg.Mock.BriefTTL,
		InsightTTL: cfg.Mock.InsightTTL,
		Logger:     logger,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	prefix := cfg.Mock.Prefix
	if prefix == "" || prefix == "/" {
		mux.Handle("/", mock.Handler())
	} else {
		mux.Handle(prefix+"/", http.StripPrefix(prefix, mock.Handler()))
	}

	server := &http.Server{
		Addr:         cfg.Mock.Address,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("mock fleet API listening", slog.String("address", cfg.Mock.Address), slog.String("prefix", prefix))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("mock fleet API exited", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("mock fleet API shutdown", slog.Any("error", err))
	}
}
