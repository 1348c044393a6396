package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/gompdf/stylepdf/internal/config"
	"github.com/gompdf/stylepdf/internal/server"
)

func main() {
	configPath := flag.StringP("config", "c", "", "YAML config file")
	debug := flag.BoolP("debug", "d", false, "debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	log := cfg.Log.NewLogger(os.Stdout, *debug)

	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug(fmt.Sprintf(format, args...))
	}))

	enhancer, closeEnhancer, err := cfg.Enhance.NewClient(log)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	defer closeEnhancer()
	if cfg.Enhance.APIKey == "" {
		log.Warn("ANTHROPIC_API_KEY not set, /api/enhance is disabled")
	}

	srv := server.New(enhancer, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Graceful shutdown.
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	log.Info("starting stylepdf server", "port", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-drained
}
