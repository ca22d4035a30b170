// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valpere/mediasniff/internal/app"
	"github.com/valpere/mediasniff/internal/config"
)

// Version information (set by build flags)
var version = "dev"

func main() {
	configFile := flag.String("config", "", "path to YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg, version)
	logger := a.Logger

	a.Health.Start(ctx)
	defer a.Health.Stop()

	// the server accepts requests before Chrome is up; parses fail until it is
	go func() {
		if err := a.Session.Init(ctx); err != nil {
			logger.Errorf("Failed to initialize browser: %v", err)
			return
		}
		logger.Info("Browser initialized")
	}()

	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Server running on port %d", cfg.Server.Port)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		a.Session.Close()
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("HTTP shutdown: %v", err)
	}
	if err := a.Session.Close(); err != nil {
		logger.Warnf("Browser close: %v", err)
	}
	return nil
}
