package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tbxark/tripagent/agent"
	"github.com/tbxark/tripagent/app"
	"github.com/tbxark/tripagent/config"
	"github.com/tbxark/tripagent/server"
)

func main() {
	conf := flag.String("config", "", "path to a YAML config file")
	flag.Parse()
	cfg, err := config.Load(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := startServer(cfg); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func startServer(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.SetupLogging(cfg)
	cm, err := app.NewChatModel(ctx, cfg)
	if err != nil {
		return err
	}
	gw, err := app.NewGateway(cfg, cm)
	if err != nil {
		return err
	}
	registry := agent.NewRegistry(func() *agent.Orchestrator {
		return app.NewOrchestrator(cfg, gw)
	})
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.NewServer(registry, app.NewSelector(cfg), cfg.AllowedOrigin).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Listening", "addr", cfg.Listen, "gateway", cfg.Gateway.Kind)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
