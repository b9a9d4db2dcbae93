package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/five82/daylog/internal/api"
	"github.com/five82/daylog/internal/config"
	"github.com/five82/daylog/internal/logstore"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "config file path (optional, defaults to $DAYLOG_CONFIG or ~/.config/daylog/config.toml)")
	addr := flag.String("addr", "", "listen address (optional, overrides api_bind)")
	flag.Parse()

	logger := charmLog.NewWithOptions(os.Stderr, charmLog.Options{
		Prefix:          "daylogd",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "daylogd: %v\n", err)
		return 1
	}
	level, err := charmLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warn("unknown log_level, using info", "log_level", cfg.LogLevel)
		level = charmLog.InfoLevel
	}
	logger.SetLevel(level)

	bind := cfg.APIBind
	if a := strings.TrimSpace(*addr); a != "" {
		bind = a
	}

	store, err := logstore.New(logstore.Options{
		Dir:              cfg.LogDir,
		Retention:        cfg.Retention,
		MaxReadLines:     cfg.MaxReadLines,
		DefaultReadLines: cfg.DefaultReadLines,
		MaxLineBytes:     cfg.MaxLineBytes,
		Logger:           logger,
		Echo:             cfg.ConsoleEcho,
	})
	if err != nil {
		logger.Error("init log store", "err", err)
		return 1
	}

	srv, err := api.New(api.Options{
		Store:     store,
		Logger:    logger,
		TokenHash: cfg.APITokenHash,
	})
	if err != nil {
		logger.Error("init api", "err", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sweeper := logstore.NewScheduler(store, cfg.SweepInterval)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(bind)
	}()

	logger.Info("serving", "addr", bind, "log_dir", store.Dir(), "retention", store.Retention(), "auth", cfg.APITokenHash != "")
	store.Info("daylogd started on", bind)

	exit := 0
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Error("server stopped", "err", err)
			store.Error("daylogd server failed:", err)
			exit = 1
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "err", err)
	}
	store.Info("daylogd stopped")
	return exit
}
