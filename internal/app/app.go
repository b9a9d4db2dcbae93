package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/five82/daylog/internal/config"
	"github.com/five82/daylog/internal/logclient"
	"github.com/five82/daylog/internal/prefs"
	"github.com/five82/daylog/internal/state"
	"github.com/five82/daylog/internal/ui"
)

// Options configure the viewer.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/daylog/viewer.toml
	PollEvery  int    // seconds; zero uses default
	DebugLog   string // diagnostics file; empty discards them
}

// Run boots the daylog viewer until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := newDebugLogger(opts.DebugLog)
	if err != nil {
		return err
	}
	defer closeLog()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("prefs unavailable, using defaults", "err", err)
	}

	client, err := logclient.NewClient(cfg.APIBind, cfg.APIToken)
	if err != nil {
		return fmt.Errorf("init daylog client: %w", err)
	}

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	poller := NewPoller(store, client, interval, logger)

	// Populate the selector before the first frame.
	_ = poller.Refresh(ctx)
	poller.Start(ctx)
	defer poller.Stop()

	logger.Info("viewer started", "api", cfg.APIBind, "poll", interval)

	uiOpts := ui.Options{
		Context:     ctx,
		Client:      client,
		Store:       store,
		Poller:      poller,
		APIBind:     cfg.APIBind,
		PollTick:    interval,
		ThemeName:   userPrefs.Theme,
		AutoRefresh: userPrefs.AutoRefresh,
		PrefsPath:   opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}

// newDebugLogger returns a diagnostics logger that never writes to the
// terminal the TUI owns.
func newDebugLogger(path string) (*charmLog.Logger, func(), error) {
	if path == "" {
		return charmLog.New(io.Discard), func() {}, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}
	logger := charmLog.NewWithOptions(file, charmLog.Options{
		Level:           charmLog.DebugLevel,
		Prefix:          "daylog",
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return logger, func() { _ = file.Close() }, nil
}
