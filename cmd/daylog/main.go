package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/daylog/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override daylog config path (optional)")
	prefsPath := flag.String("prefs", "", "override viewer prefs path (optional)")
	pollSeconds := flag.Int("poll", 0, "partition refresh interval in seconds (optional, defaults to 2s)")
	debugLog := flag.String("debug-log", "", "write viewer diagnostics to this file (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		DebugLog:   *debugLog,
	}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "daylog: %v\n", err)
		return 1
	}
	return 0
}
