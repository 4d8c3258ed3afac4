// Sandbox is the demo application for the Tandy engine. It loads an optional
// YAML configuration, hands CreateApplication to the engine's lifecycle shim,
// and shows the opening crawl either in a full-screen viewer or, when stdout
// is not a terminal or --headless is set, directly on stdout.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/tandy/pkg/engine"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		if err := runInit(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sandbox [flags]\n       sandbox init [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  init    Create or update the configuration file interactively\n")
	}

	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "path to configuration file (default: "+defaultConfigFile+" if present)")
	flag.StringVar(&f.envFile, "env", ".env", "path to .env file (ignored if missing)")
	flag.BoolVar(&f.headless, "headless", false, "print to stdout instead of the full-screen viewer")
	flag.BoolVar(&f.hold, "hold", false, "with --headless, keep running until interrupted")
	flag.BoolVar(&f.noStartup, "no-startup", false, "skip the startup notification")
	flag.BoolVar(&f.noBanner, "no-banner", false, "skip the engine banner log record")
	flag.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.IntVar(&f.width, "width", -1, "text wrap width (0 disables wrapping)")
	flag.Parse()

	if err := loadDotEnv(f.envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, f)
	cancel()

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(engine.ExitCode(err))
}
