package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/germanamz/tandy/cmd/sandbox/internal/tui"
	"github.com/germanamz/tandy/cmd/sandbox/internal/wizard"
	"github.com/germanamz/tandy/pkg/engine"
	"github.com/germanamz/tandy/pkg/logging"
	"github.com/germanamz/tandy/pkg/text"
)

const defaultConfigFile = "tandy.yaml"

// cliFlags holds command-line overrides. Zero values leave the file setting
// untouched.
type cliFlags struct {
	configPath string
	envFile    string
	headless   bool
	hold       bool
	noStartup  bool
	noBanner   bool
	logLevel   string
	width      int
}

// loadDotEnv loads environment variables from path. If the file does not exist
// it is silently ignored so that .env files remain optional.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// resolveConfigPath returns the explicit path, else defaultConfigFile when it
// exists, else "" meaning built-in defaults.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

// loadConfig resolves, loads, overrides and validates the configuration.
func loadConfig(f cliFlags) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if path := resolveConfigPath(f.configPath); path != "" {
		loaded, err := engine.LoadConfig(path)
		if err != nil {
			return engine.Config{}, err
		}
		cfg = loaded
	}

	if f.headless {
		cfg.Headless = true
	}
	if f.hold {
		cfg.Hold = true
	}
	if f.noStartup {
		cfg.StartupNotification = false
	}
	if f.noBanner {
		cfg.EngineBanner = false
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	if f.width >= 0 {
		cfg.Text.Width = f.width
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

func isTerminal() bool {
	//nolint:gosec // Stdin/stdout fds are always small non-negative ints.
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
}

// printerOptions configures the headless printer. Output that is not going to
// a terminal is written without escape codes.
func printerOptions(cfg engine.Config, tty bool) []text.Option {
	opts := []text.Option{text.WithWidth(cfg.Text.Width)}
	if !tty {
		opts = append(opts, text.WithProfile(termenv.Ascii))
	}
	return opts
}

// surface picks the text printer and run loop for cfg.
func surface(cfg engine.Config, interactive bool) (text.Printer, engine.Loop) {
	if cfg.Headless || !interactive {
		return text.NewTermPrinter(os.Stdout, printerOptions(cfg, stdoutIsTerminal())...), engine.HeadlessLoop{Hold: cfg.Hold}
	}

	buf := &text.Buffer{}
	return buf, tui.Loop{Title: "Sandbox", Buffer: buf}
}

// run initializes logging, then hands CreateApplication to the engine.
func run(ctx context.Context, f cliFlags) (err error) {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	lc, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() {
		if serr := lc.Shutdown(); serr != nil && err == nil {
			err = serr
		}
	}()

	interactive := isTerminal()
	if interactive && !cfg.Headless {
		// Detect once, before bubbletea owns the terminal.
		tui.IsDarkBG = lipgloss.HasDarkBackground()
	}
	printer, loop := surface(cfg, interactive)

	return engine.Main(ctx, CreateApplication,
		engine.WithConfig(cfg),
		engine.WithLogging(lc),
		engine.WithText(printer),
		engine.WithLoop(loop),
	)
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigFile, "path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base := engine.DefaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := engine.LoadConfigRaw(*configPath)
		if err != nil {
			return fmt.Errorf("loading existing config: %w", err)
		}
		base = loaded
	}

	cfg, err := wizard.Prompt(base)
	if err != nil {
		return err
	}

	written, err := wizard.Save(*configPath, cfg, wizard.ConfirmOverwrite)
	if errors.Is(err, wizard.ErrDeclined) {
		fmt.Println("No changes written.")
		return nil
	}
	if err != nil {
		return err
	}

	if written {
		fmt.Printf("Wrote %s\n", *configPath)
	} else {
		fmt.Printf("%s is already up to date\n", *configPath)
	}
	return nil
}
