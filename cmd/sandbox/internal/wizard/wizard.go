// Package wizard implements `sandbox init`: an interactive form that writes
// the engine configuration file, showing a diff before replacing an existing
// one.
package wizard

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/germanamz/tandy/cmd/sandbox/internal/styles"
	"github.com/germanamz/tandy/pkg/engine"
)

// Answers holds the raw form values.
type Answers struct {
	StartupNotification bool
	EngineBanner        bool
	Headless            bool
	LogLevel            string
	Development         bool
	Width               string
}

// FromConfig pre-fills answers from cfg.
func FromConfig(cfg engine.Config) Answers {
	return Answers{
		StartupNotification: cfg.StartupNotification,
		EngineBanner:        cfg.EngineBanner,
		Headless:            cfg.Headless,
		LogLevel:            cfg.Logging.Level,
		Development:         cfg.Logging.Development,
		Width:               strconv.Itoa(cfg.Text.Width),
	}
}

// Apply writes answers on top of base and validates the result.
func Apply(base engine.Config, a Answers) (engine.Config, error) {
	width, err := strconv.Atoi(strings.TrimSpace(a.Width))
	if err != nil {
		return engine.Config{}, fmt.Errorf("wizard: width %q is not a number", a.Width)
	}

	cfg := base
	cfg.StartupNotification = a.StartupNotification
	cfg.EngineBanner = a.EngineBanner
	cfg.Headless = a.Headless
	cfg.Logging.Level = a.LogLevel
	cfg.Logging.Development = a.Development
	cfg.Text.Width = width
	if !cfg.Headless {
		cfg.Hold = false
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

func validateWidth(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return errors.New("enter a non-negative number")
	}
	return nil
}

// Prompt runs the form, starting from base.
func Prompt(base engine.Config) (engine.Config, error) {
	a := FromConfig(base)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Deliver the startup notification?").
				Description("Applications receive OnStart before the run loop.").
				Value(&a.StartupNotification),
			huh.NewConfirm().
				Title("Log the engine banner?").
				Value(&a.EngineBanner),
			huh.NewConfirm().
				Title("Run headless?").
				Description("Print to stdout instead of the full-screen viewer.").
				Value(&a.Headless),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&a.LogLevel),
			huh.NewConfirm().
				Title("Human-readable console logs?").
				Value(&a.Development),
			huh.NewInput().
				Title("Text wrap width (0 disables wrapping)").
				Value(&a.Width).
				Validate(validateWidth),
		),
	)
	if err := form.Run(); err != nil {
		return engine.Config{}, err
	}

	return Apply(base, a)
}

// Diff returns a unified diff between the old and new file contents, or an
// empty string when they match.
func Diff(path string, oldContent, newContent []byte) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldContent)),
		B:        difflib.SplitLines(string(newContent)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	}

	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("(diff error: %v)", err)
	}
	return result
}

// Colorize styles diff lines for display.
func Colorize(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = styles.DiffHdrStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = styles.DiffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = styles.DiffDelStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// ConfirmFunc asks whether to apply diff to path.
type ConfirmFunc func(path, diff string) (bool, error)

// ConfirmOverwrite is the interactive ConfirmFunc.
func ConfirmOverwrite(path, diff string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewNote().Title("Changes to " + path).Description(Colorize(diff)),
		huh.NewConfirm().Title("Apply these changes?").Value(&ok),
	)).Run()
	return ok, err
}

// ErrDeclined is returned by Save when the user rejects the diff.
var ErrDeclined = errors.New("wizard: changes declined")

// Save writes cfg to path. An existing file with different content is only
// replaced after confirm approves the diff. It reports whether the file was
// written.
func Save(path string, cfg engine.Config, confirm ConfirmFunc) (bool, error) {
	data, err := engine.MarshalConfig(cfg)
	if err != nil {
		return false, err
	}

	old, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return false, fmt.Errorf("wizard: read %s: %w", path, err)
	default:
		diff := Diff(path, old, data)
		if diff == "" {
			return false, nil
		}
		ok, err := confirm(path, diff)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, ErrDeclined
		}
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("wizard: write %s: %w", path, err)
	}
	return true, nil
}
