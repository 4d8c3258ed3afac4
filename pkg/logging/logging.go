// Package logging provides the logging context shared by the engine and the
// applications it hosts. A Context is created once at startup, handed to every
// component that needs to log, and shut down explicitly before exit.
//
// The backend is uber/zap with two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
package logging

import (
	"errors"
	"fmt"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config defines logger configuration.
type Config struct {
	Level       string   `yaml:"level"` // "debug", "info", "warn", "error"
	Development bool     `yaml:"development"`
	OutputPaths []string `yaml:"output_paths"`
}

// DefaultConfig returns the production logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		Development: false,
		OutputPaths: []string{"stderr"},
	}
}

// DevelopmentConfig returns the development logger configuration.
func DevelopmentConfig() Config {
	return Config{
		Level:       "debug",
		Development: true,
		OutputPaths: []string{"stderr"},
	}
}

// Context owns the process logger. It must be created with New (or
// NewWithCore) before the first log call and released with Shutdown.
type Context struct {
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

// New builds a logging context from cfg.
func New(cfg Config) (*Context, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	zapCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Development,
		Encoding:          encodingFormat(cfg.Development),
		EncoderConfig:     encoderConfig(cfg.Development),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: !cfg.Development,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}

	return &Context{logger: logger}, nil
}

// NewWithCore wraps an existing zap core, typically an observer in tests.
func NewWithCore(core zapcore.Core) *Context {
	return &Context{logger: zap.New(core)}
}

// Nop returns a context that discards everything.
func Nop() *Context {
	return &Context{logger: zap.NewNop()}
}

// Logger returns the root logger.
func (c *Context) Logger() *zap.Logger {
	return c.logger
}

// Named returns a child logger for a subsystem.
func (c *Context) Named(name string) *zap.Logger {
	return c.logger.Named(name)
}

// Shutdown flushes buffered entries. Calling it more than once is a no-op.
func (c *Context) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	err := c.logger.Sync()
	// Syncing a terminal or pipe fails on most platforms; nothing was lost.
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("logging: sync: %w", err)
	}

	return nil
}

// ParseLevel converts a level name to a zapcore.Level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}

	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logging: invalid level %q", level)
	}
	return l, nil
}

func encodingFormat(development bool) string {
	if development {
		return "console"
	}
	return "json"
}

func encoderConfig(development bool) zapcore.EncoderConfig {
	if development {
		return zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      "C",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}
	}

	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
