package engine

import (
	"context"
	"io"
	"sync"

	"github.com/germanamz/tandy/pkg/logging"
	"github.com/germanamz/tandy/pkg/text"
	"go.uber.org/zap"
)

// Application is the capability every hosted application provides.
// Embedding Base supplies the engine's run loop.
type Application interface {
	Run(ctx context.Context, env *Env) error
}

// StartupNotifier is implemented by applications that want a one-shot
// notification after construction and before the run loop.
type StartupNotifier interface {
	OnStart(ctx context.Context, env *Env)
}

// Factory builds the single application instance for a process. The embedding
// program supplies it.
type Factory func() Application

// Env carries the engine services an application may use. It is created by
// Main once logging is ready.
type Env struct {
	Log     *zap.Logger // application logger
	Logging *logging.Context
	Text    text.Printer
	Loop    Loop
	Events  *EventBus
}

// Base provides the default Run, which hands control to the engine loop.
type Base struct{}

// Run delegates to env.Loop.
func (Base) Run(ctx context.Context, env *Env) error {
	if env == nil || env.Loop == nil {
		return ErrNoLoop
	}
	return env.Loop.Run(ctx, env)
}

// Handle is the sole owner of an application instance. Release hands the
// instance back exactly once; later calls are no-ops.
type Handle struct {
	mu       sync.Mutex
	app      Application
	released bool
}

// NewHandle takes ownership of app.
func NewHandle(app Application) *Handle {
	return &Handle{app: app}
}

// Get returns the owned instance, or nil after Release.
func (h *Handle) Get() Application {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.app
}

// Released reports whether Release has run.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.released
}

// Release drops the instance, calling Close when it implements io.Closer.
func (h *Handle) Release() error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return nil
	}
	app := h.app
	h.app = nil
	h.released = true
	h.mu.Unlock()

	if c, ok := app.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
