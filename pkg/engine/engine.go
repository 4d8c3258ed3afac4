package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/germanamz/tandy/pkg/logging"
	"github.com/germanamz/tandy/pkg/text"
	"go.uber.org/zap"
)

var (
	ErrNilFactory          = errors.New("engine: nil application factory")
	ErrNilApplication      = errors.New("engine: factory returned nil application")
	ErrNoLoop              = errors.New("engine: no run loop configured")
	ErrUnsupportedPlatform = errors.New("engine: unsupported platform " + Platform)
)

// Option configures Main.
type Option func(*options)

type options struct {
	cfg     Config
	logging *logging.Context
	text    text.Printer
	loop    Loop
	events  *EventBus
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogging supplies a logging context owned by the caller. Without it Main
// builds one from Config.Logging and shuts it down before returning.
func WithLogging(lc *logging.Context) Option {
	return func(o *options) { o.logging = lc }
}

// WithText sets the text output surface. Defaults to a terminal printer on
// stdout.
func WithText(p text.Printer) Option {
	return func(o *options) { o.text = p }
}

// WithLoop sets the run loop. Defaults to a HeadlessLoop.
func WithLoop(l Loop) Option {
	return func(o *options) { o.loop = l }
}

// WithEvents publishes lifecycle events on bus.
func WithEvents(bus *EventBus) Option {
	return func(o *options) { o.events = bus }
}

// Main bootstraps one application built by factory, runs it, and releases it.
// The instance is released on every exit path; a panic from the application is
// re-raised after release.
func Main(ctx context.Context, factory Factory, opts ...Option) (err error) {
	if !PlatformSupported {
		return ErrUnsupportedPlatform
	}

	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.events == nil {
		o.events = NewEventBus()
	}

	lc := o.logging
	if lc == nil {
		lc, err = logging.New(o.cfg.Logging)
		if err != nil {
			return fmt.Errorf("engine: init logging: %w", err)
		}
		defer func() {
			if serr := lc.Shutdown(); serr != nil && err == nil {
				err = serr
			}
		}()
	}

	lf := &lifecycle{log: lc.Named("TANDY"), events: o.events}
	lf.enter(StateLoggerReady)

	if o.cfg.EngineBanner {
		lf.log.Info("Tandy Engine Start!", zap.String("platform", Platform))
	}

	if factory == nil {
		return lf.fail(ErrNilFactory)
	}
	app := factory()
	if isNil(app) {
		return lf.fail(ErrNilApplication)
	}

	h := NewHandle(app)
	defer func() {
		if rerr := h.Release(); rerr != nil && err == nil {
			err = fmt.Errorf("engine: release: %w", rerr)
		}
		lf.events.Publish(Event{Kind: EventReleased, State: lf.state, Timestamp: time.Now()})
		lf.enter(StateTerminated)
	}()
	lf.enter(StateInstanceConstructed)

	env := &Env{
		Log:     lc.Named("APP"),
		Logging: lc,
		Text:    o.text,
		Loop:    o.loop,
		Events:  o.events,
	}
	if env.Text == nil {
		env.Text = text.NewTermPrinter(os.Stdout, text.WithWidth(o.cfg.Text.Width))
	}
	if env.Loop == nil {
		env.Loop = HeadlessLoop{Hold: o.cfg.Hold}
	}

	if o.cfg.StartupNotification {
		if n, ok := app.(StartupNotifier); ok {
			n.OnStart(ctx, env)
			lf.enter(StateNotifiedStartup)
		}
	}

	lf.enter(StateRunning)
	if err := app.Run(ctx, env); err != nil {
		return lf.fail(fmt.Errorf("engine: run: %w", err))
	}

	return nil
}

// isNil reports whether app is nil or wraps a nil pointer.
func isNil(app Application) bool {
	if app == nil {
		return true
	}
	v := reflect.ValueOf(app)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// lifecycle tracks and publishes state transitions for one Main call.
type lifecycle struct {
	log    *zap.Logger
	events *EventBus
	state  State
}

func (l *lifecycle) enter(s State) {
	l.state = s
	l.log.Debug("lifecycle", zap.Stringer("state", s))
	l.events.Publish(Event{Kind: EventStateChanged, State: s, Timestamp: time.Now()})
}

func (l *lifecycle) fail(err error) error {
	if !errors.Is(err, context.Canceled) {
		l.log.Error("lifecycle failed", zap.Stringer("state", l.state), zap.Error(err))
	}
	l.events.Publish(Event{Kind: EventError, State: l.state, Timestamp: time.Now(), Err: err})
	return err
}

// ExitCode maps the result of Main to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
