package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/germanamz/tandy/pkg/logging"
	"github.com/germanamz/tandy/pkg/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeApp struct {
	notified   int
	runs       int
	closed     int
	runErr     error
	closeErr   error
	panicOnRun bool
	env        *Env
}

func (a *fakeApp) OnStart(_ context.Context, env *Env) {
	a.notified++
	a.env = env
}

func (a *fakeApp) Run(_ context.Context, env *Env) error {
	a.runs++
	if a.panicOnRun {
		panic("boom")
	}
	a.env = env
	return a.runErr
}

func (a *fakeApp) Close() error {
	a.closed++
	return a.closeErr
}

// quietApp has no startup notification.
type quietApp struct {
	Base
	closed int
}

func (a *quietApp) Close() error {
	a.closed++
	return nil
}

func observed(level zapcore.Level) (*logging.Context, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logging.NewWithCore(core), logs
}

func drain(sub *Subscription) []Event {
	var out []Event
	for {
		select {
		case e := <-sub.C:
			out = append(out, e)
		default:
			return out
		}
	}
}

func states(events []Event) []State {
	var out []State
	for _, e := range events {
		if e.Kind == EventStateChanged {
			out = append(out, e.State)
		}
	}
	return out
}

func runMain(t *testing.T, factory Factory, cfg Config, extra ...Option) ([]Event, *observer.ObservedLogs, error) {
	t.Helper()

	lc, logs := observed(zapcore.InfoLevel)
	bus := NewEventBus()
	sub := bus.Subscribe(64)
	defer bus.Unsubscribe(sub)

	opts := []Option{
		WithConfig(cfg),
		WithLogging(lc),
		WithEvents(bus),
		WithText(&text.Buffer{}),
	}
	err := Main(context.Background(), factory, append(opts, extra...)...)

	return drain(sub), logs, err
}

func TestMain_FullLifecycle(t *testing.T) {
	app := &fakeApp{}
	calls := 0
	factory := func() Application {
		calls++
		return app
	}

	events, _, err := runMain(t, factory, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, app.notified)
	assert.Equal(t, 1, app.runs)
	assert.Equal(t, 1, app.closed)
	assert.Equal(t, []State{
		StateLoggerReady,
		StateInstanceConstructed,
		StateNotifiedStartup,
		StateRunning,
		StateTerminated,
	}, states(events))
}

func TestMain_StartupNotificationDisabled(t *testing.T) {
	app := &fakeApp{}
	cfg := DefaultConfig()
	cfg.StartupNotification = false

	events, _, err := runMain(t, func() Application { return app }, cfg)
	require.NoError(t, err)

	assert.Zero(t, app.notified)
	assert.Equal(t, 1, app.runs)
	assert.Equal(t, 1, app.closed)
	assert.Equal(t, []State{
		StateLoggerReady,
		StateInstanceConstructed,
		StateRunning,
		StateTerminated,
	}, states(events))
}

func TestMain_AppWithoutNotifier(t *testing.T) {
	app := &quietApp{}

	events, _, err := runMain(t, func() Application { return app }, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, app.closed)
	assert.NotContains(t, states(events), StateNotifiedStartup)
}

func TestMain_ReleaseEventBeforeTerminated(t *testing.T) {
	events, _, err := runMain(t, func() Application { return &fakeApp{} }, DefaultConfig())
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, EventReleased, events[len(events)-2].Kind)
	assert.Equal(t, StateTerminated, events[len(events)-1].State)
}

func TestMain_BannerLoggedBeforeFactory(t *testing.T) {
	lc, logs := observed(zapcore.InfoLevel)

	seen := -1
	factory := func() Application {
		seen = logs.Len()
		return &fakeApp{}
	}

	err := Main(context.Background(), factory, WithLogging(lc), WithText(&text.Buffer{}))
	require.NoError(t, err)

	assert.Equal(t, 1, seen)
	entries := logs.All()
	require.NotEmpty(t, entries)
	assert.Equal(t, "Tandy Engine Start!", entries[0].Message)
	assert.Equal(t, "TANDY", entries[0].LoggerName)
}

func TestMain_BannerDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EngineBanner = false

	_, logs, err := runMain(t, func() Application { return &fakeApp{} }, cfg)
	require.NoError(t, err)
	assert.Zero(t, logs.FilterMessage("Tandy Engine Start!").Len())
}

func TestMain_EnvWiring(t *testing.T) {
	app := &fakeApp{}
	buf := &text.Buffer{}
	loop := HeadlessLoop{}

	_, _, err := runMain(t, func() Application { return app }, DefaultConfig(), WithText(buf), WithLoop(loop))
	require.NoError(t, err)

	require.NotNil(t, app.env)
	assert.Same(t, buf, app.env.Text)
	assert.Equal(t, loop, app.env.Loop)
	assert.NotNil(t, app.env.Log)
	assert.NotNil(t, app.env.Events)
}

func TestMain_NilFactory(t *testing.T) {
	events, logs, err := runMain(t, nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilFactory)
	assert.Equal(t, 1, logs.FilterMessage("lifecycle failed").Len())
	assert.Equal(t, EventError, events[len(events)-1].Kind)
}

func TestMain_NilApplication(t *testing.T) {
	events, _, err := runMain(t, func() Application { return nil }, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilApplication)
	assert.NotContains(t, states(events), StateInstanceConstructed)
}

func TestMain_TypedNilApplication(t *testing.T) {
	events, _, err := runMain(t, func() Application {
		var app *quietApp
		return app
	}, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilApplication)
	assert.NotContains(t, states(events), StateInstanceConstructed)
	assert.NotContains(t, states(events), StateRunning)
}

func TestMain_TypedNilNotifier(t *testing.T) {
	_, _, err := runMain(t, func() Application {
		var app *fakeApp
		return app
	}, DefaultConfig())
	assert.ErrorIs(t, err, ErrNilApplication)
}

func TestMain_RunErrorStillReleases(t *testing.T) {
	sentinel := errors.New("loop exploded")
	app := &fakeApp{runErr: sentinel}

	_, _, err := runMain(t, func() Application { return app }, DefaultConfig())
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorContains(t, err, "engine: run")
	assert.Equal(t, 1, app.closed)
	assert.Equal(t, 1, ExitCode(err))
}

func TestMain_PanicStillReleases(t *testing.T) {
	app := &fakeApp{panicOnRun: true}

	assert.PanicsWithValue(t, "boom", func() {
		_, _, _ = runMain(t, func() Application { return app }, DefaultConfig())
	})
	assert.Equal(t, 1, app.closed)
}

func TestMain_CloseError(t *testing.T) {
	app := &fakeApp{closeErr: errors.New("busy")}

	_, _, err := runMain(t, func() Application { return app }, DefaultConfig())
	assert.EqualError(t, err, "engine: release: busy")
	assert.Equal(t, 1, app.closed)
}

func TestMain_InvalidLoggingConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "shouty"

	calls := 0
	err := Main(context.Background(), func() Application {
		calls++
		return &fakeApp{}
	}, WithConfig(cfg))

	assert.ErrorContains(t, err, "engine: init logging")
	assert.Zero(t, calls)
}

func TestMain_HeldLoopCancelled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Headless, cfg.Hold = true, true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app := &quietApp{}
	lc, _ := observed(zapcore.InfoLevel)
	err := Main(ctx, func() Application { return app }, WithConfig(cfg), WithLogging(lc), WithText(&text.Buffer{}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 130, ExitCode(err))
	assert.Equal(t, 1, app.closed)
}

func TestBase_RunDelegatesToLoop(t *testing.T) {
	var got *Env
	env := &Env{Loop: LoopFunc(func(_ context.Context, e *Env) error {
		got = e
		return nil
	})}

	require.NoError(t, Base{}.Run(context.Background(), env))
	assert.Same(t, env, got)
}

func TestBase_RunWithoutLoop(t *testing.T) {
	assert.ErrorIs(t, Base{}.Run(context.Background(), nil), ErrNoLoop)
	assert.ErrorIs(t, Base{}.Run(context.Background(), &Env{}), ErrNoLoop)
}

func TestHandle_ReleaseOnce(t *testing.T) {
	app := &fakeApp{}
	h := NewHandle(app)

	assert.Same(t, app, h.Get())
	assert.False(t, h.Released())

	require.NoError(t, h.Release())
	require.NoError(t, h.Release())

	assert.Equal(t, 1, app.closed)
	assert.True(t, h.Released())
	assert.Nil(t, h.Get())
}

func TestHandle_ReleaseWithoutCloser(t *testing.T) {
	h := NewHandle(Base{})
	assert.NoError(t, h.Release())
}

func TestHeadlessLoop_ReturnsImmediately(t *testing.T) {
	assert.NoError(t, HeadlessLoop{}.Run(context.Background(), nil))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 130, ExitCode(context.Canceled))
	assert.Equal(t, 1, ExitCode(ErrNilApplication))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "logger_ready", StateLoggerReady.String())
	assert.Equal(t, "terminated", StateTerminated.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestPlatform(t *testing.T) {
	assert.NotEmpty(t, Platform)
	assert.True(t, PlatformSupported)
}
