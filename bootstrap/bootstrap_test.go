package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/inject/component"
	"github.com/kbukum/inject/config"
	"github.com/kbukum/inject/di"
	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

type store struct{ closed int }

func (s *store) Close() error {
	s.closed++
	return nil
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func newTestApp(t *testing.T, opts ...Option) *App[*testConfig] {
	t.Helper()
	reg := di.New(di.WithLogger(logger.NewNop()), di.WithFatalHandler(di.PanicOnMissing))
	opts = append([]Option{WithLogger(logger.NewNop()), WithRegistry(reg)}, opts...)
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"), opts...)
	require.NoError(t, err)
	return app
}

func healthy(name string) *mockComponent {
	return &mockComponent{name: name, health: component.Health{Name: name, Status: component.StatusHealthy}}
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, "test-svc", app.Name)
	assert.Equal(t, "1.0.0", app.Version)
	assert.Equal(t, "test-svc", app.Cfg.Name)
	assert.NotNil(t, app.Components)
	assert.NotNil(t, app.Logger)
	assert.NotNil(t, app.Registry)
}

func TestNewApp_PublishesCoreTypes(t *testing.T) {
	app := newTestApp(t)

	assert.Same(t, app.Cfg, di.Resolve[*testConfig](app.Registry))
	assert.Same(t, app.Logger, di.Resolve[*logger.Logger](app.Registry))
	assert.Same(t, app.Components, di.Resolve[*component.Registry](app.Registry))
	assert.Equal(t, 3, app.Registry.Len())
}

func TestNewApp_RegistersPackageLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&logger.Config{Level: "info", Format: "json"}, "test-svc", logger.WithWriter(&buf))
	newTestApp(t, WithLogger(l))
	t.Cleanup(func() {
		for _, name := range packageLoggers {
			logger.Register(name, logger.NewNop())
		}
	})

	logger.Get("config").Info("config loaded")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "config loaded", entry["message"])
	assert.Equal(t, "config", entry[logger.FieldComponent])
}

func TestNewApp_Validation(t *testing.T) {
	_, err := NewApp(&testConfig{}, WithLogger(logger.NewNop()))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfig))
	assert.Contains(t, err.Error(), "config validation")
}

func TestNewApp_RegistryFromConfig(t *testing.T) {
	cfg := newTestConfig("test-svc", "1.0.0")
	cfg.Registry.OnMissing = di.OnMissingPanic

	app, err := NewApp(cfg, WithLogger(logger.NewNop()))
	require.NoError(t, err)

	assert.Panics(t, func() { di.Resolve[*store](app.Registry) })
}

func TestNewApp_SharedRegistry(t *testing.T) {
	reg := di.New(di.WithLogger(logger.NewNop()))
	s := &store{}
	di.Register(reg, s)

	app, err := NewApp(newTestConfig("test-svc", ""), WithLogger(logger.NewNop()), WithRegistry(reg))
	require.NoError(t, err)

	assert.Same(t, reg, app.Registry)
	assert.Same(t, s, di.Resolve[*store](app.Registry))
}

func TestProvide(t *testing.T) {
	app := newTestApp(t)
	s := &store{}
	Provide(app, s)

	assert.Same(t, s, di.Resolve[*store](app.Registry))
}

func TestAddComponent(t *testing.T) {
	app := newTestApp(t)
	db := healthy("db")

	require.NoError(t, AddComponent(app, db))

	assert.Same(t, db, di.Resolve[*mockComponent](app.Registry))
	assert.Same(t, db, app.Components.Get("db"))
	assert.Equal(t, []ComponentInfo{{Name: "db", Type: "*bootstrap.mockComponent"}}, app.Summary.Components())
}

func TestAddComponent_AsInterface(t *testing.T) {
	app := newTestApp(t)
	db := healthy("db")

	require.NoError(t, AddComponent[component.Component](app, db))

	assert.Same(t, db, di.Resolve[component.Component](app.Registry))
	assert.False(t, di.Has[*mockComponent](app.Registry))
}

func TestAddComponent_Duplicate(t *testing.T) {
	app := newTestApp(t)
	first := healthy("db")
	require.NoError(t, AddComponent(app, first))

	err := AddComponent(app, healthy("db"))
	require.Error(t, err)
	assert.Same(t, first, di.Resolve[*mockComponent](app.Registry))
	assert.Len(t, app.Summary.Components(), 1)
}

func TestHooks_Order(t *testing.T) {
	app := newTestApp(t)
	var order []string
	record := func(name string) Hook {
		return func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	app.OnStart(record("start-1"), record("start-2"))
	app.OnReady(record("ready"))
	app.OnStop(record("stop"))

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"start-1", "start-2", "ready", "task", "stop"}, order)
}

func TestHookErrorStopsExecution(t *testing.T) {
	app := newTestApp(t)
	secondRan := false
	app.OnStart(
		func(ctx context.Context) error { return fmt.Errorf("boom") },
		func(ctx context.Context) error { secondRan = true; return nil },
	)

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		t.Fatal("task should not run")
		return nil
	})
	require.Error(t, err)
	assert.EqualError(t, err, "onStart hook failed: hook 0 failed: boom")
	assert.False(t, secondRan)
}

func TestRunTask_ReadyHookError(t *testing.T) {
	app := newTestApp(t)
	app.OnReady(func(ctx context.Context) error { return fmt.Errorf("not ready") })

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "onReady hook failed")
}

func TestRunTask_StopHookError(t *testing.T) {
	app := newTestApp(t)
	app.OnStop(func(ctx context.Context) error { return fmt.Errorf("stop failed") })

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop failed")
}

func TestRunTask_TaskErrorWins(t *testing.T) {
	app := newTestApp(t)
	app.OnStop(func(ctx context.Context) error { return fmt.Errorf("stop failed") })

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return fmt.Errorf("task failed") })
	assert.EqualError(t, err, "task failed")
}

func TestRunTask_Cancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := app.RunTask(ctx, func(ctx context.Context) error {
		cancel()
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTask_ComponentLifecycle(t *testing.T) {
	app := newTestApp(t)
	db := healthy("db")
	require.NoError(t, AddComponent(app, db))

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		assert.True(t, db.started)
		assert.False(t, db.stopped)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, db.stopped)
}

func TestRunTask_ComponentStartError(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, AddComponent(app, &mockComponent{name: "db", startErr: fmt.Errorf("refused")}))

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialization failed")
	assert.True(t, errors.HasCode(err, errors.ErrCodeLifecycle))
}

func TestRunTask_ComponentStopError(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, AddComponent(app, &mockComponent{
		name:    "db",
		stopErr: fmt.Errorf("stop refused"),
		health:  component.Health{Name: "db", Status: component.StatusHealthy},
	}))

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stop refused")
}

func TestRun_ContextCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(context.Context) error {
		cancel()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestWaitForSignal_ContextCancellation(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Nil(t, app.WaitForSignal(ctx))
}

func TestShutdown_ClosesRegistry(t *testing.T) {
	app := newTestApp(t)
	s := &store{}
	Provide(app, s)
	id := app.Registry.ID()

	require.NoError(t, app.Shutdown())

	assert.Equal(t, 1, s.closed)
	assert.Zero(t, app.Registry.Len())
	assert.NotEqual(t, id, app.Registry.ID())
}

// closingComponent is a component that also implements io.Closer.
type closingComponent struct {
	mockComponent
	closed int
}

func (c *closingComponent) Close() error {
	c.closed++
	return nil
}

func TestShutdown_StopsComponentsWithoutClosingThem(t *testing.T) {
	app := newTestApp(t)
	comp := &closingComponent{mockComponent: *healthy("db")}
	require.NoError(t, AddComponent(app, comp))
	s := &store{}
	Provide(app, s)

	require.NoError(t, app.RunTask(context.Background(), func(ctx context.Context) error { return nil }))

	assert.True(t, comp.stopped)
	assert.Zero(t, comp.closed)
	assert.Equal(t, 1, s.closed)
}

func TestShutdown_ClosesReplacedComponentKey(t *testing.T) {
	app := newTestApp(t)
	comp := &closingComponent{mockComponent: *healthy("db")}
	require.NoError(t, AddComponent(app, comp))

	replacement := &closingComponent{mockComponent: *healthy("db-2")}
	Provide(app, replacement)

	require.NoError(t, app.Shutdown())

	assert.Zero(t, comp.closed)
	assert.Equal(t, 1, replacement.closed)
}

func TestSameValue(t *testing.T) {
	a, b := &store{}, &store{}
	assert.True(t, sameValue(a, a))
	assert.False(t, sameValue(a, b))
	assert.False(t, sameValue(a, nil))
	assert.False(t, sameValue(store{}, store{}))
}

func TestStartup_LogsDuration(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&logger.Config{Level: "info", Format: "json"}, "test-svc", logger.WithWriter(&buf))
	app := newTestApp(t, WithLogger(l))

	require.NoError(t, app.RunTask(context.Background(), func(ctx context.Context) error { return nil }))

	var started map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "Application started" {
			started = entry
		}
	}
	require.NotNil(t, started)
	assert.Equal(t, "startup", started[logger.FieldOperation])
	assert.Contains(t, started, logger.FieldDuration)
}

func TestReadyCheck(t *testing.T) {
	tests := []struct {
		name    string
		health  component.Health
		wantErr string
	}{
		{"healthy", component.Health{Name: "db", Status: component.StatusHealthy}, ""},
		{"unhealthy", component.Health{Name: "db", Status: component.StatusUnhealthy, Message: "timeout"}, "db=unhealthy(timeout)"},
		{"degraded", component.Health{Name: "db", Status: component.StatusDegraded}, "db=degraded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t)
			require.NoError(t, AddComponent(app, &mockComponent{name: "db", health: tc.health}))

			err := app.ReadyCheck(context.Background())
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestReadyCheck_Empty(t *testing.T) {
	app := newTestApp(t)
	assert.NoError(t, app.ReadyCheck(context.Background()))
}

func TestGracefulTimeout(t *testing.T) {
	assert.Equal(t, 15*time.Second, newTestApp(t).gracefulTimeout)
	assert.Equal(t, 3*time.Second, newTestApp(t, WithGracefulTimeout(3*time.Second)).gracefulTimeout)
}

func TestSummaryWrite(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, AddComponent(app, healthy("db")))
	require.NoError(t, AddComponent(app, &mockComponent{
		name:   "cache",
		health: component.Health{Name: "cache", Status: component.StatusUnhealthy, Message: "timeout"},
	}))
	app.Summary.SetStartupDuration(1500 * time.Millisecond)

	var buf bytes.Buffer
	app.Summary.Write(&buf, app.Registry, app.Components)
	out := buf.String()

	assert.Contains(t, out, "test-svc v1.0.0 started in 1.50s")
	assert.Contains(t, out, "Registry "+app.Registry.ID())
	assert.Contains(t, out, "*bootstrap.testConfig")
	assert.Contains(t, out, "*component.Registry")
	assert.Contains(t, out, "db [*bootstrap.mockComponent]")
	assert.Contains(t, out, "cache: unhealthy - timeout")
	assert.Contains(t, out, "(1/2 healthy)")
}

func TestSummaryWrite_NilRegistries(t *testing.T) {
	s := NewSummary("svc", "0.1.0")

	var buf bytes.Buffer
	s.Write(&buf, nil, nil)

	assert.Contains(t, buf.String(), "svc v0.1.0 started")
	assert.NotContains(t, buf.String(), "Registry")
}

func TestSummaryWrite_EmptyRegistry(t *testing.T) {
	s := NewSummary("svc", "0.1.0")
	reg := di.New(di.WithLogger(logger.NewNop()))

	var buf bytes.Buffer
	s.Write(&buf, reg, component.NewRegistry())

	assert.Contains(t, buf.String(), "No types registered")
	assert.NotContains(t, buf.String(), "Health Check")
}

func TestTreePrefix(t *testing.T) {
	assert.Equal(t, "├──", treePrefix(0, 2))
	assert.Equal(t, "└──", treePrefix(1, 2))
}

func TestHealthStatusIcon(t *testing.T) {
	assert.Equal(t, "✅", healthStatusIcon(component.StatusHealthy))
	assert.Equal(t, "⚠️", healthStatusIcon(component.StatusDegraded))
	assert.Equal(t, "❌", healthStatusIcon(component.StatusUnhealthy))
	assert.Equal(t, "❓", healthStatusIcon("unknown"))
}
