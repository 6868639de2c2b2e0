package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vimasm/internal/app"
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/vimasm/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newTestApp(ctrl *gomock.Controller, logger ports.Logger) (*app.App, *mocks.MockConfigLoader, *mocks.MockWatcher) {
	loader := mocks.NewMockConfigLoader(ctrl)
	watcher := mocks.NewMockWatcher(ctrl)
	watcher.EXPECT().Close().Return(nil).AnyTimes()

	a := app.New(
		loader,
		mocks.NewMockCommandRunner(ctrl),
		logger,
		mocks.NewMockTracer(ctrl),
		watcher,
		func(string) bool { return false },
	)
	return a, loader, watcher
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	application, _, _ := newTestApp(ctrl, mockLogger)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, stderr, provider)

	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "vimasm version")
	assert.Empty(t, stderr.String())
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, io.Discard, stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	application, loader, _ := newTestApp(ctrl, mockLogger)

	loader.EXPECT().Load(gomock.Any()).Return(nil, errors.New("load failed"))
	mockLogger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorContains(t, err, "load failed")
	})

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"extract", "--project", t.TempDir(), "a.c"}, io.Discard, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_UsageError verifies that argument errors are reported through the logger.
func TestRun_UsageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	application, _, _ := newTestApp(ctrl, mockLogger)
	mockLogger.EXPECT().Error(gomock.Any())

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
	}

	exitCode := run(context.Background(), []string{"extract"}, io.Discard, io.Discard, provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_ClosesApp verifies that the watcher is released when run returns.
func TestRun_ClosesApp(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	loader := mocks.NewMockConfigLoader(ctrl)
	watcher := mocks.NewMockWatcher(ctrl)
	watcher.EXPECT().Close().Return(nil).Times(1)

	application := app.New(loader, mocks.NewMockCommandRunner(ctrl), mockLogger, mocks.NewMockTracer(ctrl), watcher, nil)
	cleaned := false
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return &app.Components{App: application, Logger: mockLogger}, func() { cleaned = true }, nil
	}

	exitCode := run(context.Background(), []string{"version"}, io.Discard, io.Discard, provider)
	assert.Equal(t, 0, exitCode)
	assert.True(t, cleaned)
}

// TestRun_Signal verifies that cancelling the context ends a running daemon.
func TestRun_Signal(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	application, loader, watcher := newTestApp(ctrl, mockLogger)

	dir := t.TempDir()
	writeFile(t, dir, "compile_commands.json", `[{"directory":"`+dir+`","command":"cc -c a.c","file":"a.c"}]`)
	cfg := domain.DefaultConfig()
	cfg.PollInterval = 10 * time.Millisecond
	loader.EXPECT().Load(gomock.Any()).Return(cfg, nil)
	watcher.EXPECT().Watch(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	watcher.EXPECT().Events().Return(nil).AnyTimes()

	socket := shortSocket(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int)

	go func() {
		done <- run(ctx, []string{"serve", "--socket", socket, dir}, io.Discard, io.Discard,
			func(context.Context) (*app.Components, func(), error) {
				return &app.Components{App: application, Logger: mockLogger}, func() {}, nil
			})
	}()

	require.Eventually(t, func() bool { return fileExists(socket) }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancellation")
	}
	assert.False(t, fileExists(socket))
}
