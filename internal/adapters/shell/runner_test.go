package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vimasm/internal/adapters/shell"
	"go.trai.ch/vimasm/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newRunner(t *testing.T) (*shell.Runner, *mocks.MockLogger) {
	t.Helper()
	lg := mocks.NewMockLogger(gomock.NewController(t))
	lg.EXPECT().Debug(gomock.Any()).AnyTimes()
	return shell.NewRunner(lg), lg
}

func TestRunner_Run_Stdout(t *testing.T) {
	runner, _ := newRunner(t)

	var stdout bytes.Buffer
	err := runner.Run(context.Background(), t.TempDir(), "echo line1; echo line2 | tr a-z A-Z", &stdout)
	require.NoError(t, err)

	assert.Equal(t, "line1\nLINE2\n", stdout.String())
}

func TestRunner_Run_WorkingDirectory(t *testing.T) {
	runner, _ := newRunner(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, runner.Run(context.Background(), dir, "pwd -P", &stdout))

	assert.Equal(t, dir+"\n", stdout.String())
}

func TestRunner_Run_StderrIsLogged(t *testing.T) {
	runner, lg := newRunner(t)
	lg.EXPECT().Warn("warning: unused variable").Times(1)
	lg.EXPECT().Warn("partial").Times(1)

	var stdout bytes.Buffer
	err := runner.Run(context.Background(), t.TempDir(), "echo 'warning: unused variable' >&2; printf partial >&2", &stdout)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())
}

func TestRunner_Run_ExitCode(t *testing.T) {
	runner, _ := newRunner(t)

	err := runner.Run(context.Background(), t.TempDir(), "exit 3", &bytes.Buffer{})
	require.Error(t, err)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
}

func TestRunner_Run_Cancel(t *testing.T) {
	runner, _ := newRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := runner.Run(ctx, t.TempDir(), "sleep 10 | cat", &bytes.Buffer{})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestAvailable(t *testing.T) {
	dir := t.TempDir()
	tool := filepath.Join(dir, "fakefilt")
	//nolint:gosec // Test requires executable file
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\ncat\n"), 0o700))

	plain := filepath.Join(dir, "notexec")
	require.NoError(t, os.WriteFile(plain, []byte("data"), 0o600))

	t.Setenv("PATH", dir)

	assert.True(t, shell.Available("fakefilt"))
	assert.False(t, shell.Available("notexec"))
	assert.False(t, shell.Available("missing-tool"))
}
