// Package shell runs shell command lines as subprocesses.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/zerr"
)

// Shell is the interpreter command lines are handed to.
const Shell = "/bin/sh"

// waitDelay bounds how long Wait blocks on pipes held open by orphaned children after a cancel.
const waitDelay = time.Second

// Runner implements ports.CommandRunner with /bin/sh -c.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a Runner that logs each line of the commands' stderr as a warning.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run executes command in dir, streaming its standard output to stdout.
// Cancelling ctx kills the whole process group, so pipelines die together.
func (r *Runner) Run(ctx context.Context, dir, command string, stdout io.Writer) error {
	//nolint:gosec // commands come from the project's own build metadata
	cmd := exec.CommandContext(ctx, Shell, "-c", command)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	cmd.Stdout = stdout

	stderrLog := &logWriter{logger: r.logger}
	defer func() { _ = stderrLog.Close() }()
	cmd.Stderr = stderrLog

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = waitDelay

	r.logger.Debug("running: " + command)
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode), "dir", dir)
	}
	return nil
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}

		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if strings.TrimSpace(msg) == "" {
		return
	}

	w.logger.Warn(msg)
}
