// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// CommandRunner runs shell commands synchronously.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes command through the shell in dir and streams its standard output to stdout.
	//
	// It returns once the process has exited and been reaped. A non-zero exit status is
	// reported as an error carrying the exit code.
	Run(ctx context.Context, dir, command string, stdout io.Writer) error
}
