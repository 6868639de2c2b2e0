package ports

import (
	"context"

	"go.trai.ch/vimasm/internal/core/domain"
)

//go:generate mockgen -source=daemon.go -destination=mocks/mock_daemon.go -package=mocks

// DaemonClient defines the interface for querying a running daemon.
type DaemonClient interface {
	// Request sends one request and returns the payload of the response frame.
	Request(ctx context.Context, req domain.Request) ([]byte, error)

	// Close releases client resources, which ends the daemon's session.
	Close() error
}
