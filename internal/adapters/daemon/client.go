package daemon

import (
	"context"
	"errors"
	"net"
	"time"

	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	dialRetryInterval = 100 * time.Millisecond
	maxDialDuration   = 5 * time.Second
)

// Client implements ports.DaemonClient over the daemon socket.
type Client struct {
	conn net.Conn
}

// Dial connects to the daemon at socketPath, retrying while the daemon starts up.
func Dial(ctx context.Context, socketPath string) (*Client, error) {
	var dialer net.Dialer
	start := time.Now()

	for {
		conn, err := dialer.DialContext(ctx, "unix", socketPath)
		if err == nil {
			return &Client{conn: conn}, nil
		}
		if time.Since(start) >= maxDialDuration {
			return nil, zerr.With(errors.Join(domain.ErrDaemonUnreachable, err), "socket", socketPath)
		}

		select {
		case <-ctx.Done():
			return nil, zerr.With(errors.Join(domain.ErrDaemonUnreachable, ctx.Err()), "socket", socketPath)
		case <-time.After(dialRetryInterval):
		}
	}
}

// Request sends one request line and returns the payload of the response frame.
func (c *Client) Request(ctx context.Context, req domain.Request) ([]byte, error) {
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, errors.Join(domain.ErrTransportFailed, err)
	}

	if _, err := c.conn.Write([]byte(req.String() + "\n")); err != nil {
		return nil, errors.Join(domain.ErrTransportFailed, err)
	}
	return ReadFrame(c.conn)
}

// Close hangs up, which ends the daemon's session.
func (c *Client) Close() error {
	return c.conn.Close()
}
