package daemon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/zerr"
)

const readChunkSize = 4096

// State is the session state of a Server.
type State uint8

const (
	// StateListening waits for the one client.
	StateListening State = iota
	// StateConnected reads and answers requests.
	StateConnected
	// StateDraining answers the requests already received after the client hung up.
	StateDraining
	// StateClosed has released the connection and removed the socket.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateListening:
		return "listening"
	case StateConnected:
		return "connected"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Handler answers a single request.
// On error the returned response may still carry the canonical file path.
type Handler interface {
	Handle(ctx context.Context, req domain.Request) (Response, error)
}

// Reloader re-reads build metadata.
type Reloader interface {
	Reload() error
}

// Options configures a Server.
type Options struct {
	SocketPath      string
	Format          domain.ResponseFormat
	PollInterval    time.Duration
	IdleTimeout     time.Duration
	MaxRequestBytes int

	// Events delivers metadata file changes. Any event triggers Reloader.
	Events   <-chan ports.WatchEvent
	Reloader Reloader
}

// Server serves one client over a unix socket, answering newline-terminated
// requests with length-prefixed frames.
type Server struct {
	handler   Handler
	logger    ports.Logger
	opts      Options
	lifecycle *Lifecycle
	listener  *net.UnixListener
	state     State
}

// NewServer creates a server. Zero options fall back to the defaults.
func NewServer(handler Handler, logger ports.Logger, opts Options) *Server {
	if opts.SocketPath == "" {
		opts.SocketPath = domain.DefaultSocketPath(os.Getpid())
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = domain.DefaultPollInterval
	}
	if opts.MaxRequestBytes <= 0 {
		opts.MaxRequestBytes = domain.DefaultMaxRequestBytes
	}
	if opts.Format == "" {
		opts.Format = domain.FormatRaw
	}
	return &Server{
		handler: handler,
		logger:  logger,
		opts:    opts,
	}
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.opts.SocketPath
}

// State returns the current session state.
func (s *Server) State() State {
	return s.state
}

// Listen binds the socket, replacing a stale file at its path, and restricts it to the owner.
func (s *Server) Listen() error {
	path := s.opts.SocketPath

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(errors.Join(domain.ErrSocketSetupFailed, err), "path", path)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return zerr.With(errors.Join(domain.ErrSocketSetupFailed, err), "path", path)
	}

	lis, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return zerr.With(errors.Join(domain.ErrSocketSetupFailed, err), "path", path)
	}
	lis.SetUnlinkOnClose(false)

	if err := os.Chmod(path, domain.SocketPerm); err != nil {
		_ = lis.Close()
		_ = os.Remove(path)
		return zerr.With(errors.Join(domain.ErrSocketSetupFailed, err), "path", path)
	}

	s.listener = lis
	s.state = StateListening
	return nil
}

// Serve accepts one client and answers its requests until the client hangs
// up, ctx is cancelled, the idle timeout fires or the transport fails.
// All of those end the session cleanly. The socket path is removed on return.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	defer s.cleanup()

	s.lifecycle = NewLifecycle(s.opts.IdleTimeout)
	defer s.lifecycle.Stop()

	conn, err := s.accept(ctx)
	if err != nil || conn == nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// One client per session.
	_ = s.listener.Close()
	s.setState(StateConnected)

	if err := s.loop(ctx, conn); err != nil {
		s.logger.Error(err)
	}
	return nil
}

func (s *Server) accept(ctx context.Context) (*net.UnixConn, error) {
	for {
		if ctx.Err() != nil || s.shuttingDown() {
			return nil, nil
		}
		s.drainEvents()

		if err := s.listener.SetDeadline(time.Now().Add(s.opts.PollInterval)); err != nil {
			return nil, errors.Join(domain.ErrSocketSetupFailed, err)
		}

		conn, err := s.listener.AcceptUnix()
		if err == nil {
			s.lifecycle.Connected()
			return conn, nil
		}
		if isTimeout(err) {
			continue
		}
		return nil, errors.Join(domain.ErrSocketSetupFailed, err)
	}
}

func (s *Server) loop(ctx context.Context, conn *net.UnixConn) error {
	var (
		chunk   = make([]byte, readChunkSize)
		pending []byte
		discard bool
	)

	for {
		if ctx.Err() != nil {
			s.logger.Debug("session cancelled")
			return nil
		}
		if s.shuttingDown() {
			s.logger.Info(fmt.Sprintf("no request for %s, closing session", s.lifecycle.Idle().Round(time.Millisecond)))
			return nil
		}
		s.drainEvents()

		if err := conn.SetReadDeadline(time.Now().Add(s.opts.PollInterval)); err != nil {
			return errors.Join(domain.ErrTransportFailed, err)
		}

		n, readErr := conn.Read(chunk)
		if n > 0 {
			pending = append(pending, chunk[:n]...)
			var err error
			if pending, discard, err = s.process(ctx, conn, pending, discard); err != nil {
				return err
			}
		}

		switch {
		case readErr == nil:
		case isTimeout(readErr):
		case errors.Is(readErr, io.EOF):
			// Complete lines were answered above; an unterminated tail is dropped.
			s.setState(StateDraining)
			s.logger.Debug(fmt.Sprintf("client hung up after %d requests", s.lifecycle.Requests()))
			return nil
		default:
			return errors.Join(domain.ErrTransportFailed, readErr)
		}
	}
}

// process answers every complete line in pending and returns the unconsumed tail.
// discard is set while skipping the rest of an oversized line.
func (s *Server) process(ctx context.Context, w io.Writer, pending []byte, discard bool) ([]byte, bool, error) {
	rest := pending
	for {
		i := bytes.IndexByte(rest, '\n')
		if i < 0 {
			break
		}
		line := rest[:i]
		rest = rest[i+1:]

		if discard {
			discard = false
			continue
		}
		if len(line) > s.opts.MaxRequestBytes {
			if err := s.reject(w, domain.ErrRequestTooLarge); err != nil {
				return nil, false, err
			}
			continue
		}
		if err := s.answer(ctx, w, string(line)); err != nil {
			return nil, false, err
		}
	}

	if !discard && len(rest) > s.opts.MaxRequestBytes {
		if err := s.reject(w, domain.ErrRequestTooLarge); err != nil {
			return nil, false, err
		}
		discard = true
	}
	if discard {
		rest = rest[:0]
	}
	return append(pending[:0], rest...), discard, nil
}

func (s *Server) answer(ctx context.Context, w io.Writer, line string) error {
	s.lifecycle.Served()

	req, err := domain.ParseRequest(line)
	if err != nil {
		return s.reject(w, zerr.With(zerr.Wrap(err, "bad request line"), "line", line))
	}

	resp, err := s.handler.Handle(ctx, req)
	if err != nil {
		s.logger.Error(err)
		if resp.FilePath == "" {
			resp.FilePath = req.Path
		}
		resp.Asm = ""
		resp.Digest = ""
		resp.Error = err.Error()
	}
	return s.send(w, resp)
}

func (s *Server) reject(w io.Writer, err error) error {
	s.logger.Error(err)
	return s.send(w, Response{Error: err.Error()})
}

func (s *Server) send(w io.Writer, resp Response) error {
	payload, err := Encode(s.opts.Format, resp)
	if err != nil {
		return err
	}
	return WriteFrame(w, payload)
}

// drainEvents consumes pending watcher events without blocking and reloads once if there were any.
func (s *Server) drainEvents() {
	changed := false
drain:
	for {
		select {
		case _, ok := <-s.opts.Events:
			if !ok {
				s.opts.Events = nil
				break drain
			}
			changed = true
		default:
			break drain
		}
	}

	if !changed || s.opts.Reloader == nil {
		return
	}
	if err := s.opts.Reloader.Reload(); err != nil {
		s.logger.Warn("keeping previous build metadata: " + err.Error())
		return
	}
	s.logger.Info("reloaded build metadata")
}

func (s *Server) shuttingDown() bool {
	select {
	case <-s.lifecycle.Expired():
		return true
	default:
		return false
	}
}

func (s *Server) setState(state State) {
	s.state = state
	s.logger.Debug("session " + state.String())
}

// Close releases the listener and removes the socket path.
// It is a no-op once the session has been closed.
func (s *Server) Close() {
	s.cleanup()
}

func (s *Server) cleanup() {
	if s.state == StateClosed {
		return
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	_ = os.Remove(s.opts.SocketPath)
	s.setState(StateClosed)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
