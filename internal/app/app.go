// Package app implements the application layer for vimasm.
package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/vimasm/internal/adapters/daemon" //nolint:depguard // Wired in app layer
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/vimasm/internal/engine/asm"
	"go.trai.ch/vimasm/internal/engine/synth"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Dialer connects to a running daemon.
type Dialer func(ctx context.Context, socketPath string) (ports.DaemonClient, error)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	runner       ports.CommandRunner
	logger       ports.Logger
	tracer       ports.Tracer
	watcher      ports.Watcher
	probe        synth.Probe
	dial         Dialer
}

// New creates a new App instance. watcher may be nil, which disables metadata reloads.
func New(
	loader ports.ConfigLoader,
	runner ports.CommandRunner,
	log ports.Logger,
	tracer ports.Tracer,
	watcher ports.Watcher,
	probe synth.Probe,
) *App {
	return &App{
		configLoader: loader,
		runner:       runner,
		logger:       log,
		tracer:       tracer,
		watcher:      watcher,
		probe:        probe,
		dial:         dialDaemon,
	}
}

// WithDialer replaces how Query connects to the daemon.
func (a *App) WithDialer(d Dialer) *App {
	a.dial = d
	return a
}

// Close releases the metadata watcher.
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}

// ServeOptions configuration for the Serve method.
type ServeOptions struct {
	ProjectDir string
	SocketPath string
	// Format overrides the configured response format when set.
	Format string
	// IdleTimeout overrides the configured idle timeout when set.
	IdleTimeout *time.Duration
	// Stdout receives the socket path once the daemon listens.
	Stdout io.Writer
}

// Serve runs the daemon for one client session.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	eng, err := a.prepare(ctx, opts.ProjectDir)
	if err != nil {
		return err
	}

	cfg := eng.cfg
	if opts.Format != "" {
		format, err := domain.ParseResponseFormat(opts.Format)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid --format"), "format", opts.Format)
		}
		cfg.Format = format
	}
	if opts.IdleTimeout != nil {
		cfg.IdleTimeout = *opts.IdleTimeout
	}

	var events <-chan ports.WatchEvent
	if a.watcher != nil {
		if err := a.watcher.Watch(ctx, eng.db.Path()); err != nil {
			a.logger.Warn("build metadata changes will not be picked up: " + err.Error())
		} else {
			events = a.watcher.Events()
		}
	}

	srv := daemon.NewServer(newRequestHandler(eng, a.tracer), a.logger, daemon.Options{
		SocketPath:      opts.SocketPath,
		Format:          cfg.Format,
		PollInterval:    cfg.PollInterval,
		IdleTimeout:     cfg.IdleTimeout,
		MaxRequestBytes: cfg.MaxRequestBytes,
		Events:          events,
		Reloader:        eng.db,
	})
	if err := srv.Listen(); err != nil {
		return err
	}
	defer srv.Close()

	if opts.Stdout != nil {
		if _, err := fmt.Fprintln(opts.Stdout, srv.SocketPath()); err != nil {
			return zerr.Wrap(err, "failed to announce socket path")
		}
	}
	a.logger.Info(fmt.Sprintf("serving %d build records from %s", eng.db.Len(), eng.db.Path()))

	return srv.Serve(ctx)
}

// ExtractOptions configuration for the Extract method.
type ExtractOptions struct {
	ProjectDir string
	File       string
	// Label selects one block; empty writes the whole filtered assembly.
	Label  string
	Stdout io.Writer
}

// Extract compiles one file and writes its assembly without a daemon.
func (a *App) Extract(ctx context.Context, opts ExtractOptions) error {
	eng, err := a.prepare(ctx, opts.ProjectDir)
	if err != nil {
		return err
	}

	inst, err := eng.compile(ctx, daemon.NewInstanceCache(eng.newInstance), opts.File)
	if err != nil {
		return err
	}

	if opts.Label == "" {
		return asm.WriteAll(opts.Stdout, inst.Assembly.Text)
	}
	return asm.WriteLabel(opts.Stdout, inst.Assembly.Text, opts.Label)
}

// FunctionsOptions configuration for the Functions method.
type FunctionsOptions struct {
	ProjectDir string
	Files      []string
	Stdout     io.Writer
}

// Functions compiles the given files in parallel and lists their function labels.
// With several files each line is prefixed with the file name.
func (a *App) Functions(ctx context.Context, opts FunctionsOptions) error {
	eng, err := a.prepare(ctx, opts.ProjectDir)
	if err != nil {
		return err
	}

	results := make([][]string, len(opts.Files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range opts.Files {
		g.Go(func() error {
			inst, err := eng.compile(ctx, daemon.NewInstanceCache(eng.newInstance), file)
			if err != nil {
				return err
			}
			results[i] = inst.Assembly.Functions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, names := range results {
		for _, name := range names {
			line := name
			if len(opts.Files) > 1 {
				line = opts.Files[i] + ":" + name
			}
			if _, err := fmt.Fprintln(opts.Stdout, line); err != nil {
				return zerr.Wrap(err, "failed to write function list")
			}
		}
	}
	return nil
}

// QueryOptions configuration for the Query method.
type QueryOptions struct {
	SocketPath string
	File       string
	Label      string
	Stdout     io.Writer
}

// Query asks a running daemon for assembly and writes the response payload.
func (a *App) Query(ctx context.Context, opts QueryOptions) error {
	path, err := filepath.Abs(opts.File)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", opts.File)
	}

	client, err := a.dial(ctx, opts.SocketPath)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	payload, err := client.Request(ctx, domain.Request{Path: path, Label: opts.Label})
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrNoAssembly, "daemon sent an empty response"), "path", path)
	}

	if _, err := opts.Stdout.Write(payload); err != nil {
		return zerr.Wrap(err, "failed to write response")
	}
	return nil
}

func dialDaemon(ctx context.Context, socketPath string) (ports.DaemonClient, error) {
	return daemon.Dial(ctx, socketPath)
}
