package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alessio/shellescape"
	"go.trai.ch/vimasm/internal/adapters/compiledb" //nolint:depguard // Wired in app layer
	"go.trai.ch/vimasm/internal/adapters/daemon"    //nolint:depguard // Wired in app layer
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/engine/asm"
	"go.trai.ch/vimasm/internal/engine/synth"
	"go.trai.ch/zerr"
)

// engine holds everything derived from one project's configuration and build metadata.
type engine struct {
	cfg      *domain.Config
	db       *compiledb.Database
	synth    *synth.Synthesizer
	compiler *asm.Compiler
}

// prepare loads the project configuration and build metadata.
func (a *App) prepare(ctx context.Context, projectDir string) (*engine, error) {
	if projectDir == "" {
		projectDir = "."
	}
	dir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrPathResolveFailed, err), "dir", projectDir)
	}

	cfg, err := a.configLoader.Load(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	path, err := compiledb.NewLocator(a.runner, a.logger).Find(ctx, dir, shellescape.QuoteCommand(cfg.Generator))
	if err != nil {
		return nil, err
	}

	db, err := compiledb.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug(fmt.Sprintf("loaded %d build records from %s", db.Len(), path))

	return &engine{
		cfg: cfg,
		db:  db,
		synth: synth.New(a.probe, a.tracer, synth.Options{
			Demangle:   cfg.Demangle,
			ExtraFlags: cfg.ExtraFlags,
		}),
		compiler: asm.NewCompiler(a.runner, a.tracer, a.logger, cfg.MaxBufferBytes),
	}, nil
}

// newInstance is the daemon.InstanceFactory: record lookup followed by command synthesis.
func (e *engine) newInstance(ctx context.Context, path string) (*domain.Instance, error) {
	rec, err := e.db.Lookup(path)
	if err != nil {
		return nil, err
	}

	tc := domain.ToolchainFor(path)
	command, err := e.synth.Synthesize(ctx, rec, tc)
	if err != nil {
		return nil, err
	}

	return &domain.Instance{
		Path:      path,
		Record:    rec,
		Toolchain: tc,
		Command:   command,
	}, nil
}

// compile resolves file through cache and brings its assembly up to date.
func (e *engine) compile(ctx context.Context, cache *daemon.InstanceCache, file string) (*domain.Instance, error) {
	inst, err := cache.GetOrCreate(ctx, file)
	if err != nil {
		return nil, err
	}
	if _, err := e.compiler.Refresh(ctx, inst); err != nil {
		return inst, err
	}
	if inst.Assembly == nil {
		return inst, zerr.With(zerr.Wrap(domain.ErrNoAssembly, "nothing compiled"), "path", inst.Path)
	}
	return inst, nil
}
