package asm

import (
	"context"
	"errors"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/zerr"
)

// Compiler runs synthesized commands and keeps each instance's filtered assembly current.
type Compiler struct {
	runner    ports.CommandRunner
	tracer    ports.Tracer
	logger    ports.Logger
	maxBuffer int
}

// NewCompiler creates a compiler whose per-file output never exceeds maxBuffer bytes.
func NewCompiler(runner ports.CommandRunner, tracer ports.Tracer, logger ports.Logger, maxBuffer int) *Compiler {
	return &Compiler{
		runner:    runner,
		tracer:    tracer,
		logger:    logger,
		maxBuffer: maxBuffer,
	}
}

// Refresh recompiles inst when its source changed since the last successful compile.
// It reports whether a compile happened. On failure the previous assembly is kept.
func (c *Compiler) Refresh(ctx context.Context, inst *domain.Instance) (bool, error) {
	info, err := os.Stat(inst.Path)
	if err != nil {
		return false, errors.Join(domain.ErrCompileFailed, domain.ErrSourceStatFailed, err)
	}

	mtime := info.ModTime()
	if inst.Fresh(mtime) {
		return false, nil
	}

	ctx, span := c.tracer.Start(ctx, "compile")
	defer span.End()
	span.SetAttribute("vimasm.path", inst.Path)
	span.SetAttribute("vimasm.toolchain", inst.Toolchain.String())

	asm, err := c.compile(ctx, inst)
	if err != nil {
		span.RecordError(err)
		return false, errors.Join(domain.ErrCompileFailed, zerr.With(err, "path", inst.Path))
	}
	asm.Mtime = mtime
	span.SetAttribute("vimasm.bytes", len(asm.Text))

	inst.Assembly = asm
	c.logger.Debug("compiled " + inst.Path)
	return true, nil
}

func (c *Compiler) compile(ctx context.Context, inst *domain.Instance) (*domain.Assembly, error) {
	filter := NewFilter(NewBuffer(c.maxBuffer))

	if err := c.runner.Run(ctx, inst.Record.Directory, inst.Command, filter); err != nil {
		return nil, err
	}
	if err := filter.Close(); err != nil {
		return nil, err
	}

	text := filter.buf.Bytes()
	return &domain.Assembly{
		Text:      text,
		Functions: filter.Functions(),
		Digest:    xxhash.Sum64(text),
	}, nil
}
