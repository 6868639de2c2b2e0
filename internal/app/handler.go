package app

import (
	"context"

	"go.trai.ch/vimasm/internal/adapters/daemon" //nolint:depguard // Wired in app layer
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/vimasm/internal/engine/asm"
	"go.trai.ch/zerr"
)

// requestHandler answers daemon requests from a per-session instance cache.
type requestHandler struct {
	eng    *engine
	cache  *daemon.InstanceCache
	tracer ports.Tracer
}

func newRequestHandler(eng *engine, tracer ports.Tracer) *requestHandler {
	return &requestHandler{
		eng:    eng,
		cache:  daemon.NewInstanceCache(eng.newInstance),
		tracer: tracer,
	}
}

// Handle resolves, refreshes and extracts the assembly for one request.
func (h *requestHandler) Handle(ctx context.Context, req domain.Request) (daemon.Response, error) {
	ctx, span := h.tracer.Start(ctx, "request")
	defer span.End()
	span.SetAttribute("vimasm.path", req.Path)
	if req.HasLabel() {
		span.SetAttribute("vimasm.label", req.Label)
	}

	resp, err := h.handle(ctx, req)
	if err != nil {
		span.RecordError(err)
	}
	span.SetAttribute("vimasm.instances", h.cache.Len())
	return resp, err
}

func (h *requestHandler) handle(ctx context.Context, req domain.Request) (daemon.Response, error) {
	inst, err := h.eng.compile(ctx, h.cache, req.Path)
	if inst == nil {
		return daemon.Response{}, err
	}

	resp := daemon.Response{FilePath: inst.Path}
	if err != nil {
		return resp, err
	}

	text := inst.Assembly.Text
	if req.HasLabel() {
		text, err = asm.Extract(text, req.Label)
		if err != nil {
			return resp, zerr.With(err, "path", inst.Path)
		}
	}

	resp.Asm = string(text)
	resp.Digest = daemon.FormatDigest(inst.Assembly.Digest)
	return resp, nil
}
