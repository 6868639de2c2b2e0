// Package synth turns recorded compiler invocations into commands that print assembly to stdout.
package synth

import (
	"context"
	"strings"

	"github.com/alessio/shellescape"
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// CSuffix makes gcc and clang emit Intel-dialect assembly with line info to stdout.
	// Inlining, CET instrumentation and unwind tables are disabled to keep the output readable.
	CSuffix = "-S -g1 -fno-inline -fcf-protection=none -fno-unwind-tables " +
		"-fno-asynchronous-unwind-tables -masm=intel -o - 2> /dev/null"

	// RustSuffix makes rustc write optimized assembly to stdout.
	RustSuffix = "-o - -C opt-level=3 2> /dev/null"

	// CPPDemangler is piped after C++ compiles when available.
	CPPDemangler = "c++filt"

	// RustDemangler is piped after Rust compiles when available.
	RustDemangler = "rustfilt"
)

// Probe reports whether a helper executable is available.
type Probe func(name string) bool

// Options tunes the synthesized commands.
type Options struct {
	// Demangle pipes the output through the toolchain's demangler when one is installed.
	Demangle bool
	// ExtraFlags are appended to the compiler arguments, before the output redirection.
	ExtraFlags []string
}

// Synthesizer derives assembly commands from build records.
type Synthesizer struct {
	probe  Probe
	tracer ports.Tracer
	opts   Options
}

// New creates a Synthesizer.
func New(probe Probe, tracer ports.Tracer, opts Options) *Synthesizer {
	return &Synthesizer{
		probe:  probe,
		tracer: tracer,
		opts:   opts,
	}
}

// Synthesize returns the shell command that prints the assembly for rec.
// Equal inputs produce equal commands.
func (s *Synthesizer) Synthesize(ctx context.Context, rec domain.BuildRecord, tc domain.Toolchain) (string, error) {
	_, span := s.tracer.Start(ctx, "synthesize")
	defer span.End()
	span.SetAttribute("vimasm.path", rec.File)
	span.SetAttribute("vimasm.toolchain", tc.String())

	command, err := s.synthesize(rec, tc)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	return command, nil
}

func (s *Synthesizer) synthesize(rec domain.BuildRecord, tc domain.Toolchain) (string, error) {
	words := commandWords(rec)
	if len(words) == 0 {
		return "", zerr.With(zerr.Wrap(domain.ErrEmptyCommand, "cannot synthesize"), "file", rec.File)
	}

	var (
		args   []string
		suffix string
		filter string
		err    error
	)
	switch tc {
	case domain.ToolchainRust:
		args, err = rewriteEmit(words)
		suffix = RustSuffix
		filter = RustDemangler
	case domain.ToolchainCPP:
		args, err = dropOutput(words)
		suffix = CSuffix
		filter = CPPDemangler
	default:
		args, err = dropOutput(words)
		suffix = CSuffix
	}
	if err != nil {
		return "", zerr.With(err, "file", rec.File)
	}

	var b strings.Builder
	b.WriteString(strings.Join(args, " "))
	for _, flag := range s.opts.ExtraFlags {
		b.WriteByte(' ')
		b.WriteString(shellescape.Quote(flag))
	}
	b.WriteByte(' ')
	b.WriteString(suffix)

	if filter != "" && s.opts.Demangle && s.probe != nil && s.probe(filter) {
		b.WriteString(" | ")
		b.WriteString(filter)
	}
	return b.String(), nil
}

// commandWords splits the recorded command line, or quotes the argument list
// of records that carry "arguments" instead.
func commandWords(rec domain.BuildRecord) []string {
	if strings.TrimSpace(rec.Command) != "" || len(rec.Arguments) == 0 {
		return Split(rec.Command)
	}
	words := make([]string, len(rec.Arguments))
	for i, arg := range rec.Arguments {
		words[i] = shellescape.Quote(arg)
	}
	return words
}

// dropOutput removes the "-o <path>" pair and the joined "-o<path>" form.
// Clang's "-obj..." options (-objcmt-*, -object) share the prefix and are kept.
func dropOutput(words []string) ([]string, error) {
	args := make([]string, 0, len(words))
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case w == "-o":
			if i+1 >= len(words) {
				return nil, zerr.Wrap(domain.ErrOutputFlagMalformed, "trailing -o")
			}
			i++
		case strings.HasPrefix(w, "-o") && !strings.HasPrefix(w, "-obj"):
			// -o<path>
		default:
			args = append(args, w)
		}
	}
	return args, nil
}

// rewriteEmit points rustc's --emit at assembly and drops any output path.
func rewriteEmit(words []string) ([]string, error) {
	args := make([]string, 0, len(words))
	found := false
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch {
		case strings.HasPrefix(w, "--emit="):
			args = append(args, "--emit=asm")
			found = true
		case w == "--emit" && i+1 < len(words):
			args = append(args, "--emit=asm")
			found = true
			i++
		case w == "-o" && i+1 < len(words):
			i++
		default:
			args = append(args, w)
		}
	}
	if !found {
		return nil, zerr.Wrap(domain.ErrEmitFlagMissing, "cannot select assembly output")
	}
	return args, nil
}
