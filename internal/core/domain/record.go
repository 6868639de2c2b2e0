package domain

import (
	"path/filepath"
	"strings"
)

// BuildRecord is one entry of the build metadata: how a single source file is compiled.
type BuildRecord struct {
	// Directory is the working directory the command was run from.
	Directory string
	// File is the absolute path of the source file.
	File string
	// Command is the compiler invocation as a single shell string.
	Command string
	// Arguments is the argv form of the invocation, when the metadata used it instead of Command.
	Arguments []string
	// Output is the object file the command produced, if recorded.
	Output string
}

// Toolchain identifies the compiler family a source file is built with.
type Toolchain uint8

const (
	// ToolchainC is the C compiler family (gcc, clang).
	ToolchainC Toolchain = iota
	// ToolchainCPP is the C++ compiler family (g++, clang++).
	ToolchainCPP
	// ToolchainRust is rustc.
	ToolchainRust
)

var toolchainByExt = map[string]Toolchain{
	".c":   ToolchainC,
	".cpp": ToolchainCPP,
	".cc":  ToolchainCPP,
	".cxx": ToolchainCPP,
	".c++": ToolchainCPP,
	".hpp": ToolchainCPP,
	".hh":  ToolchainCPP,
	".hxx": ToolchainCPP,
	".rs":  ToolchainRust,
}

// ToolchainFor classifies a source path by its extension.
// Unknown extensions are treated as C.
func ToolchainFor(path string) Toolchain {
	if tc, ok := toolchainByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return tc
	}
	return ToolchainC
}

// String returns the short name of the toolchain.
func (t Toolchain) String() string {
	switch t {
	case ToolchainCPP:
		return "CPP"
	case ToolchainRust:
		return "RS"
	default:
		return "C"
	}
}
