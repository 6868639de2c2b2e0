package domain

import "time"

// Assembly is the filtered output of one successful compile.
// A snapshot is never mutated; a recompile replaces it wholesale.
type Assembly struct {
	// Text holds the kept instruction and label lines, each newline terminated.
	Text []byte
	// Functions lists the function symbols declared in the raw compiler output, in order.
	Functions []string
	// Digest is the xxhash of Text.
	Digest uint64
	// Mtime is the source modification time the snapshot was compiled from.
	Mtime time.Time
}

// Instance is the per-file extraction state kept by the daemon for its whole lifetime.
type Instance struct {
	// Path is the canonical (absolute, symlink-resolved) source path.
	Path string
	// Record is the build metadata entry the command was synthesized from.
	Record BuildRecord
	// Toolchain is the compiler family of the source file.
	Toolchain Toolchain
	// Command is the synthesized assembly command. It is set once at creation.
	Command string
	// Assembly is the last successful compile, or nil before the first one.
	Assembly *Assembly
}

// Fresh reports whether the stored assembly was compiled from a source with the given mtime.
func (i *Instance) Fresh(mtime time.Time) bool {
	return i.Assembly != nil && i.Assembly.Mtime.Equal(mtime)
}
