package domain

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// MetadataFileName is the name of the build metadata document.
	MetadataFileName = "compile_commands.json"

	// RustMarkerFileName marks a Rust project whose metadata comes from a generator.
	RustMarkerFileName = "Cargo.toml"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = ".vimasm.yaml"

	// SocketNamePattern is the file name of the daemon socket, formatted with the process id.
	SocketNamePattern = "vimasm_%d.sock"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// SocketPerm restricts the daemon socket to its owner.
	SocketPerm = 0o600
)

// RuntimeDir returns the directory the daemon socket lives in.
// It prefers $XDG_RUNTIME_DIR, then $TMPDIR, then /tmp and /var/tmp, and
// finally the working directory.
func RuntimeDir() string {
	for _, env := range []string{"XDG_RUNTIME_DIR", "TMPDIR"} {
		if dir := os.Getenv(env); dir != "" {
			return dir
		}
	}
	for _, dir := range []string{"/tmp", "/var/tmp"} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return "."
}

// DefaultSocketPath returns the socket path for the process with the given id.
func DefaultSocketPath(pid int) string {
	return filepath.Join(RuntimeDir(), fmt.Sprintf(SocketNamePattern, pid))
}
