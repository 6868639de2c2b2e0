package shell

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Available reports whether an executable named name is on the current PATH.
// Synthesized pipelines only append a demangler that passes this check.
func Available(name string) bool {
	_, err := lookPath(name, os.Getenv("PATH"))
	return err == nil
}

// lookPath finds name in the directories of the PATH list searchPath.
// An empty element stands for the working directory, as in /bin/sh.
func lookPath(name, searchPath string) (string, error) {
	if searchPath == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(searchPath) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
