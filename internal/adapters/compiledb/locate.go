package compiledb

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/zerr"
)

// Locator finds the metadata document of a project, generating it when the project allows.
type Locator struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// NewLocator creates a Locator. The runner executes the metadata generator.
func NewLocator(runner ports.CommandRunner, logger ports.Logger) *Locator {
	return &Locator{runner: runner, logger: logger}
}

// Find returns the path of compile_commands.json for projectDir.
//
// The project directory is searched first, then its parent. When neither has
// the file, projectDir holds a Cargo.toml and generator is set, the generator
// runs in projectDir and the search is repeated.
func (l *Locator) Find(ctx context.Context, projectDir, generator string) (string, error) {
	if path, ok := search(projectDir); ok {
		return path, nil
	}

	if generator == "" || !exists(filepath.Join(projectDir, domain.RustMarkerFileName)) {
		return "", zerr.With(zerr.Wrap(domain.ErrMetadataNotFound, "search failed"), "dir", projectDir)
	}

	l.logger.Info("generating build metadata: " + generator)
	if err := l.runner.Run(ctx, projectDir, generator, io.Discard); err != nil {
		return "", errors.Join(domain.ErrMetadataNotFound, domain.ErrGeneratorFailed, err)
	}

	if path, ok := search(projectDir); ok {
		return path, nil
	}
	return "", zerr.With(zerr.Wrap(domain.ErrMetadataNotFound, "generator produced no metadata"), "dir", projectDir)
}

func search(projectDir string) (string, bool) {
	for _, dir := range []string{projectDir, filepath.Dir(projectDir)} {
		path := filepath.Join(dir, domain.MetadataFileName)
		if exists(path) {
			return path, true
		}
	}
	return "", false
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
