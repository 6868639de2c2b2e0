// Package config loads the optional .vimasm.yaml project configuration.
package config

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"time"

	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the host filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading from fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load reads .vimasm.yaml from projectDir or its parent and applies it over
// the defaults. Without a config file the defaults are returned.
func (l *Loader) Load(projectDir string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	path, ok := l.find(projectDir)
	if !ok {
		return cfg, nil
	}

	var file Configfile
	if err := l.readAndUnmarshalYAML(path, &file); err != nil {
		return nil, err
	}
	if err := apply(cfg, &file); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.Logger.Debug("loaded configuration from " + path)
	return cfg, nil
}

func (l *Loader) find(projectDir string) (string, bool) {
	for _, dir := range []string{projectDir, filepath.Dir(projectDir)} {
		path := filepath.Join(dir, domain.ConfigFileName)
		if info, err := l.FS.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func (l *Loader) readAndUnmarshalYAML(path string, target *Configfile) error {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", path)
	}
	return nil
}

func apply(cfg *domain.Config, file *Configfile) error {
	if file.Format != "" {
		format, err := domain.ParseResponseFormat(file.Format)
		if err != nil {
			return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "format", file.Format)
		}
		cfg.Format = format
	}

	if file.PollInterval != "" {
		d, err := parseDuration("pollInterval", file.PollInterval)
		if err != nil {
			return err
		}
		if d <= 0 {
			return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "pollInterval must be positive"), "pollInterval", file.PollInterval)
		}
		cfg.PollInterval = d
	}

	if file.IdleTimeout != "" {
		d, err := parseDuration("idleTimeout", file.IdleTimeout)
		if err != nil {
			return err
		}
		cfg.IdleTimeout = d
	}

	if file.MaxRequestBytes != nil {
		if *file.MaxRequestBytes <= 0 {
			return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "maxRequestBytes must be positive"), "maxRequestBytes", *file.MaxRequestBytes)
		}
		cfg.MaxRequestBytes = *file.MaxRequestBytes
	}

	if file.MaxBufferBytes != nil {
		if *file.MaxBufferBytes <= 0 {
			return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "maxBufferBytes must be positive"), "maxBufferBytes", *file.MaxBufferBytes)
		}
		cfg.MaxBufferBytes = *file.MaxBufferBytes
	}

	if file.Demangle != nil {
		cfg.Demangle = *file.Demangle
	}
	cfg.ExtraFlags = file.ExtraFlags
	cfg.Generator = file.Generator
	return nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, zerr.With(errors.Join(domain.ErrConfigParseFailed, err), key, value)
	}
	if d < 0 {
		return 0, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "negative duration"), key, value)
	}
	return d, nil
}
