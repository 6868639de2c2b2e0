// Package compiledb loads compile_commands.json build metadata and resolves source files to their build records.
package compiledb

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/zerr"
)

type entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command"`
	Arguments []string `json:"arguments"`
	Output    string   `json:"output"`
}

// Database is a parsed build metadata document.
type Database struct {
	path    string
	mu      sync.RWMutex
	records []domain.BuildRecord
}

// Load reads and parses the metadata document at path.
func Load(path string) (*Database, error) {
	records, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	return &Database{path: path, records: records}, nil
}

// Path returns the metadata file the database was loaded from.
func (db *Database) Path() string {
	return db.path
}

// Len returns the number of records.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.records)
}

// Lookup returns the first record whose file equals path.
func (db *Database) Lookup(path string) (domain.BuildRecord, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for _, rec := range db.records {
		if rec.File == path {
			return rec, nil
		}
	}
	return domain.BuildRecord{}, zerr.With(zerr.Wrap(domain.ErrRecordNotFound, "lookup failed"), "path", path)
}

// Reload re-reads the metadata file. The records are replaced only when the
// new document parses; otherwise the previous records stay in place.
func (db *Database) Reload() error {
	records, err := parseFile(db.path)
	if err != nil {
		return err
	}

	db.mu.Lock()
	db.records = records
	db.mu.Unlock()
	return nil
}

func parseFile(path string) ([]domain.BuildRecord, error) {
	//nolint:gosec // Path is discovered from the project directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrMetadataReadFailed, err), "path", path)
	}

	records, err := parse(data, filepath.Dir(path))
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return records, nil
}

// parse decodes a metadata document. Relative directories resolve against base,
// relative files against their record's directory.
func parse(data []byte, base string) ([]domain.BuildRecord, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, zerr.Wrap(domain.ErrMetadataParseFailed, "empty document")
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Join(domain.ErrMetadataParseFailed, err)
	}

	records := make([]domain.BuildRecord, 0, len(entries))
	for i, e := range entries {
		if e.File == "" {
			return nil, zerr.With(zerr.Wrap(domain.ErrMetadataParseFailed, "record has no file"), "index", i)
		}

		dir := e.Directory
		if dir == "" {
			dir = base
		} else if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}

		file := e.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		// Requests are looked up by their symlink-resolved path.
		if resolved, err := filepath.EvalSymlinks(file); err == nil {
			file = resolved
		}

		records = append(records, domain.BuildRecord{
			Directory: filepath.Clean(dir),
			File:      filepath.Clean(file),
			Command:   e.Command,
			Arguments: e.Arguments,
			Output:    e.Output,
		})
	}
	return records, nil
}
