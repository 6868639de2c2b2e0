package ports

import "context"

//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file was removed.
	OpRemove
	// OpRename indicates a file was renamed.
	OpRename
)

// WatchEvent represents a file system event from the watcher.
type WatchEvent struct {
	// Path is the absolute path of the file that changed.
	Path string
	// Operation is the type of change that occurred.
	Operation WatchOp
}

// Watcher defines the interface for watching individual files for changes.
type Watcher interface {
	// Watch begins watching the given files. Editors and generators often
	// replace files by renaming, so the parent directories are watched and
	// events for unrelated files are dropped.
	Watch(ctx context.Context, paths ...string) error
	// Events returns the channel events are delivered on. It is closed when
	// the watcher stops.
	Events() <-chan WatchEvent
	// Close stops the watcher and releases all resources.
	Close() error
}
