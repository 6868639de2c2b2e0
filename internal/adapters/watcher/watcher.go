package watcher

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"
	"unique"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/vimasm/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 16

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	debouncer *Debouncer
	events    chan ports.WatchEvent

	mu      sync.Mutex
	targets map[unique.Handle[string]]struct{}
	dirs    map[string]struct{}
	closed  bool

	start    sync.Once
	shutdown sync.Once
}

// NewWatcher creates a new file watcher. Events for a path are coalesced over window.
func NewWatcher(logger ports.Logger, window time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}
	if window <= 0 {
		window = DefaultDebounceWindow
	}

	w := &Watcher{
		fsWatcher: fsw,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
		targets:   make(map[unique.Handle[string]]struct{}),
		dirs:      make(map[string]struct{}),
	}
	w.debouncer = NewDebouncer(window, w.emit)
	return w, nil
}

// Watch begins watching the given files through their parent directories.
func (w *Watcher) Watch(ctx context.Context, paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return zerr.New("watcher is closed")
	}

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return zerr.With(errors.Join(domain.ErrPathResolveFailed, err), "path", path)
		}
		w.targets[unique.Make(abs)] = struct{}{}

		dir := filepath.Dir(abs)
		if _, ok := w.dirs[dir]; ok {
			continue
		}
		if err := w.fsWatcher.Add(dir); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "dir", dir)
		}
		w.dirs[dir] = struct{}{}
	}

	w.start.Do(func() { go w.processEvents(ctx) })
	return nil
}

// Events returns the channel coalesced events are delivered on.
func (w *Watcher) Events() <-chan ports.WatchEvent {
	return w.events
}

// Close stops the watcher and closes the events channel.
func (w *Watcher) Close() error {
	err := w.fsWatcher.Close()
	w.stop()
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if watchEvent, ok := w.convertEvent(event); ok {
				w.debouncer.Add(watchEvent)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher: " + err.Error())
		}
	}
}

// convertEvent maps an fsnotify event on a watched file to a ports.WatchEvent.
func (w *Watcher) convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	w.mu.Lock()
	_, ok := w.targets[unique.Make(filepath.Clean(event.Name))]
	w.mu.Unlock()
	if !ok {
		return ports.WatchEvent{}, false
	}

	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: filepath.Clean(event.Name), Operation: op}, true
}

// emit delivers coalesced events. Events that do not fit the buffer are
// dropped; a consumer reacting to any change only needs one.
func (w *Watcher) emit(events []ports.WatchEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	for _, e := range events {
		select {
		case w.events <- e:
		default:
		}
	}
}

func (w *Watcher) stop() {
	w.shutdown.Do(func() {
		w.debouncer.Stop()

		w.mu.Lock()
		w.closed = true
		close(w.events)
		w.mu.Unlock()
	})
}
