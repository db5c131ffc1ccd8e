// Package watch follows files and directories for changes and serves
// the bytes appended to a file since it was last read, so a search can
// run over new data only.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"
)

// Event represents a file change event.
type Event struct {
	Path string
	Type EventType
	Err  error
}

// EventType identifies the kind of file change.
type EventType int

const (
	EventModified EventType = iota
	EventCreated
	EventDeleted
)

// Watcher watches files and directories, tracking a per-file read
// offset so ReadNew returns appended bytes only.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan Event

	mu      sync.Mutex
	offsets map[string]int64 // path -> last read offset
}

// New creates a new watcher and starts its event loop.
func New() (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &Watcher{
		fs:      fs,
		events:  make(chan Event, 64),
		offsets: make(map[string]int64),
	}
	go w.translate()
	return w, nil
}

// Add adds a path to watch. For directories, watches for new and
// modified entries. For files, the read offset starts at the current
// size so only content appended afterwards is reported.
func (w *Watcher) Add(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fs.Add(absPath); err != nil {
		return fmt.Errorf("watch %s: %w", absPath, err)
	}

	info, err := os.Stat(absPath)
	if err == nil && !info.IsDir() {
		w.mu.Lock()
		w.offsets[absPath] = info.Size()
		w.mu.Unlock()
	}
	return nil
}

// Events returns the channel of file events. The channel is closed
// when the watcher is closed.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// translate converts fsnotify notifications into watch events until
// the underlying watcher shuts down.
func (w *Watcher) translate() {
	defer close(w.events)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op.Has(fsnotify.Create):
				w.events <- Event{Path: ev.Name, Type: EventCreated}
			case ev.Op.Has(fsnotify.Write):
				w.events <- Event{Path: ev.Name, Type: EventModified}
			case ev.Op.Has(fsnotify.Remove), ev.Op.Has(fsnotify.Rename):
				w.events <- Event{Path: ev.Name, Type: EventDeleted}
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.events <- Event{Err: err}
		}
	}
}

// ReadNew reads content appended to a file since the last read and
// advances the tracked offset. A shrunk file resets the offset, so a
// rotated log is read from its beginning.
func (w *Watcher) ReadNew(path string) ([]byte, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NOATIME, 0)
	if err != nil {
		fd, err = unix.Open(path, unix.O_RDONLY, 0)
		if err != nil {
			return nil, err
		}
	}
	defer unix.Close(fd)

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		return nil, err
	}

	w.mu.Lock()
	lastOffset := w.offsets[path]
	w.mu.Unlock()
	newSize := stat.Size

	if newSize <= lastOffset {
		if newSize < lastOffset {
			lastOffset = 0
		} else {
			return nil, nil
		}
	}

	toRead := int(newSize - lastOffset)
	if toRead == 0 {
		w.mu.Lock()
		w.offsets[path] = lastOffset
		w.mu.Unlock()
		return nil, nil
	}

	buf := make([]byte, toRead)
	n, err := unix.Pread(fd, buf, lastOffset)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.offsets[path] = lastOffset + int64(n)
	w.mu.Unlock()
	return buf[:n], nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
