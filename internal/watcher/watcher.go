// Package watcher observes a shelf tree for note changes with
// debouncing, so rapid editor save bursts trigger one recompile
// instead of many.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/texshelf/texshelf/internal/logging"
)

// EventType represents the kind of note change.
type EventType int

const (
	EventCreated EventType = iota
	EventModified
	EventDeleted
	EventRenamed
)

func (e EventType) String() string {
	switch e {
	case EventCreated:
		return "created"
	case EventModified:
		return "modified"
	case EventDeleted:
		return "deleted"
	case EventRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is one observed note change.
type ChangeEvent struct {
	Type EventType
	Path string
}

// FileFilter decides whether a changed path is interesting.
type FileFilter func(path string) bool

// ChangeHandler receives a debounced batch of changes.
type ChangeHandler func(events []ChangeEvent) error

// NoteWatcher watches shelf directories and delivers debounced change
// batches to its handlers.
type NoteWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	root      string
	filters   []FileFilter
	handlers  []ChangeHandler
	logger    logging.Logger
	mutex     sync.RWMutex
}

// New creates a watcher rooted at the shelf directory.
func New(root string, debounce time.Duration, logger logging.Logger) (*NoteWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	return &NoteWatcher{
		watcher: fsw,
		root:    abs,
		debouncer: &debouncer{
			delay:  debounce,
			events: make(chan ChangeEvent, 100),
			output: make(chan []ChangeEvent, 10),
		},
		logger: logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a path filter; all filters must accept a path.
func (w *NoteWatcher) AddFilter(filter FileFilter) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.filters = append(w.filters, filter)
}

// AddHandler adds a change handler.
func (w *NoteWatcher) AddHandler(handler ChangeHandler) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.handlers = append(w.handlers, handler)
}

// WatchShelf registers the shelf root and every subject directory
// beneath it. Paths outside the shelf are refused.
func (w *NoteWatcher) WatchShelf() error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		clean, err := w.confine(path)
		if err != nil {
			return err
		}
		return w.watcher.Add(clean)
	})
}

// confine rejects paths that escape the shelf root.
func (w *NoteWatcher) confine(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	if abs != w.root && !strings.HasPrefix(abs, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside the shelf", path)
	}
	return abs, nil
}

// Start launches the watch, debounce, and dispatch loops. They run
// until the context is cancelled.
func (w *NoteWatcher) Start(ctx context.Context) {
	go w.debouncer.run(ctx)
	go w.dispatch(ctx)
	go w.watchLoop(ctx)
}

// Stop closes the underlying watcher.
func (w *NoteWatcher) Stop() error {
	w.debouncer.stop()
	return w.watcher.Close()
}

func (w *NoteWatcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "watch error")
		}
	}
}

func (w *NoteWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	w.mutex.RLock()
	filters := w.filters
	w.mutex.RUnlock()

	for _, filter := range filters {
		if !filter(event.Name) {
			return
		}
	}

	var eventType EventType
	switch {
	case event.Op.Has(fsnotify.Create):
		eventType = EventCreated
	case event.Op.Has(fsnotify.Write):
		eventType = EventModified
	case event.Op.Has(fsnotify.Remove):
		eventType = EventDeleted
	case event.Op.Has(fsnotify.Rename):
		eventType = EventRenamed
	default:
		eventType = EventModified
	}

	select {
	case w.debouncer.events <- ChangeEvent{Type: eventType, Path: event.Name}:
	default:
		w.logger.Debug(ctx, "event queue full, dropping change", "path", event.Name)
	}
}

func (w *NoteWatcher) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case events := <-w.debouncer.output:
			w.mutex.RLock()
			handlers := w.handlers
			w.mutex.RUnlock()

			for _, handler := range handlers {
				if err := handler(events); err != nil {
					w.logger.Warn(ctx, err, "change handler failed")
				}
			}
		}
	}
}

// debouncer batches rapid changes into one delivery per quiet period.
type debouncer struct {
	delay   time.Duration
	events  chan ChangeEvent
	output  chan []ChangeEvent
	timer   *time.Timer
	pending []ChangeEvent
	mutex   sync.Mutex
}

func (d *debouncer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.events:
			d.add(event)
		}
	}
}

func (d *debouncer) add(event ChangeEvent) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.pending = append(d.pending, event)

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *debouncer) flush() {
	d.mutex.Lock()
	batch := d.pending
	d.pending = nil
	d.mutex.Unlock()

	if len(batch) == 0 {
		return
	}

	select {
	case d.output <- batch:
	default:
	}
}

func (d *debouncer) stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// NoteFilter accepts .tex files and directories, skipping hidden
// entries and the master note.
func NoteFilter(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	if base == "_master.tex" {
		return false
	}
	return strings.HasSuffix(base, ".tex")
}
