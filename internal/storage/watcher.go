package storage

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the data directory for slot files changed by another
// process (a hand-edited store, a restored backup) so the UI can reload.
type Watcher struct {
	fsWatcher *fsnotify.Watcher

	Events chan string // slot key that changed
	Errors chan error
	done   chan struct{}
}

// NewWatcher watches the given data directory.
func NewWatcher(dir string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		fsWatcher: fsw,
		Events:    make(chan string, 16),
		Errors:    make(chan error, 4),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				// Error channel full, drop
			}
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	// Atomic saves land as a rename; hand edits as a write.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}

	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".json") {
		return
	}
	key := strings.TrimSuffix(name, ".json")

	select {
	case w.Events <- key:
	default:
		// Event channel full; a pending reload already covers this change
	}
}
