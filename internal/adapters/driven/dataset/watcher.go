package dataset

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sitechat-cli/internal/logger"
)

// Watcher reports when a dataset or chunk file changes on disk, so a
// running chat session can tell the user its index is stale.
type Watcher struct {
	watcher *fsnotify.Watcher
	target  string
	events  chan struct{}
	done    chan struct{}
}

// NewWatcher watches the file at path for writes, creates and renames.
// The parent directory is watched, so atomic rename-into-place updates
// are caught too.
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		watcher: fw,
		target:  filepath.Base(path),
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Events delivers one signal per observed change. The channel is
// buffered with size one; bursts collapse into a single signal.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("dataset file changed: %s (%s)", event.Name, event.Op)
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("dataset watcher: %v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
