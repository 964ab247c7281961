package memofile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/linkmemo/internal/logger"
)

// Watcher reports changes to the memo file made by other processes or by
// this one. It watches the parent directory because atomic writes replace
// the file and a watch on the old inode would go silent.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  logger.Logger
	events  chan struct{}
}

// NewWatcher starts watching the directory that holds path.
func NewWatcher(path string, log logger.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve memo file path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		watcher: fw,
		logger:  log,
		events:  make(chan struct{}, 1),
	}, nil
}

// Changes delivers one signal per burst of changes; signals are coalesced
// while the receiver is busy.
func (w *Watcher) Changes() <-chan struct{} { return w.events }

// Run forwards relevant events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("memo file event",
				logger.String("op", event.Op.String()),
				logger.String("file", event.Name))
			select {
			case w.events <- struct{}{}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("memo file watcher error", logger.Error(err))
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
