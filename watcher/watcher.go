package watcher

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuietPeriod is how long a file must be unchanged before a Change is emitted.
const DefaultQuietPeriod = 200 * time.Millisecond

// Watcher reports changes to a set of files. It watches their parent directories, so
// files replaced by rename or recreated after removal keep being tracked.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	files     map[string]bool
	logger    *slog.Logger
}

// NewWatcher watches the given files. Paths are made absolute.
func NewWatcher(files []string, quietPeriod time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if quietPeriod <= 0 {
		quietPeriod = DefaultQuietPeriod
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(quietPeriod),
		files:     make(map[string]bool, len(files)),
		logger:    logger,
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			fsWatcher.Close()
			return nil, err
		}
		w.files[absPath] = true
		dirs[filepath.Dir(absPath)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, err
		}
	}
	return w, nil
}

// Changes returns the channel receiving debounced changes. It is closed by Close.
func (w *Watcher) Changes() <-chan Change {
	return w.debouncer.Output()
}

// Start processes file system events until the watcher is closed. Call it in a goroutine.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil || !w.files[path] {
		return
	}

	var op Op
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}
	w.logger.Debug("watched file changed", "path", path, "op", op)
	w.debouncer.Add(path, op)
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	err := w.fsWatcher.Close()
	w.debouncer.Close()
	return err
}
