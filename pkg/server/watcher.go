package server

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes (editors often save in several
// steps) into one invalidation.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports changes to model source files. Directory sources are
// watched recursively, including subdirectories created later.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]struct{}
	dirs      map[string]struct{}
	debounce  time.Duration
	onChange  func()
	logger    *slog.Logger
	done      chan struct{}
}

// NewWatcher watches paths, which may be files or directories. onChange runs
// on the watcher goroutine once per debounced burst of events.
func NewWatcher(paths []string, debounce time.Duration, onChange func(), logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("server: create watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		files:     make(map[string]struct{}),
		dirs:      make(map[string]struct{}),
		debounce:  debounce,
		onChange:  onChange,
		logger:    logger,
		done:      make(chan struct{}),
	}

	for _, path := range paths {
		if err := w.add(path); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// add watches the parent directory of files so replacements via rename are
// still observed. Directories are watched with every subdirectory.
func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("server: resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("server: watch %s: %w", path, err)
	}

	if info.IsDir() {
		w.dirs[abs] = struct{}{}
		return w.addTree(abs)
	}

	w.files[abs] = struct{}{}
	dir := filepath.Dir(abs)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("server: watch directory %s: %w", dir, err)
	}
	return nil
}

// addTree registers root and all directories below it; fsnotify does not
// recurse on its own.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("server: walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("server: watch directory %s: %w", path, err)
		}
		return nil
	})
}

// Start begins processing events.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.watchCreatedDir(event.Name)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				pending = false
				w.logger.Debug("model source changed")
				if w.onChange != nil {
					w.onChange()
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", slog.Any("error", err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name := filepath.Clean(event.Name)
	if _, ok := w.files[name]; ok {
		return true
	}
	return w.underWatchedDir(name)
}

func (w *Watcher) underWatchedDir(name string) bool {
	for dir := range w.dirs {
		if strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// watchCreatedDir extends the watch to directories created inside a watched
// tree.
func (w *Watcher) watchCreatedDir(name string) {
	name = filepath.Clean(name)
	if !w.underWatchedDir(name) {
		return
	}
	info, err := os.Stat(name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(name); err != nil {
		w.logger.Warn("watch new directory", slog.String("path", name), slog.Any("error", err))
	}
}
