package export

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogpress/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for changes to settle before rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc re-runs an export. Errors are logged and do not stop the watcher.
type BuildFunc func(ctx context.Context) error

// Watcher re-exports when files below the watched directories change.
type Watcher struct {
	dirs     []string
	build    BuildFunc
	debounce time.Duration
	ignore   []string
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption { return func(w *Watcher) { w.debounce = d } }

// WithIgnoredDirs skips events below the given directories, typically the export destination.
func WithIgnoredDirs(dirs ...string) WatchOption {
	return func(w *Watcher) {
		for _, d := range dirs {
			if abs, err := filepath.Abs(d); err == nil {
				w.ignore = append(w.ignore, abs)
			}
		}
	}
}

// NewWatcher returns a Watcher calling build after changes below dirs.
func NewWatcher(build BuildFunc, dirs []string, opts ...WatchOption) *Watcher {
	w := &Watcher{dirs: dirs, build: build, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Bursts of events are coalesced into one rebuild
// and at most one rebuild runs at a time; a change during a rebuild queues one more.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	watched := 0
	for _, dir := range w.dirs {
		if st, statErr := os.Stat(dir); statErr != nil || !st.IsDir() {
			slog.Warn("Watch directory unavailable", logfields.Path(dir))
			continue
		}
		w.addDirsRecursive(fw, dir)
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no watchable directories among %v", w.dirs)
	}

	rebuildReq := make(chan struct{}, 1)
	trigger, stop := w.debouncer(rebuildReq)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.rebuildWorker(ctx, rebuildReq)
	}()
	defer wg.Wait()
	defer cancel()

	slog.Info("Watching for changes", slog.Any("dirs", w.dirs))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) debouncer(rebuildReq chan<- struct{}) (trigger func(), stop func()) {
	var mu sync.Mutex
	var timer *time.Timer
	trigger = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return trigger, stop
}

// rebuildWorker serializes rebuilds. The request channel has capacity one, so
// requests arriving during a build collapse into a single follow-up build.
func (w *Watcher) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			slog.Info("Change detected; re-exporting")
			if err := w.build(ctx); err != nil {
				slog.Warn("Re-export failed", logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || w.ignored(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			w.addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) ignored(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, dir := range w.ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent reports editor swap files, in-flight export temp files and OS
// metadata. Hidden names are not ignored: the scanner publishes hidden directories.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, ".") && strings.Contains(base, ".tmp-"):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == ".DS_Store":
		return true
	}
	return false
}
