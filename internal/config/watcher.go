package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nishadkindre/viewport-sense/internal/sched"
)

// defaultWatchDebounce absorbs editor save storms: many editors write a
// config file several times per save (truncate, write, rename).
const defaultWatchDebounce = 100 * time.Millisecond

// OnReload is called after each debounced change with the freshly loaded
// settings, or with a non-nil error when the file has become unreadable or
// invalid. The previous good settings stay in effect on error.
type OnReload func(Settings, error)

// Watcher reloads a settings file when it changes on disk.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce *sched.Debouncer[struct{}]
	onReload OnReload

	closeOnce sync.Once
	done      chan struct{}
}

// WatchOption configures a Watcher.
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	clock    sched.Clock
}

// WithDebounce sets the quiet window before a change is reloaded.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d >= 0 {
			o.debounce = d
		}
	}
}

// WithClock substitutes the timer source, for tests.
func WithClock(clock sched.Clock) WatchOption {
	return func(o *watchOptions) { o.clock = clock }
}

// Watch starts watching the settings file at path, invoking onReload after
// each debounced change. The parent directory is watched rather than the
// file itself so rename-replace saves keep working.
func Watch(path string, onReload OnReload, opts ...WatchOption) (*Watcher, error) {
	o := watchOptions{
		debounce: defaultWatchDebounce,
		clock:    sched.RealClock(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		fsw:      fsw,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	w.debounce = sched.NewDebouncer(o.clock, o.debounce, func(struct{}) {
		w.reload()
	})

	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// loop drains fsnotify until Close.
func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
				ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				w.debounce.Call(struct{}{})
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.onReload(Settings{}, err)
		}
	}
}

// reload re-reads the file and reports the result.
func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	s, err := Load(w.path)
	w.onReload(s, err)
}

// Close stops watching and drops any pending reload. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		w.debounce.Cancel()
		err = w.fsw.Close()
	})
	return err
}
