// Package watcher reports file changes below a set of directory trees using
// filesystem notifications.
package watcher

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the watcher waits for a burst of events to settle
const DefaultDelay = 50 * time.Millisecond

// Watcher calls Changed once per burst of events on files accepted by
// IsValidFile. Directories created under a watched tree are picked up.
type Watcher struct {
	Changed     func(string)
	IsValidFile func(string) bool
	OnError     func(error)
	Delay       time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	done    chan struct{}
}

// New creates a Watcher and starts its event loop
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	watcher := &Watcher{
		Delay:   DefaultDelay,
		watcher: w,
		done:    make(chan struct{}),
	}
	go watcher.watch()
	return watcher, nil
}

// Add watches a single directory without descending into it
func (w *Watcher) Add(path string) error {
	return w.watcher.Add(path)
}

// AddTree watches root and every directory below it, skipping hidden ones
func (w *Watcher) AddTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// Close stops the event loop and releases the underlying watcher
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) watch() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.OnError != nil {
				w.OnError(err)
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && !isHidden(ev.Name) {
			w.AddTree(ev.Name)
			return
		}
	}
	if !w.isValidFile(ev.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	name := ev.Name
	w.timer = time.AfterFunc(w.Delay, func() {
		if w.Changed != nil {
			w.Changed(name)
		}
	})
}

func (w *Watcher) isValidFile(path string) bool {
	if isHidden(path) {
		return false
	}
	return w.IsValidFile == nil || w.IsValidFile(path)
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
