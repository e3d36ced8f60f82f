package chart

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reload is emitted after the watched chart file settles following a change.
// Err is set when the new contents fail to load; the previous charts stay
// the caller's responsibility.
type Reload struct {
	Path   string
	Charts []Chart
	Err    error
}

// Watcher reloads a chart file whenever it changes on disk. It watches the
// containing directory so editors that replace the file on save are seen.
type Watcher struct {
	Path    string
	Reloads <-chan Reload // Read-only external channel

	reloads  chan Reload
	quit     chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a watcher for the chart file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan Reload, 4)
	return &Watcher{
		Path:     abs,
		Reloads:  ch,
		reloads:  ch,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: 100 * time.Millisecond,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel.
func (w *Watcher) Stop() {
	close(w.quit)
	w.watcher.Close()
	<-w.done
	close(w.reloads)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				pending = time.Time{}
				w.emit()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; the next event retries the load.
		}
	}
}

func (w *Watcher) emit() {
	charts, err := Load(w.Path)
	select {
	case w.reloads <- Reload{Path: w.Path, Charts: charts, Err: err}:
	case <-w.quit:
	}
}
