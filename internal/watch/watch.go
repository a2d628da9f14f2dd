// Package watch reloads a config file when it changes on disk.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/san-kum/dissolve/internal/config"
)

const DefaultDebounce = 100 * time.Millisecond

// Update carries either a freshly loaded config or the error that
// prevented loading it.
type Update struct {
	Path   string
	Config *config.Config
	Err    error
}

type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	Updates chan Update
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New watches path. The parent directory is watched so that editors which
// replace the file on save are still seen.
func New(path string) (*Watcher, error) {
	return NewWithDebounce(path, DefaultDebounce)
}

func NewWithDebounce(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: debounce,
		Updates:  make(chan Update, 4),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Path() string { return w.path }

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Updates)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)
		case <-timer.C:
			cfg, err := config.Load(w.path)
			if !w.send(Update{Path: w.path, Config: cfg, Err: err}) {
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if !w.send(Update{Path: w.path, Err: err}) {
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) send(u Update) bool {
	select {
	case w.Updates <- u:
		return true
	case <-w.closeCh:
		return false
	}
}
