// Package watch monitors the scan directory for newly finished
// downloads and hands settled files to the runner, one at a time.
package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"copymedia/internal/errors"
	"copymedia/internal/log"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a new file must sit untouched before it is
// delivered. Download clients write large files over many seconds;
// acting on the create event alone would move half-written files.
const DefaultSettle = 2 * time.Second

// Watcher monitors a single directory for new files using fsnotify.
type Watcher struct {
	dir    string
	settle time.Duration

	fsWatcher *fsnotify.Watcher
	fileChan  chan string
	stopChan  chan struct{}

	mutex   sync.Mutex
	running bool
}

// New creates a watcher for dir. A settle of zero uses DefaultSettle.
func New(dir string, settle time.Duration) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "error accessing directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("%s is not a directory", dir)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
	}

	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		dir:       dir,
		settle:    settle,
		fsWatcher: fsWatcher,
		fileChan:  make(chan string, 10),
		stopChan:  make(chan struct{}),
	}, nil
}

// Files returns the channel that delivers settled file paths.
func (w *Watcher) Files() <-chan string {
	return w.fileChan
}

// Start begins watching. It returns immediately; files arrive on the
// Files channel until Stop is called.
func (w *Watcher) Start() {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return
	}
	w.running = true
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", w.dir)).Info("Watching directory")
	go w.loop()
}

func (w *Watcher) loop() {
	// fileChan is closed here rather than in Stop so a settling file
	// can never race a send against the close.
	defer close(w.fileChan)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.deliverWhenSettled(event.Name)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")
		case <-w.stopChan:
			return
		}
	}
}

// deliverWhenSettled waits until the file's size stops changing, then
// sends it on the file channel. Files that vanish in the meantime
// (moved away by another process) are dropped silently.
//
// Settling runs on the event loop itself: files are delivered strictly
// one at a time, and events arriving while a file settles wait in
// fsnotify's buffer. A large enough burst can overflow that buffer and
// drop events.
func (w *Watcher) deliverWhenSettled(path string) {
	var lastSize int64 = -1
	for {
		select {
		case <-w.stopChan:
			return
		case <-time.After(w.settle):
		}

		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			return
		}
		if info.Size() == lastSize {
			break
		}
		lastSize = info.Size()
	}

	select {
	case w.fileChan <- path:
	case <-w.stopChan:
	default:
		log.LogWithFields(log.F("file", filepath.Base(path))).Warn("Event channel is full, dropped event")
	}
}

// Stop ends the watch. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if !w.running {
		return
	}
	w.running = false

	close(w.stopChan)
	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
}
