package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cialist/internal/log"
)

// Change is a burst of entry events in one watched directory
type Change struct {
	Paths     []string
	Ops       fsnotify.Op
	Timestamp time.Time
}

// Watcher monitors directories with fsnotify. Events arriving within the
// debounce window are merged into a single Change.
type Watcher struct {
	// Directories being watched
	directories []string

	// Quiet period before a burst is delivered
	debounce time.Duration

	// Channel to receive merged changes
	changeChan chan Change

	// Channel to signal stop
	stopChan chan struct{}

	// Closed when the event loop has exited
	loopDone chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
}

// New creates a new directory watcher using fsnotify
func New(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		directories: []string{},
		debounce:    debounce,
		changeChan:  make(chan Change, 1),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existingDir := range w.directories {
		if existingDir == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Changes returns the channel that delivers merged changes. It is closed
// by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changeChan
}

// Start begins watching
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.loopDone = make(chan struct{})

	go w.loop(w.stopChan, w.loopDone)

	log.Debug("Watcher started.")
	return nil
}

const watchedOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

func (w *Watcher) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var (
		pending *Change
		timer   = time.NewTimer(time.Hour)
	)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&watchedOps == 0 {
				continue
			}
			if pending == nil {
				pending = &Change{}
			}
			pending.Paths = append(pending.Paths, event.Name)
			pending.Ops |= event.Op
			pending.Timestamp = time.Now()
			timer.Reset(w.debounce)

		case <-timer.C:
			if pending == nil {
				continue
			}
			select {
			case w.changeChan <- *pending:
			default:
				// A change is already queued; the consumer rescans anyway
				log.LogWithFields(log.F("events", len(pending.Paths))).Debug("Change already pending, merged")
			}
			pending = nil

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithError(err).Error("fsnotify watcher error")

		case <-stop:
			return
		}
	}
}

// Stop halts watching and closes the change channel
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)
	<-w.loopDone

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithError(err).Error("Error closing fsnotify watcher")
	}

	w.running = false
	close(w.changeChan)
	log.Debug("Watcher stopped.")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the list of directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirsCopy := make([]string, len(w.directories))
	copy(dirsCopy, w.directories)
	return dirsCopy
}
