package watch

import (
	"fmt"
	"sync"
	"time"

	"cialist/internal/config"
	"cialist/internal/listing"
	"cialist/internal/log"
	"cialist/internal/volume"
	"cialist/pkg/types"
)

// DaemonStatus represents the current status of the daemon
type DaemonStatus struct {
	Running          bool      // Whether the daemon is currently active
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of the last change seen
	Refreshes        int       // Scans that ran to completion
	Cancelled        int       // Scans superseded by a newer change
}

// Daemon keeps a listing of one host directory current. Each change
// cancels the scan in flight and starts a new one.
type Daemon struct {
	pop     *listing.Populator
	list    *listing.List
	dir     *types.FileInfo
	watcher *Watcher

	// Called on the daemon goroutine after each scan that was not cancelled
	callback func(*listing.List, error)

	mutex        sync.RWMutex
	refreshes    int
	cancelled    int
	lastActivity time.Time
	running      bool

	stop chan struct{}
	done chan struct{}
}

// NewDaemon creates a daemon listing path on vol into list
func NewDaemon(cfg *config.Config, pop *listing.Populator, vol *volume.OS, path string, list *listing.List) (*Daemon, error) {
	host, err := vol.HostPath(path)
	if err != nil {
		return nil, err
	}
	watcher, err := New(time.Duration(cfg.Watch.DebounceMS) * time.Millisecond)
	if err != nil {
		return nil, err
	}
	if err := watcher.AddDirectory(host); err != nil {
		watcher.fsWatcher.Close()
		return nil, err
	}

	return &Daemon{
		pop:     pop,
		list:    list,
		dir:     types.NewDirectory(vol, path),
		watcher: watcher,
	}, nil
}

// SetCallback sets the function called with each finished listing
func (d *Daemon) SetCallback(cb func(*listing.List, error)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Start runs an initial scan and begins reacting to changes
func (d *Daemon) Start() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.running {
		return fmt.Errorf("daemon is already running")
	}
	if err := d.watcher.Start(); err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}

	d.running = true
	d.stop = make(chan struct{})
	d.done = make(chan struct{})
	go d.processEvents(d.stop, d.done)
	return nil
}

// Stop cancels any scan in flight and halts the daemon
func (d *Daemon) Stop() {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return
	}
	d.running = false
	close(d.stop)
	d.mutex.Unlock()

	<-d.done
	d.watcher.Stop()
}

// Status returns the current status of the daemon
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:          d.running,
		WatchDirectories: d.watcher.GetDirectories(),
		LastActivity:     d.lastActivity,
		Refreshes:        d.refreshes,
		Cancelled:        d.cancelled,
	}
}

// processEvents owns the scan handle; all scans start and finish here
func (d *Daemon) processEvents(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var current *listing.Handle
	var currentDone <-chan struct{}

	start := func() {
		if current != nil {
			current.Cancel()
			<-current.Done()
			d.finished(current)
		}
		h, err := d.pop.Populate(d.list, d.dir)
		if err != nil {
			log.LogWithError(err).Error("Failed to start listing scan")
			current, currentDone = nil, nil
			return
		}
		current, currentDone = h, h.Done()
	}

	start()
	for {
		select {
		case change, ok := <-d.watcher.Changes():
			if !ok {
				return
			}
			d.mutex.Lock()
			d.lastActivity = change.Timestamp
			d.mutex.Unlock()
			log.LogWithFields(log.F("events", len(change.Paths)), log.F("ops", change.Ops.String())).Debug("Directory changed, rescanning")
			start()

		case <-currentDone:
			d.finished(current)
			current, currentDone = nil, nil

		case <-stop:
			if current != nil {
				current.Cancel()
				<-current.Done()
			}
			return
		}
	}
}

// finished records a terminated scan and hands the listing to the callback
func (d *Daemon) finished(h *listing.Handle) {
	if h.Cancelled() {
		d.mutex.Lock()
		d.cancelled++
		d.mutex.Unlock()
		return
	}
	err := h.Wait()

	d.mutex.Lock()
	d.refreshes++
	cb := d.callback
	d.mutex.Unlock()

	if cb != nil {
		cb(d.list, err)
	}
}
