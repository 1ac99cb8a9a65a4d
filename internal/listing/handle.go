package listing

import (
	"sync"
	"sync/atomic"
)

// State is the progress of a scan
type State int32

const (
	StateIdle State = iota
	StateOpening
	StateReading
	StateSorting
	StateProcessing
	StateCancelled
	StateDone
	StateClosing
	StateTerminated
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateOpening:    "opening",
	StateReading:    "reading",
	StateSorting:    "sorting",
	StateProcessing: "processing",
	StateCancelled:  "cancelled",
	StateDone:       "done",
	StateClosing:    "closing",
	StateTerminated: "terminated",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Handle controls one running scan
type Handle struct {
	cancel     chan struct{}
	cancelOnce sync.Once
	done       chan struct{}

	state     atomic.Int32
	cancelled atomic.Bool
	err       error
}

func newHandle() *Handle {
	return &Handle{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Cancel asks the scan to stop before its next entry. It may be called any
// number of times, from any goroutine, before or after the scan ends.
func (h *Handle) Cancel() {
	h.cancelOnce.Do(func() { close(h.cancel) })
}

// Done is closed when the scan has terminated and released the list
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the scan terminates. It returns the fatal error of the
// scan, or nil when it completed or was cancelled.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// State returns the current scan state
func (h *Handle) State() State {
	return State(h.state.Load())
}

// Cancelled reports whether the scan stopped because it was cancelled
func (h *Handle) Cancelled() bool {
	return h.cancelled.Load()
}

func (h *Handle) setState(s State) {
	h.state.Store(int32(s))
	if s == StateCancelled {
		h.cancelled.Store(true)
	}
}

// cancelRequested polls the cancellation signal without blocking
func (h *Handle) cancelRequested() bool {
	select {
	case <-h.cancel:
		return true
	default:
		return false
	}
}

func (h *Handle) finish(err error) {
	h.err = err
	h.setState(StateTerminated)
	close(h.done)
}
