// Package report delivers user-facing error notifications. A scan reports
// each fatal failure exactly once; how it reaches the user is up to the
// Reporter.
package report

import (
	"sync"

	"cialist/internal/errors"
	"cialist/internal/log"
)

// Reporter shows a failure to the user
type Reporter interface {
	Report(kind errors.ErrorKind, msg string, err error)
}

// Log reports through a logger at error level
type Log struct {
	Logger *log.Logger
}

func (r Log) Report(kind errors.ErrorKind, msg string, err error) {
	l := r.Logger
	if l == nil {
		l = log.Default()
	}
	l.WithError(err).With(log.F("kind", kind.String())).Error(msg)
}

// Entry is one recorded report
type Entry struct {
	Kind    errors.ErrorKind
	Message string
	Err     error
}

// Recorder keeps every report in memory. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	notify  chan struct{}
}

// NewRecorder returns an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

func (r *Recorder) Report(kind errors.ErrorKind, msg string, err error) {
	r.mu.Lock()
	r.entries = append(r.entries, Entry{Kind: kind, Message: msg, Err: err})
	r.mu.Unlock()

	if r.notify != nil {
		select {
		case r.notify <- struct{}{}:
		default:
		}
	}
}

// Reports returns a copy of the recorded reports
func (r *Recorder) Reports() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Len returns the number of recorded reports
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Notify receives a value after reports are recorded. Bursts coalesce.
func (r *Recorder) Notify() <-chan struct{} {
	return r.notify
}
