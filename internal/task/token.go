// Package task holds process-wide task coordination.
package task

import "sync"

// Token is a shutdown signal shared by every background task. Quitting it
// asks all tasks to stop at their next check.
type Token struct {
	once sync.Once
	ch   chan struct{}
	init sync.Once
}

// NewToken returns a token that has not quit
func NewToken() *Token {
	t := &Token{}
	t.lazy()
	return t
}

func (t *Token) lazy() {
	t.init.Do(func() { t.ch = make(chan struct{}) })
}

// Quit signals shutdown. Calling it more than once is harmless.
func (t *Token) Quit() {
	t.lazy()
	t.once.Do(func() { close(t.ch) })
}

// Done is closed once Quit has been called
func (t *Token) Done() <-chan struct{} {
	t.lazy()
	return t.ch
}

// IsQuit polls the token without blocking. A nil token never quits.
func (t *Token) IsQuit() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.Done():
		return true
	default:
		return false
	}
}
