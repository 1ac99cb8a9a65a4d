// Package listing populates directory listings on a background goroutine.
//
// A List is a fixed-capacity slot buffer. One scan at a time owns it and is
// its only writer; the scan writes a slot completely before publishing the
// new count, so readers may load Len and read every slot below it while the
// scan is still running.
package listing

import (
	"sync/atomic"

	"cialist/internal/errors"
	"cialist/internal/render"
	"cialist/pkg/types"
)

// IconUnloader releases icon textures owned by listed packages
type IconUnloader interface {
	UnloadIcon(tex render.Texture)
}

// List is the output buffer of a scan
type List struct {
	slots []types.Slot
	count atomic.Uint32
	busy  atomic.Bool
}

// NewList returns an empty list holding at most capacity entries
func NewList(capacity int) *List {
	if capacity < 0 {
		capacity = 0
	}
	return &List{slots: make([]types.Slot, capacity)}
}

// Cap returns the maximum number of entries
func (l *List) Cap() int {
	return len(l.slots)
}

// Len returns the number of published entries
func (l *List) Len() int {
	return int(l.count.Load())
}

// Slot returns entry i. i must be below Len.
func (l *List) Slot(i int) types.Slot {
	return l.slots[i]
}

// Slots returns a copy of the published entries
func (l *List) Slots() []types.Slot {
	n := l.Len()
	out := make([]types.Slot, n)
	copy(out, l.slots[:n])
	return out
}

// Busy reports whether a scan owns the list
func (l *List) Busy() bool {
	return l.busy.Load()
}

func (l *List) claim() bool {
	return l.busy.CompareAndSwap(false, true)
}

func (l *List) release() {
	l.busy.Store(false)
}

// push publishes s as the next entry. It reports false when the list is full.
func (l *List) push(s types.Slot) bool {
	n := l.count.Load()
	if int(n) >= len(l.slots) {
		return false
	}
	l.slots[n] = s
	l.count.Store(n + 1)
	return true
}

// Clear empties the list and unloads the icons its packages own. It is
// idempotent and fails with ErrListBusy while a scan owns the list.
func Clear(l *List, icons IconUnloader) error {
	if l == nil {
		return errors.NewKind(errors.InvalidArgument, "invalid argument", errors.New("nil list"))
	}
	if !l.claim() {
		return errors.ErrListBusy
	}
	defer l.release()
	l.clear(icons)
	return nil
}

// clear does the work of Clear for a caller that already owns the list
func (l *List) clear(icons IconUnloader) {
	n := l.Len()
	for i := 0; i < n; i++ {
		info := l.slots[i].Data
		if icons != nil && info != nil && info.HasMetadata() {
			icons.UnloadIcon(info.Package.Resource.Icon)
		}
		l.slots[i] = types.Slot{}
	}
	l.count.Store(0)
}
