package listing

import (
	"cialist/internal/errors"
	"cialist/internal/log"
	"cialist/pkg/types"
)

// scan runs one population. Only fatal errors are returned; cancellation
// ends the scan with nil.
func (p *Populator) scan(h *Handle, list *List, dir *types.FileInfo) error {
	l := p.log.With(log.F("volume", dir.Volume.Name()), log.F("path", dir.Path))

	h.setState(StateOpening)
	d, err := dir.Volume.OpenDirectory(dir.Path)
	if err != nil {
		return p.fail(errors.NewFileError("failed to open directory", dir.Path, errors.DirectoryOpenFailed, err))
	}
	defer func() {
		h.setState(StateClosing)
		if err := d.Close(); err != nil {
			l.WithError(err).Warn("Failed to close directory")
		}
	}()

	capacity := list.Cap()
	if capacity > p.scratch {
		return p.fail(errors.NewKind(errors.OutOfMemory, "entry buffer exceeds scratch limit", errors.ErrOutOfMemory))
	}

	h.setState(StateReading)
	entries, err := d.Read(capacity)
	if err != nil {
		return p.fail(errors.NewFileError("failed to read directory", dir.Path, errors.DirectoryReadFailed, err))
	}
	if len(entries) > capacity {
		entries = entries[:capacity]
	}
	if len(entries) == 0 {
		h.setState(StateDone)
		return nil
	}

	h.setState(StateSorting)
	sortEntries(entries, p.dirsFirst)

	h.setState(StateProcessing)
	x := extractor{inspector: p.inspector, renderer: p.renderer, log: l}
	lang := p.language()
	for _, e := range entries {
		if p.shutdown.IsQuit() || h.cancelRequested() {
			l.With(log.F("listed", list.Len())).Debug("Scan cancelled")
			h.setState(StateCancelled)
			return nil
		}

		slot, ok := p.classify.classify(e, dir)
		if !ok {
			continue
		}
		if !slot.Data.IsDirectory {
			x.extract(slot.Data, dir, lang)
		}
		list.push(slot)
	}

	l.With(log.F("listed", list.Len())).Debug("Scan complete")
	h.setState(StateDone)
	return nil
}
