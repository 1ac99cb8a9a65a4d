package listing

import (
	"github.com/gobwas/glob"

	"cialist/internal/log"
	"cialist/internal/volume"
	"cialist/pkg/types"
)

// classifier turns raw directory entries into slots
type classifier struct {
	showHidden bool
	exclude    []glob.Glob
	dirColor   types.Color
	fileColor  types.Color
	log        *log.Logger
}

// excluded reports whether name matches an exclude pattern
func (c *classifier) excluded(name string) bool {
	for _, g := range c.exclude {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// classify builds the slot for e inside dir. It reports false for entries
// that are not listed. Only the display name is truncated; the path keeps
// the full name so the entry can still be opened.
func (c *classifier) classify(e volume.Entry, dir *types.FileInfo) (types.Slot, bool) {
	if e.IsHidden() && !c.showHidden {
		return types.Slot{}, false
	}
	if c.excluded(e.Name) {
		c.log.With(log.F("name", e.Name)).Debug("Entry excluded by pattern")
		return types.Slot{}, false
	}

	name := types.Truncate(e.Name, types.NameMax)
	info := &types.FileInfo{
		Volume:      dir.Volume,
		Name:        name,
		IsDirectory: e.IsDir(),
	}
	slot := types.Slot{Name: name, Data: info}
	if info.IsDirectory {
		info.Path = dir.Path + e.Name + "/"
		slot.Color = c.dirColor
	} else {
		info.Path = dir.Path + e.Name
		slot.Color = c.fileColor
	}

	if len(info.Path) > types.PathMax {
		c.log.With(log.F("name", name), log.F("length", len(info.Path))).Debug("Entry path too long, skipping")
		return types.Slot{}, false
	}
	return slot, true
}
