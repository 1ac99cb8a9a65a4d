package components

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"cialist/internal/tui/styles"
	"cialist/pkg/types"
)

type item struct {
	slot types.Slot
}

func (i item) FilterValue() string { return i.slot.Name }

// slotDelegate draws one entry per line in its slot color
type slotDelegate struct{}

func (slotDelegate) Height() int                             { return 1 }
func (slotDelegate) Spacing() int                            { return 0 }
func (slotDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (slotDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(item)
	if !ok {
		return
	}
	fmt.Fprint(w, renderRow(it.slot, index == m.Index(), m.Width()))
}

func renderRow(s types.Slot, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = styles.Theme.Selected.Render("> ")
	}

	name := s.Name
	details := ""
	if s.Data != nil {
		switch {
		case s.Data.IsDirectory:
			name += "/"
		case s.Data.HasMetadata():
			details = s.Data.Package.Resource.ShortDescription
		case s.Data.IsPackage:
			details = s.Data.Package.TitleIDString()
		}
		if !s.Data.IsDirectory {
			details = fmt.Sprintf("%9s  %s", humanize.Bytes(s.Data.Size), details)
		}
	}

	row := styles.Color(uint32(s.Color)).Render(name)
	if details != "" {
		pad := width - len(name) - len(details) - 4
		if pad < 2 {
			pad = 2
		}
		row += strings.Repeat(" ", pad) + styles.Theme.Label.Render(details)
	}
	return cursor + row
}

// FileList shows the entries of a listing
type FileList struct {
	list  list.Model
	slots []types.Slot
}

func NewFileList() *FileList {
	l := list.New([]list.Item{}, slotDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return &FileList{list: l}
}

// SetSize sets the drawing area
func (fl *FileList) SetSize(width, height int) {
	fl.list.SetSize(width, height)
}

// SetSlots replaces the entries, keeping the cursor where it was when
// the list only grew
func (fl *FileList) SetSlots(slots []types.Slot) tea.Cmd {
	index := fl.list.Index()
	grew := len(slots) >= len(fl.slots)
	fl.slots = slots

	items := make([]list.Item, len(slots))
	for i, s := range slots {
		items[i] = item{slot: s}
	}
	cmd := fl.list.SetItems(items)
	if grew && index < len(slots) {
		fl.list.Select(index)
	} else {
		fl.list.Select(0)
	}
	return cmd
}

// Slots returns the entries shown
func (fl *FileList) Slots() []types.Slot {
	return fl.slots
}

// Selected returns the entry under the cursor
func (fl *FileList) Selected() (types.Slot, bool) {
	it, ok := fl.list.SelectedItem().(item)
	if !ok {
		return types.Slot{}, false
	}
	return it.slot, true
}

// Cursor returns the index of the entry under the cursor
func (fl *FileList) Cursor() int {
	return fl.list.Index()
}

func (fl *FileList) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	fl.list, cmd = fl.list.Update(msg)
	return cmd
}

func (fl *FileList) View() string {
	if len(fl.slots) == 0 {
		return styles.Theme.Unselected.Render("No files found") + "\n"
	}
	return fl.list.View()
}
