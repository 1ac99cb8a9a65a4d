package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"cialist/internal/listing"
	"cialist/internal/log"
	"cialist/internal/tui/common"
	"cialist/internal/tui/components"
	"cialist/internal/tui/messages"
	"cialist/internal/tui/views"
	"cialist/internal/volume"
	"cialist/pkg/types"
)

const pollInterval = 50 * time.Millisecond

type Model struct {
	pop *listing.Populator
	vol volume.Volume
	log *log.Logger

	// Listing state
	list   *listing.List
	handle *listing.Handle
	scan   int
	dir    string

	// View state
	mode     common.Mode
	showHelp bool
	err      error
	files    *components.FileList
	status   *components.StatusBar
}

// New creates a model browsing dir on vol with room for capacity entries
func New(pop *listing.Populator, vol volume.Volume, dir string, capacity int) *Model {
	if dir == "" {
		dir = "/"
	}
	return &Model{
		pop:    pop,
		vol:    vol,
		log:    log.Default().With(log.F("component", "tui")),
		list:   listing.NewList(capacity),
		dir:    dir,
		mode:   common.Normal,
		files:  components.NewFileList(),
		status: components.NewStatusBar(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.load(m.dir)
}

// View implements tea.Model
func (m *Model) View() string {
	body := m.files.View()
	if status := m.status.View(); status != "" {
		body += "\n" + status
	}
	return views.RenderMainView(m, body)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.files.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case messages.ProgressMsg:
		return m, m.progress(msg)
	case messages.ScanCompleteMsg:
		m.complete(msg)
		return m, nil
	case messages.DirectoryChangeMsg:
		return m, m.load(msg.Path)
	case messages.ErrorMsg:
		m.err = msg.Err
		m.status.SetError(msg.Err.Error())
		return m, nil
	case spinner.TickMsg:
		if !m.status.Loading() {
			return m, nil
		}
		return m, m.status.Update(msg)
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.stop()
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, keys.Details):
		if m.mode == common.Detail {
			m.mode = common.Normal
		} else {
			m.mode = common.Detail
		}
		return m, nil
	case key.Matches(msg, keys.Cancel):
		if m.mode == common.Detail {
			m.mode = common.Normal
			return m, nil
		}
		if m.status.Loading() && m.handle != nil {
			m.handle.Cancel()
			m.status.SetText("Cancelling...")
		}
		return m, nil
	case key.Matches(msg, keys.Refresh):
		return m, m.load(m.dir)
	case key.Matches(msg, keys.Parent):
		if m.dir == "/" {
			return m, nil
		}
		return m, m.load(volume.Parent(m.dir))
	case key.Matches(msg, keys.Open):
		slot, ok := m.files.Selected()
		if !ok || slot.Data == nil {
			return m, nil
		}
		if slot.Data.IsDirectory {
			return m, m.load(slot.Data.Path)
		}
		m.mode = common.Detail
		return m, nil
	}

	if m.mode == common.Detail {
		return m, nil
	}
	return m, m.files.Update(msg)
}

// load stops the running scan and starts listing path
func (m *Model) load(path string) tea.Cmd {
	m.stop()

	m.err = nil
	m.mode = common.Normal
	dir := types.NewDirectory(m.vol, path)
	h, err := m.pop.Populate(m.list, dir)
	if err != nil {
		m.log.WithError(err).With(log.F("path", path)).Warn("Failed to start listing")
		m.err = err
		m.status.SetLoading(false)
		m.status.SetError(err.Error())
		return nil
	}

	m.dir = dir.Path
	m.handle = h
	m.scan++
	m.files.SetSlots(nil)
	m.status.SetLoading(true)
	m.status.SetText("Loading " + m.dir)
	return tea.Batch(m.status.Tick(), m.poll())
}

// stop cancels the running scan and waits for it to release the list
func (m *Model) stop() {
	if m.handle == nil {
		return
	}
	m.handle.Cancel()
	_ = m.handle.Wait()
}

func (m *Model) poll() tea.Cmd {
	scan := m.scan
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return messages.ProgressMsg{Scan: scan, Time: t}
	})
}

// progress picks up entries published since the last poll
func (m *Model) progress(msg messages.ProgressMsg) tea.Cmd {
	if msg.Scan != m.scan || m.handle == nil {
		return nil
	}
	cmd := m.files.SetSlots(m.list.Slots())

	select {
	case <-m.handle.Done():
	default:
		return tea.Batch(cmd, m.poll())
	}

	h, scan, path := m.handle, m.scan, m.dir
	return tea.Batch(cmd, func() tea.Msg {
		return messages.ScanCompleteMsg{
			Scan:      scan,
			Path:      path,
			Count:     m.list.Len(),
			Cancelled: h.Cancelled(),
			Error:     h.Wait(),
		}
	})
}

func (m *Model) complete(msg messages.ScanCompleteMsg) {
	if msg.Scan != m.scan {
		return
	}
	m.files.SetSlots(m.list.Slots())
	m.status.SetLoading(false)

	switch {
	case msg.Error != nil:
		m.err = msg.Error
		m.status.SetError(listing.ListingFailedMessage)
	case msg.Cancelled:
		m.status.SetText(fmt.Sprintf("Cancelled after %d entries", msg.Count))
	default:
		m.status.SetText(fmt.Sprintf("%d entries", msg.Count))
	}
}

// Getters

func (m *Model) Slots() []types.Slot {
	return m.files.Slots()
}

func (m *Model) Selected() (types.Slot, bool) {
	return m.files.Selected()
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

// CurrentDir returns the directory being listed
func (m *Model) CurrentDir() string {
	return m.dir
}

func (m *Model) Loading() bool {
	return m.status.Loading()
}

// StatusMsg returns the status line text
func (m *Model) StatusMsg() string {
	return m.status.Text()
}

func (m *Model) Err() error {
	return m.err
}
