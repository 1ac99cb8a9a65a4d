package views

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"cialist/internal/tui/common"
	"cialist/pkg/types"
)

// Mock model for testing
type mockModel struct {
	slots      []types.Slot
	selected   int
	showHelp   bool
	mode       common.Mode
	currentDir string
	loading    bool
	err        error
}

func (m *mockModel) Slots() []types.Slot { return m.slots }
func (m *mockModel) Selected() (types.Slot, bool) {
	if m.selected < 0 || m.selected >= len(m.slots) {
		return types.Slot{}, false
	}
	return m.slots[m.selected], true
}
func (m *mockModel) ShowHelp() bool     { return m.showHelp }
func (m *mockModel) Mode() common.Mode  { return m.mode }
func (m *mockModel) CurrentDir() string { return m.currentDir }
func (m *mockModel) Loading() bool      { return m.loading }
func (m *mockModel) Err() error         { return m.err }

func packageSlot() types.Slot {
	return types.Slot{
		Name:  "game.cia",
		Color: 0xFFFFFFFF,
		Data: &types.FileInfo{
			Path:      "/cia/game.cia",
			Name:      "game.cia",
			Size:      2048,
			IsPackage: true,
			Package: &types.PackageInfo{
				TitleID:           0x000400000FF3FF00,
				Version:           2,
				InstalledSizeSD:   0x10000,
				InstalledSizeNAND: 0xC000,
				HasMetadata:       true,
				Resource: &types.ResourceInfo{
					ShortDescription: "Homebrew",
					LongDescription:  "Homebrew Launcher",
					Publisher:        "Someone",
				},
			},
		},
	}
}

func TestRenderMainView(t *testing.T) {
	tests := []struct {
		name     string
		model    *mockModel
		body     string
		contains []string // Strings that should be present in the output
		excludes []string // Strings that should not be present in the output
	}{
		{
			name:     "empty directory",
			model:    &mockModel{currentDir: "/cia/", selected: -1},
			body:     "No files found",
			contains: []string{"/cia/", "0 entries", "No files found", "[q] Quit"},
			excludes: []string{"loading", "Directories are listed first"},
		},
		{
			name:     "loading",
			model:    &mockModel{currentDir: "/cia/", loading: true, slots: []types.Slot{packageSlot()}},
			body:     "game.cia",
			contains: []string{"1 entries (loading)", "game.cia"},
		},
		{
			name:     "help",
			model:    &mockModel{currentDir: "/", showHelp: true},
			contains: []string{"Directories are listed first"},
		},
		{
			name:     "error",
			model:    &mockModel{currentDir: "/", err: errors.New("directory open failed")},
			contains: []string{"directory open failed"},
		},
		{
			name: "details",
			model: &mockModel{
				currentDir: "/cia/",
				mode:       common.Detail,
				slots:      []types.Slot{packageSlot()},
			},
			body:     "list body",
			contains: []string{"000400000FF3FF00", "Homebrew Launcher", "Someone", "66 kB", "49 kB"},
			excludes: []string{"list body"},
		},
		{
			name:     "details without selection",
			model:    &mockModel{currentDir: "/", mode: common.Detail, selected: -1},
			contains: []string{"Nothing selected"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := RenderMainView(tt.model, tt.body)
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestRenderHeaderDefaultsToRoot(t *testing.T) {
	assert.Contains(t, renderHeader(&mockModel{}), "/")
}
