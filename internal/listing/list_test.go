package listing

import (
	"io"
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cialist/internal/config"
	"cialist/internal/errors"
	"cialist/internal/log"
	"cialist/internal/render"
	"cialist/internal/report"
	"cialist/internal/volume"
	"cialist/pkg/types"
)

type countingUnloader struct {
	unloaded []render.Texture
}

func (c *countingUnloader) UnloadIcon(tex render.Texture) {
	c.unloaded = append(c.unloaded, tex)
}

func packageSlot(name string, tex render.Texture, withMetadata bool) types.Slot {
	info := &types.FileInfo{Name: name, IsPackage: true, Package: &types.PackageInfo{}}
	if withMetadata {
		info.Package.HasMetadata = true
		info.Package.Resource = &types.ResourceInfo{Icon: tex}
	}
	return types.Slot{Name: name, Data: info}
}

func TestListPushBound(t *testing.T) {
	l := NewList(2)
	assert.True(t, l.push(types.Slot{Name: "a", Data: &types.FileInfo{}}))
	assert.True(t, l.push(types.Slot{Name: "b", Data: &types.FileInfo{}}))
	assert.False(t, l.push(types.Slot{Name: "c", Data: &types.FileInfo{}}))
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "b", l.Slot(1).Name)
	assert.Len(t, l.Slots(), 2)

	assert.Equal(t, 0, NewList(-1).Cap())
}

func TestClearUnloadsOnlyOwnedIcons(t *testing.T) {
	l := NewList(4)
	l.push(packageSlot("a", 7, true))
	l.push(packageSlot("b", 0, false))
	l.push(types.Slot{Name: "c", Data: &types.FileInfo{Name: "c"}})

	icons := &countingUnloader{}
	require.NoError(t, Clear(l, icons))
	assert.Equal(t, []render.Texture{7}, icons.unloaded)
	assert.Equal(t, 0, l.Len())
	for _, s := range l.slots {
		assert.False(t, s.Valid(), "cleared slots are zeroed")
	}

	require.NoError(t, Clear(l, nil))
	assert.Len(t, icons.unloaded, 1)
}

func TestClearBusy(t *testing.T) {
	l := NewList(1)
	require.True(t, l.claim())
	assert.ErrorIs(t, Clear(l, nil), errors.ErrListBusy)
	l.release()
	assert.NoError(t, Clear(l, nil))
}

func TestSortEntries(t *testing.T) {
	entries := []volume.Entry{
		{Name: "zeta.cia"},
		{Name: "Beta", Attributes: volume.AttrDirectory},
		{Name: "alpha.cia"},
		{Name: "Zeta.cia"},
		{Name: "alpha", Attributes: volume.AttrDirectory},
		{Name: "Éclair.cia"},
	}

	sortEntries(entries, true)
	var got []string
	for _, e := range entries {
		got = append(got, e.Name)
	}
	assert.Equal(t, []string{"alpha", "Beta", "alpha.cia", "Éclair.cia", "Zeta.cia", "zeta.cia"}, got)

	sortEntries(entries, false)
	got = got[:0]
	for _, e := range entries {
		got = append(got, e.Name)
	}
	assert.Equal(t, []string{"alpha", "alpha.cia", "Beta", "Éclair.cia", "Zeta.cia", "zeta.cia"}, got)
}

func TestClassify(t *testing.T) {
	c := &classifier{
		dirColor:  1,
		fileColor: 2,
		exclude:   []glob.Glob{glob.MustCompile("*.tmp")},
		log:       log.NewLogger(log.WithOutput(io.Discard)),
	}
	vol := volume.NewMem("sdmc")
	dir := types.NewDirectory(vol, "/cia/")

	slot, ok := c.classify(volume.Entry{Name: "Games", Attributes: volume.AttrDirectory}, dir)
	require.True(t, ok)
	assert.Equal(t, types.Color(1), slot.Color)
	assert.Equal(t, "/cia/Games/", slot.Data.Path)
	assert.Equal(t, vol, slot.Data.Volume)

	slot, ok = c.classify(volume.Entry{Name: "a.cia"}, dir)
	require.True(t, ok)
	assert.Equal(t, types.Color(2), slot.Color)
	assert.Equal(t, "/cia/a.cia", slot.Data.Path)
	assert.False(t, slot.Data.IsDirectory)

	_, ok = c.classify(volume.Entry{Name: ".x", Attributes: volume.AttrHidden}, dir)
	assert.False(t, ok)

	_, ok = c.classify(volume.Entry{Name: "x.tmp"}, dir)
	assert.False(t, ok)

	c.showHidden = true
	_, ok = c.classify(volume.Entry{Name: ".x", Attributes: volume.AttrHidden}, dir)
	assert.True(t, ok)
}

func TestClassifyTruncatesNames(t *testing.T) {
	c := &classifier{log: log.NewLogger(log.WithOutput(io.Discard))}
	dir := types.NewDirectory(volume.NewMem("sdmc"), "/")

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'n'
	}
	slot, ok := c.classify(volume.Entry{Name: string(long)}, dir)
	require.True(t, ok)
	assert.Len(t, slot.Name, types.NameMax)
	assert.Equal(t, slot.Name, slot.Data.Name)
	assert.Equal(t, "/"+string(long), slot.Data.Path)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "processing", StateProcessing.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestFailReportsOnlyScanFatalErrors(t *testing.T) {
	rec := report.NewRecorder()
	p, err := NewPopulator(
		WithConfig(config.NewTestConfig()),
		WithReporter(rec),
		WithLogger(log.NewLogger(log.WithOutput(io.Discard))),
	)
	require.NoError(t, err)

	bad := errors.NewKind(errors.MetadataInvalid, "bad magic", nil)
	assert.Same(t, bad, p.fail(bad))
	assert.Equal(t, 0, rec.Len())

	readErr := errors.NewFileError("failed to read directory", "/", errors.DirectoryReadFailed, nil)
	assert.Same(t, readErr, p.fail(readErr))
	require.Equal(t, 1, rec.Len())
	assert.Equal(t, errors.DirectoryReadFailed, rec.Reports()[0].Kind)
	assert.Equal(t, ListingFailedMessage, rec.Reports()[0].Message)
}
