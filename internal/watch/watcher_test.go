package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherFsnotify(t *testing.T) {
	tempDir := t.TempDir()

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err, "New watcher creation failed")

	err = w.AddDirectory(tempDir)
	require.NoError(t, err, "Failed to add directory to watcher")
	assert.Equal(t, []string{tempDir}, w.GetDirectories())

	require.NoError(t, w.AddDirectory(tempDir))
	assert.Len(t, w.GetDirectories(), 1, "duplicates are not tracked twice")

	err = w.Start()
	require.NoError(t, err, "Failed to start watcher")
	defer w.Stop()
	assert.True(t, w.IsRunning())
	assert.Error(t, w.Start(), "second start should fail")

	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(100 * time.Millisecond)

	// A burst of events is delivered as one change
	for _, name := range []string{"a.cia", "b.cia", "c.cia"} {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, name), []byte("x"), 0644))
	}

	select {
	case change, ok := <-w.Changes():
		require.True(t, ok, "Change channel closed unexpectedly")
		assert.True(t, change.Ops.Has(fsnotify.Create), "Expected Create operation")
		assert.Contains(t, change.Paths, filepath.Join(tempDir, "a.cia"))
		assert.False(t, change.Timestamp.IsZero())
	case <-time.After(3 * time.Second):
		t.Fatal("Timeout waiting for change")
	}

	require.NoError(t, os.Remove(filepath.Join(tempDir, "a.cia")))
	timeout := time.After(3 * time.Second)
	for {
		select {
		case change := <-w.Changes():
			if change.Ops.Has(fsnotify.Remove) {
				return
			}
		case <-timeout:
			t.Fatal("Timeout waiting for remove change")
		}
	}
}

func TestWatcherStop(t *testing.T) {
	w, err := New(10 * time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.AddDirectory(t.TempDir()))
	require.NoError(t, w.Start())

	w.Stop()
	w.Stop()
	assert.False(t, w.IsRunning())

	_, ok := <-w.Changes()
	assert.False(t, ok, "change channel is closed after stop")
}

func TestWatcherAddDirectoryErrors(t *testing.T) {
	w, err := New(time.Millisecond)
	require.NoError(t, err)
	defer w.fsWatcher.Close()

	assert.Error(t, w.AddDirectory(filepath.Join(t.TempDir(), "missing")))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, w.AddDirectory(file))
}
