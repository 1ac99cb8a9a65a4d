package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cialist/internal/smdh"
	"cialist/pkg/testutils"
)

func packageData() []byte {
	return testutils.CIA{
		TitleID:      0x000400000FF3FF00,
		Version:      7,
		ContentSizes: []uint64{0x9000},
		SMDH: testutils.BuildSMDH(map[int]testutils.SMDHTitle{
			int(smdh.English): {Short: "Homebrew", Long: "Homebrew Launcher", Publisher: "Someone"},
		}, testutils.TiledIcon(0x001F)),
	}.Bytes()
}

func sampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteTree(t, dir, map[string][]byte{
		"apps/":        nil,
		"notes.txt":    []byte("hello"),
		"launcher.cia": packageData(),
	})
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cfg := filepath.Join(t.TempDir(), "missing.yaml")
	cmd.SetArgs(append([]string{"--config", cfg, "--lang", "en"}, args...))
	err := cmd.Execute()
	return testutils.StripANSI(stdout.String()), testutils.StripANSI(stderr.String()), err
}

func TestListCommand(t *testing.T) {
	dir := sampleDir(t)

	out, _, err := run(t, "ls", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "apps/")
	assert.Contains(t, out, "launcher.cia")
	assert.Contains(t, out, "000400000FF3FF00")
	assert.Contains(t, out, "Homebrew")
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "5 B")
	assert.Contains(t, out, "3 entries, contains packages")

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "ls", "--json", dir)
		require.NoError(t, err)

		var entries []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &entries))
		require.Len(t, entries, 3)
		assert.Equal(t, "apps", entries[0]["name"])
		assert.Equal(t, "launcher.cia", entries[1]["name"])
		assert.Equal(t, true, entries[1]["is_package"])
	})

	t.Run("capacity", func(t *testing.T) {
		out, _, err := run(t, "ls", "-n", "1", dir)
		require.NoError(t, err)
		assert.Contains(t, out, "1 entries")
		assert.NotContains(t, out, "notes.txt")
	})

	t.Run("icons", func(t *testing.T) {
		icons := filepath.Join(t.TempDir(), "icons")
		_, stderr, err := run(t, "ls", "--icons", icons, "--scale", "2", dir)
		require.NoError(t, err)
		assert.Contains(t, stderr, "Exported 1 icons")
		assert.FileExists(t, filepath.Join(icons, "000400000FF3FF00.png"))
	})

	t.Run("scale_out_of_range", func(t *testing.T) {
		icons := filepath.Join(t.TempDir(), "icons")
		for _, scale := range []string{"0", "17", "100000"} {
			_, _, err := run(t, "ls", "--icons", icons, "--scale", scale, dir)
			assert.Error(t, err, "scale %s", scale)
		}
		assert.NoDirExists(t, icons)
	})

	t.Run("missing_directory", func(t *testing.T) {
		_, _, err := run(t, "ls", filepath.Join(dir, "nope"))
		assert.Error(t, err)
	})
}

func TestInfoCommand(t *testing.T) {
	dir := sampleDir(t)

	out, _, err := run(t, "info", filepath.Join(dir, "launcher.cia"))
	require.NoError(t, err)
	assert.Contains(t, out, "launcher.cia")
	assert.Contains(t, out, "000400000FF3FF00")
	assert.Contains(t, out, "Homebrew Launcher")
	assert.Contains(t, out, "Someone")

	out, _, err = run(t, "info", filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, "Not an installable package")

	t.Run("icon", func(t *testing.T) {
		icon := filepath.Join(t.TempDir(), "icon.png")
		_, _, err := run(t, "info", "--icon", icon, filepath.Join(dir, "launcher.cia"))
		require.NoError(t, err)
		assert.FileExists(t, icon)

		_, _, err = run(t, "info", "--icon", icon, filepath.Join(dir, "notes.txt"))
		assert.Error(t, err)
	})

	t.Run("scale_out_of_range", func(t *testing.T) {
		icon := filepath.Join(t.TempDir(), "icon.png")
		_, _, err := run(t, "info", "--icon", icon, "--scale", "100000", filepath.Join(dir, "launcher.cia"))
		assert.Error(t, err)
		assert.NoFileExists(t, icon)

		_, _, err = run(t, "info", "--icon", icon, "--scale", "16", filepath.Join(dir, "launcher.cia"))
		require.NoError(t, err)
		assert.FileExists(t, icon)
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := run(t, "info", "--json", filepath.Join(dir, "launcher.cia"))
		require.NoError(t, err)
		assert.Contains(t, out, `"is_package": true`)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, _, err := run(t, "info", filepath.Join(dir, "missing.cia"))
		assert.Error(t, err)
	})
}

func TestRootCommandConfig(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("listing:\n  capacity: 0\n"), 0644))

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", bad, "ls", t.TempDir()})
	assert.Error(t, cmd.Execute())

	_, _, err := run(t, "--lang", "not a language", "ls", t.TempDir())
	assert.Error(t, err)
}
