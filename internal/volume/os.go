package volume

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OS exposes a host directory as a read-only volume. Names starting with
// "." are reported hidden.
type OS struct {
	root string
	name string
}

// NewOS returns a volume rooted at dir
func NewOS(dir string) (*OS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}
	return &OS{root: abs, name: "host:" + abs}, nil
}

func (v *OS) Name() string { return v.name }

// Root returns the host directory backing the volume
func (v *OS) Root() string { return v.root }

// HostPath maps a volume path onto the host filesystem
func (v *OS) HostPath(path string) (string, error) {
	cleaned, err := Clean(path)
	if err != nil {
		return "", err
	}
	return filepath.Join(v.root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/"))), nil
}

func (v *OS) OpenDirectory(path string) (Directory, error) {
	host, err := v.HostPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(host)
	if err != nil {
		return nil, mapOSError(err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, mapOSError(err)
	}
	if !info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotDirectory)
	}
	return &osDirectory{f: f}, nil
}

func (v *OS) OpenFile(path string, mode OpenMode) (File, error) {
	if mode&(OpenWrite|OpenCreate) != 0 {
		return nil, ErrReadOnly
	}
	host, err := v.HostPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(host)
	if err != nil {
		return nil, mapOSError(err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, mapOSError(err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}
	return &osFile{f: f}, nil
}

func mapOSError(err error) error {
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

type osDirectory struct {
	f *os.File
}

func (d *osDirectory) Read(max int) ([]Entry, error) {
	if max <= 0 {
		return nil, nil
	}
	dirents, err := d.f.ReadDir(max)
	if err != nil && err != io.EOF {
		return nil, err
	}
	entries := make([]Entry, 0, len(dirents))
	for _, de := range dirents {
		var attrs Attributes
		if de.IsDir() {
			attrs |= AttrDirectory
		} else {
			attrs |= AttrArchive
		}
		if strings.HasPrefix(de.Name(), ".") {
			attrs |= AttrHidden
		}
		entries = append(entries, Entry{Name: de.Name(), Attributes: attrs})
	}
	return entries, nil
}

func (d *osDirectory) Close() error {
	return d.f.Close()
}

type osFile struct {
	f *os.File
}

func (f *osFile) Size() (int64, error) {
	info, err := f.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (f *osFile) ReadAt(p []byte, off int64) (int, error) {
	return f.f.ReadAt(p, off)
}

func (f *osFile) Close() error {
	return f.f.Close()
}
