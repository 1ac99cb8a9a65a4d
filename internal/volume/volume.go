// Package volume defines the storage access used by the listing pipeline:
// a volume opens directories and files by slash-separated, volume-relative
// paths. Directory paths end with "/" and the root is "/".
package volume

import (
	"errors"
	"io"
	"strings"
)

// Attributes are the flags reported for a directory entry
type Attributes uint8

const (
	AttrDirectory Attributes = 1 << iota
	AttrHidden
	AttrArchive
	AttrReadOnly
)

// Has reports whether all bits of flag are set
func (a Attributes) Has(flag Attributes) bool {
	return a&flag == flag
}

// Entry is one raw directory entry
type Entry struct {
	Name       string
	Attributes Attributes
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool { return e.Attributes.Has(AttrDirectory) }

// IsHidden reports whether the entry is flagged hidden
func (e Entry) IsHidden() bool { return e.Attributes.Has(AttrHidden) }

// OpenMode selects how a file is opened
type OpenMode uint8

const (
	OpenRead OpenMode = 1 << iota
	OpenWrite
	OpenCreate
)

var (
	ErrNotFound     = errors.New("volume: not found")
	ErrNotDirectory = errors.New("volume: not a directory")
	ErrIsDirectory  = errors.New("volume: is a directory")
	ErrReadOnly     = errors.New("volume: read-only")
	ErrClosed       = errors.New("volume: handle closed")
	ErrBadPath      = errors.New("volume: invalid path")
)

// Directory is an open directory handle
type Directory interface {
	// Read returns up to max entries in one batch. Order is unspecified.
	Read(max int) ([]Entry, error)
	Close() error
}

// File is an open file handle
type File interface {
	io.ReaderAt
	Size() (int64, error)
	Close() error
}

// Volume opens directories and files on one storage medium
type Volume interface {
	Name() string
	OpenDirectory(path string) (Directory, error)
	OpenFile(path string, mode OpenMode) (File, error)
}

// Clean normalizes a volume path: it always starts with "/", uses "/" as
// the separator and has no empty or "." elements. ".." is rejected.
func Clean(path string) (string, error) {
	trailing := strings.HasSuffix(path, "/")
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			return "", ErrBadPath
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return "/", nil
	}
	cleaned := "/" + strings.Join(out, "/")
	if trailing {
		cleaned += "/"
	}
	return cleaned, nil
}

// Parent returns the directory path containing path, ending with "/"
func Parent(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx <= 0 {
		return "/"
	}
	return trimmed[:idx+1]
}
