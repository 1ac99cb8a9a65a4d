package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"cialist/internal/render"
	"cialist/internal/volume"
)

const (
	// NameMax is the longest entry name kept, in bytes
	NameMax = 255
	// PathMax is the longest synthesized path, in bytes
	PathMax = 1024
)

// Capacities of the resource strings, in bytes of UTF-8
const (
	ShortDescriptionMax = 0x100
	LongDescriptionMax  = 0x200
	PublisherMax        = 0x100
)

// FileInfo describes one listed entry, or the directory being listed
type FileInfo struct {
	Volume      volume.Volume `json:"-"`
	Path        string        `json:"path"`
	Name        string        `json:"name"`
	IsDirectory bool          `json:"is_directory"`
	Size        uint64        `json:"size"`
	IsPackage   bool          `json:"is_package"`
	Package     *PackageInfo  `json:"package,omitempty"`

	// ContainsPackages is set on a directory once a scan finds a package in it
	ContainsPackages atomic.Bool `json:"-"`
}

// PackageInfo holds what was read from an installable package
type PackageInfo struct {
	TitleID           uint64        `json:"title_id"`
	Version           uint16        `json:"version"`
	InstalledSizeSD   uint64        `json:"installed_size_sd"`
	InstalledSizeNAND uint64        `json:"installed_size_nand"`
	HasMetadata       bool          `json:"has_metadata"`
	Resource          *ResourceInfo `json:"resource,omitempty"`
}

// ResourceInfo is the localized metadata of a package. Icon is owned by it
// and released when the listing is cleared.
type ResourceInfo struct {
	ShortDescription string         `json:"short_description"`
	LongDescription  string         `json:"long_description"`
	Publisher        string         `json:"publisher"`
	Icon             render.Texture `json:"icon"`
}

// NewDirectory returns a FileInfo for the directory at path on vol
func NewDirectory(vol volume.Volume, path string) *FileInfo {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	name := strings.TrimSuffix(path, "/")
	name = name[strings.LastIndex(name, "/")+1:]
	return &FileInfo{Volume: vol, Path: path, Name: name, IsDirectory: true}
}

// HasMetadata reports whether a package resource is attached
func (f *FileInfo) HasMetadata() bool {
	return f.IsPackage && f.Package != nil && f.Package.HasMetadata && f.Package.Resource != nil
}

// TitleIDString formats the title id the way it is usually printed
func (p *PackageInfo) TitleIDString() string {
	return fmt.Sprintf("%016X", p.TitleID)
}

// MarshalJSON adds the volume name and package flag to the encoded entry
func (f *FileInfo) MarshalJSON() ([]byte, error) {
	type plain FileInfo
	out := struct {
		*plain
		Volume           string `json:"volume,omitempty"`
		ContainsPackages bool   `json:"contains_packages,omitempty"`
	}{plain: (*plain)(f), ContainsPackages: f.ContainsPackages.Load()}
	if f.Volume != nil {
		out.Volume = f.Volume.Name()
	}
	return json.Marshal(out)
}

// ToJSON converts FileInfo to JSON string
func (f *FileInfo) ToJSON() string {
	jsonBytes, _ := json.Marshal(f)
	return string(jsonBytes)
}

// String returns a human-readable representation
func (f *FileInfo) String() string {
	var sb strings.Builder
	if f.IsDirectory {
		sb.WriteString(fmt.Sprintf("Directory: %s\n", f.Path))
		return sb.String()
	}
	sb.WriteString(fmt.Sprintf("File: %s\n", f.Path))
	sb.WriteString(fmt.Sprintf("Size: %d bytes\n", f.Size))
	if !f.IsPackage || f.Package == nil {
		return sb.String()
	}
	p := f.Package
	sb.WriteString(fmt.Sprintf("Title ID: %s\n", p.TitleIDString()))
	sb.WriteString(fmt.Sprintf("Version: %d\n", p.Version))
	sb.WriteString(fmt.Sprintf("Installed size (SD): %d bytes\n", p.InstalledSizeSD))
	sb.WriteString(fmt.Sprintf("Installed size (NAND): %d bytes\n", p.InstalledSizeNAND))
	if f.HasMetadata() {
		sb.WriteString(fmt.Sprintf("Title: %s\n", p.Resource.ShortDescription))
		sb.WriteString(fmt.Sprintf("Description: %s\n", p.Resource.LongDescription))
		sb.WriteString(fmt.Sprintf("Publisher: %s\n", p.Resource.Publisher))
	}
	return sb.String()
}

// Truncate cuts s to at most max bytes without splitting a rune
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
