package listing

import (
	"fmt"
	"io"

	"cialist/internal/cia"
	"cialist/internal/errors"
	"cialist/internal/log"
	"cialist/internal/render"
	"cialist/internal/smdh"
	"cialist/internal/volume"
	"cialist/pkg/types"
)

// Inspector reads install information from a package file
type Inspector interface {
	Inspect(media cia.Media, r io.ReaderAt) (cia.TitleEntry, error)
}

// extractor fills in size and package details for file entries. Every
// failure degrades the entry instead of failing the scan.
type extractor struct {
	inspector Inspector
	renderer  render.Renderer
	log       *log.Logger
}

// extract inspects the file behind info. dir is flagged when a package is
// found.
func (x *extractor) extract(info, dir *types.FileInfo, lang smdh.Language) {
	l := x.log.With(log.F("path", info.Path))

	f, err := info.Volume.OpenFile(info.Path, volume.OpenRead)
	if err != nil {
		l.WithError(errors.NewFileError("failed to open file", info.Path, errors.FileOpenFailed, err)).Debug("Listing as plain file")
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			l.WithError(err).Debug("Failed to close file")
		}
	}()

	size, err := f.Size()
	if err != nil {
		l.WithError(err).Debug("Failed to get file size")
		size = 0
	} else {
		info.Size = uint64(size)
	}

	sd, err := x.inspector.Inspect(cia.MediaSD, f)
	if err != nil {
		l.WithError(errors.NewFileError("not an installable package", info.Path, errors.PackageInvalid, err)).Debug("Listing as plain file")
		return
	}

	pkg := &types.PackageInfo{
		TitleID:         sd.TitleID,
		Version:         sd.Version,
		InstalledSizeSD: sd.Size,
	}
	info.IsPackage = true
	info.Package = pkg
	dir.ContainsPackages.Store(true)

	if nand, err := x.inspector.Inspect(cia.MediaNAND, f); err == nil {
		pkg.InstalledSizeNAND = nand.Size
	} else {
		l.WithError(err).Debug("No NAND size estimate")
	}

	res, err := x.resource(f, size, lang)
	if err != nil {
		l.WithError(errors.NewFileError("no package metadata", info.Path, errors.MetadataInvalid, err)).Debug("Listing package without metadata")
		return
	}
	pkg.Resource = res
	pkg.HasMetadata = true
}

// resource reads the SMDH trailer at the end of f and loads its icon
func (x *extractor) resource(f volume.File, size int64, lang smdh.Language) (*types.ResourceInfo, error) {
	off := size - smdh.Size
	if off < 0 {
		return nil, fmt.Errorf("file of %d bytes has no room for a resource block", size)
	}
	buf := make([]byte, smdh.Size)
	n, err := f.ReadAt(buf, off)
	if n < len(buf) {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("short resource read: %w", err)
	}

	s, err := smdh.Parse(buf)
	if err != nil {
		return nil, err
	}
	title := s.Title(lang)

	tex, err := x.renderer.LoadIcon(s.LargeIcon(), smdh.LargeIconDim, smdh.LargeIconDim, render.LayoutTiled, render.FormatRGB565)
	if err != nil {
		return nil, fmt.Errorf("failed to load icon: %w", err)
	}
	return &types.ResourceInfo{
		ShortDescription: types.Truncate(title.ShortDescription, types.ShortDescriptionMax),
		LongDescription:  types.Truncate(title.LongDescription, types.LongDescriptionMax),
		Publisher:        types.Truncate(title.Publisher, types.PublisherMax),
		Icon:             tex,
	}, nil
}
