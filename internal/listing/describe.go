package listing

import (
	"strings"

	"cialist/internal/errors"
	"cialist/internal/log"
	"cialist/internal/volume"
	"cialist/pkg/types"
)

// Describe inspects the single file at path the way a scan inspects each
// entry. It runs on the calling goroutine and touches no list. Only a bad
// path or an unopenable file is an error; anything else degrades the
// result to a plain file.
func (p *Populator) Describe(vol volume.Volume, path string) (*types.FileInfo, error) {
	if vol == nil {
		return nil, errors.NewKind(errors.InvalidArgument, "nil volume", errors.ErrInvalidArgument)
	}
	clean, err := volume.Clean(path)
	if err != nil || clean == "/" || strings.HasSuffix(clean, "/") {
		return nil, errors.NewFileError("not a file path", path, errors.InvalidArgument, err)
	}

	f, err := vol.OpenFile(clean, volume.OpenRead)
	if err != nil {
		return nil, errors.NewFileError("failed to open file", clean, errors.FileOpenFailed, err)
	}
	if err := f.Close(); err != nil {
		p.log.WithError(err).Debug("Failed to close file")
	}

	info := &types.FileInfo{
		Volume: vol,
		Path:   clean,
		Name:   clean[strings.LastIndex(clean, "/")+1:],
	}
	parent := types.NewDirectory(vol, volume.Parent(clean))
	x := extractor{
		inspector: p.inspector,
		renderer:  p.renderer,
		log:       p.log.With(log.F("volume", vol.Name())),
	}
	x.extract(info, parent, p.language())
	return info, nil
}
