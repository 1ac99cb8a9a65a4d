package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Export writes the icon behind tex to path. The format follows the file
// extension. scale enlarges the icon by an integer factor with nearest
// neighbour sampling so pixels stay sharp.
func (s *Store) Export(tex Texture, path string, scale int) error {
	img, ok := s.Image(tex)
	if !ok {
		return fmt.Errorf("render: unknown texture %d", tex)
	}
	if scale < 1 {
		scale = 1
	}

	out := img
	if scale > 1 {
		b := img.Bounds()
		out = imaging.Resize(img, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create icon directory: %w", err)
	}
	if err := imaging.Save(out, path); err != nil {
		return fmt.Errorf("failed to save icon: %w", err)
	}
	return nil
}
