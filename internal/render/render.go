// Package render turns icon pixel data into texture handles a UI can draw.
package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
)

// Texture identifies a loaded icon. The zero value is no texture.
type Texture uint32

// Layout is the arrangement of pixels in the source data
type Layout int

const (
	LayoutLinear Layout = iota
	// LayoutTiled stores 8x8 tiles row by row, pixels in Morton order
	// within each tile
	LayoutTiled
)

// PixelFormat is the encoding of one source pixel
type PixelFormat int

const (
	FormatRGB565 PixelFormat = iota
)

func (f PixelFormat) bytesPerPixel() int {
	switch f {
	case FormatRGB565:
		return 2
	}
	return 0
}

var (
	ErrBadDimensions     = errors.New("render: bad dimensions")
	ErrShortPixels       = errors.New("render: not enough pixel data")
	ErrUnsupportedFormat = errors.New("render: unsupported pixel format")
	ErrTextureLimit      = errors.New("render: texture limit reached")
)

// Renderer loads icons into textures and releases them
type Renderer interface {
	LoadIcon(pixels []byte, width, height int, layout Layout, format PixelFormat) (Texture, error)
	UnloadIcon(tex Texture)
}

// Store is an in-memory Renderer. Loaded icons are kept as images so they
// can be drawn or exported.
type Store struct {
	// Limit caps the number of live textures; zero means no limit
	Limit int

	mu       sync.Mutex
	next     Texture
	textures map[Texture]*image.NRGBA
	unloads  int
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{textures: make(map[Texture]*image.NRGBA)}
}

// LoadIcon decodes pixels and returns a new texture for them
func (s *Store) LoadIcon(pixels []byte, width, height int, layout Layout, format PixelFormat) (Texture, error) {
	img, err := Decode(pixels, width, height, layout, format)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.textures == nil {
		s.textures = make(map[Texture]*image.NRGBA)
	}
	if s.Limit > 0 && len(s.textures) >= s.Limit {
		return 0, ErrTextureLimit
	}
	s.next++
	s.textures[s.next] = img
	return s.next, nil
}

// UnloadIcon releases tex. Unknown textures are ignored.
func (s *Store) UnloadIcon(tex Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.textures[tex]; ok {
		delete(s.textures, tex)
		s.unloads++
	}
}

// Live returns the number of loaded textures
func (s *Store) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.textures)
}

// Unloads returns how many textures have been released
func (s *Store) Unloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unloads
}

// Image returns the decoded icon behind tex
func (s *Store) Image(tex Texture) (*image.NRGBA, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.textures[tex]
	return img, ok
}

// Decode converts raw pixel data into an image
func Decode(pixels []byte, width, height int, layout Layout, format PixelFormat) (*image.NRGBA, error) {
	bpp := format.bytesPerPixel()
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	if layout == LayoutTiled && (width%8 != 0 || height%8 != 0) {
		return nil, fmt.Errorf("%w: %dx%d is not a multiple of the tile size", ErrBadDimensions, width, height)
	}
	if len(pixels) < width*height*bpp {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrShortPixels, len(pixels), width*height*bpp)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if layout == LayoutTiled {
				idx = TiledIndex(x, y, width)
			}
			v := binary.LittleEndian.Uint16(pixels[idx*bpp:])
			img.SetNRGBA(x, y, RGB565(v))
		}
	}
	return img, nil
}

// TiledIndex returns the pixel index of (x, y) in tiled data of the given width
func TiledIndex(x, y, width int) int {
	tile := (y/8)*(width/8) + x/8
	return tile*64 + morton(x%8, y%8)
}

// morton interleaves the bits of x and y within an 8x8 tile
func morton(x, y int) int {
	return x&1 | (y&1)<<1 | (x&2)<<1 | (y&2)<<2 | (x&4)<<2 | (y&4)<<3
}

// RGB565 expands a packed 5-6-5 pixel to an opaque color
func RGB565(v uint16) color.NRGBA {
	r := uint8(v>>11) & 0x1F
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return color.NRGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}
