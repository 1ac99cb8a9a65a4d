package render_test

import (
	"encoding/binary"
	"image/color"
	"path/filepath"
	"testing"

	"cialist/internal/render"
	"cialist/pkg/testutils"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGB565(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0xFF}, render.RGB565(0xF800))
	assert.Equal(t, color.NRGBA{G: 0xFF, A: 0xFF}, render.RGB565(0x07E0))
	assert.Equal(t, color.NRGBA{B: 0xFF, A: 0xFF}, render.RGB565(0x001F))
	assert.Equal(t, color.NRGBA{A: 0xFF}, render.RGB565(0))
}

func TestTiledIndex(t *testing.T) {
	// Morton order inside the first tile
	assert.Equal(t, 0, render.TiledIndex(0, 0, 16))
	assert.Equal(t, 1, render.TiledIndex(1, 0, 16))
	assert.Equal(t, 2, render.TiledIndex(0, 1, 16))
	assert.Equal(t, 3, render.TiledIndex(1, 1, 16))
	assert.Equal(t, 4, render.TiledIndex(2, 0, 16))
	assert.Equal(t, 63, render.TiledIndex(7, 7, 16))
	// Second tile of the first row, then first tile of the second row
	assert.Equal(t, 64, render.TiledIndex(8, 0, 16))
	assert.Equal(t, 128, render.TiledIndex(0, 8, 16))
}

func TestDecodeTiled(t *testing.T) {
	pixels := make([]byte, 16*16*2)
	// Mark the pixel stored at index 64 (top-left of the second tile) red
	binary.LittleEndian.PutUint16(pixels[64*2:], 0xF800)

	img, err := render.Decode(pixels, 16, 16, render.LayoutTiled, render.FormatRGB565)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0xFF}, img.NRGBAAt(8, 0))
	assert.Equal(t, color.NRGBA{A: 0xFF}, img.NRGBAAt(0, 0))

	linear, err := render.Decode(pixels, 16, 16, render.LayoutLinear, render.FormatRGB565)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xFF, A: 0xFF}, linear.NRGBAAt(0, 4))
}

func TestDecodeErrors(t *testing.T) {
	_, err := render.Decode(make([]byte, 10), 48, 48, render.LayoutTiled, render.FormatRGB565)
	assert.ErrorIs(t, err, render.ErrShortPixels)

	_, err = render.Decode(make([]byte, 20*20*2), 20, 20, render.LayoutTiled, render.FormatRGB565)
	assert.ErrorIs(t, err, render.ErrBadDimensions)

	_, err = render.Decode(nil, 0, 8, render.LayoutLinear, render.FormatRGB565)
	assert.ErrorIs(t, err, render.ErrBadDimensions)

	_, err = render.Decode(nil, 8, 8, render.LayoutLinear, render.PixelFormat(9))
	assert.ErrorIs(t, err, render.ErrUnsupportedFormat)
}

func TestStoreLifecycle(t *testing.T) {
	store := render.NewStore()
	icon := testutils.TiledIcon(0x07E0)

	a, err := store.LoadIcon(icon, 48, 48, render.LayoutTiled, render.FormatRGB565)
	require.NoError(t, err)
	b, err := store.LoadIcon(icon, 48, 48, render.LayoutTiled, render.FormatRGB565)
	require.NoError(t, err)
	assert.NotEqual(t, render.Texture(0), a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, store.Live())

	img, ok := store.Image(a)
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{G: 0xFF, A: 0xFF}, img.NRGBAAt(47, 47))

	store.UnloadIcon(a)
	store.UnloadIcon(a)
	store.UnloadIcon(render.Texture(999))
	assert.Equal(t, 1, store.Live())
	assert.Equal(t, 1, store.Unloads())
}

func TestStoreLimit(t *testing.T) {
	store := render.NewStore()
	store.Limit = 1
	icon := testutils.TiledIcon(0)

	_, err := store.LoadIcon(icon, 48, 48, render.LayoutTiled, render.FormatRGB565)
	require.NoError(t, err)
	_, err = store.LoadIcon(icon, 48, 48, render.LayoutTiled, render.FormatRGB565)
	assert.ErrorIs(t, err, render.ErrTextureLimit)
	assert.Equal(t, 1, store.Live())
}

func TestExport(t *testing.T) {
	store := render.NewStore()
	tex, err := store.LoadIcon(testutils.TiledIcon(0x001F), 48, 48, render.LayoutTiled, render.FormatRGB565)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "icons", "a.png")
	require.NoError(t, store.Export(tex, path, 2))

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 96, img.Bounds().Dx())
	assert.Equal(t, 96, img.Bounds().Dy())

	assert.Error(t, store.Export(render.Texture(42), path, 1))
}
