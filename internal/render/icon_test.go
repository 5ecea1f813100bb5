package render

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alpha tolerance for anti-aliased edges
const aaTolerance = 8

func missingFont(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "no-such-font.ttc")
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestRenderDimensionsAndCorners(t *testing.T) {
	r := NewRenderer(missingFont(t))

	for _, size := range []int{16, 32, 48, 180, 192, 512} {
		img, err := r.Render(size)
		require.NoError(t, err)

		assert.Equal(t, size, img.Bounds().Dx(), "width for %d", size)
		assert.Equal(t, size, img.Bounds().Dy(), "height for %d", size)

		last := size - 1
		for _, pt := range []image.Point{{0, 0}, {last, 0}, {0, last}, {last, last}} {
			assert.Zero(t, alphaAt(img, pt.X, pt.Y), "corner %v of %d", pt, size)
		}
		assert.NotZero(t, alphaAt(img, size/2, size/2), "center of %d", size)
	}
}

func TestRenderBackgroundInset(t *testing.T) {
	r := NewRenderer(missingFont(t))

	for _, size := range []int{16, 32, 48, 180, 192, 512} {
		img, err := r.Render(size)
		require.NoError(t, err)

		p := Padding(size)
		mid := size / 2
		// column left of the glyph and right of the corner arcs
		col := p + CornerRadius(size) + 1

		assert.LessOrEqual(t, alphaAt(img, p-1, mid), uint8(aaTolerance), "left margin %d", size)
		assert.GreaterOrEqual(t, alphaAt(img, p, mid), uint8(255-aaTolerance), "left edge %d", size)
		assert.GreaterOrEqual(t, alphaAt(img, size-p-1, mid), uint8(255-aaTolerance), "right edge %d", size)
		assert.LessOrEqual(t, alphaAt(img, size-p, mid), uint8(aaTolerance), "right margin %d", size)

		assert.LessOrEqual(t, alphaAt(img, col, p-1), uint8(aaTolerance), "top margin %d", size)
		assert.GreaterOrEqual(t, alphaAt(img, col, p), uint8(255-aaTolerance), "top edge %d", size)
		assert.GreaterOrEqual(t, alphaAt(img, col, size-p-1), uint8(255-aaTolerance), "bottom edge %d", size)
		assert.LessOrEqual(t, alphaAt(img, col, size-p), uint8(aaTolerance), "bottom margin %d", size)
	}
}

func TestRenderCornerRadius(t *testing.T) {
	r := NewRenderer(missingFont(t))

	for _, size := range []int{180, 512} {
		img, err := r.Render(size)
		require.NoError(t, err)

		p := Padding(size)
		radius := CornerRadius(size)

		outside := p + radius/4
		inside := p + radius/2
		assert.LessOrEqual(t, alphaAt(img, outside, outside), uint8(aaTolerance), "cut corner %d", size)
		assert.GreaterOrEqual(t, alphaAt(img, inside, inside), uint8(255-aaTolerance), "inside arc %d", size)
	}
}

func TestRenderDrawsGlyph(t *testing.T) {
	img, err := NewRenderer(missingFont(t)).Render(64)
	require.NoError(t, err)

	found := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == GlyphColor {
				found = true
				break
			}
		}
	}
	assert.True(t, found, "expected glyph pixels in the accent color")
}

func TestRenderIsDeterministic(t *testing.T) {
	r := NewRenderer(missingFont(t))

	a, err := r.Render(48)
	require.NoError(t, err)
	b, err := r.Render(48)
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
}

func TestRenderRejectsInvalidSize(t *testing.T) {
	r := NewRenderer(missingFont(t))

	_, err := r.Render(0)
	assert.Error(t, err)
	_, err = r.Render(-3)
	assert.Error(t, err)
}

func TestRenderReportsFallback(t *testing.T) {
	path := missingFont(t)
	r := NewRenderer(path)

	var calls int
	var gotPath string
	var gotErr error
	r.OnFallback = func(p string, err error) {
		calls++
		gotPath = p
		gotErr = err
	}

	_, err := r.Render(32)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, path, gotPath)
	assert.Error(t, gotErr)
}

func TestNewRendererDefaultsFontPath(t *testing.T) {
	assert.Equal(t, DefaultFontPath, NewRenderer("").FontPath)
}

func TestGlyphPositionUsesFloorDivision(t *testing.T) {
	// Glyph wider and taller than the canvas: floor division
	// must round toward negative infinity.
	pos := glyphPosition(10, image.Rect(0, 0, 13, 15))
	assert.Equal(t, image.Point{X: -2, Y: -3 - 1}, pos)

	pos = glyphPosition(512, image.Rect(0, 0, 6, 13))
	assert.Equal(t, image.Point{X: 253, Y: 249 - 51}, pos)
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 2, 3},
		{-7, 2, -4},
		{-6, 2, -3},
		{0, 2, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floorDiv(tt.a, tt.b), "floorDiv(%d, %d)", tt.a, tt.b)
	}
}

func TestRenderIconReportsFallbackPerCall(t *testing.T) {
	_, fallback, err := NewRenderer(missingFont(t)).RenderIcon(32)
	require.NoError(t, err)
	assert.True(t, fallback)
}
