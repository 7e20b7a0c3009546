package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestPrepareDownscales(t *testing.T) {
	out, err := Prepare(pngOf(t, 400, 200), Options{MaxDimension: 100, Quality: 70})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestPrepareKeepsSmallImages(t *testing.T) {
	out, err := Prepare(pngOf(t, 40, 60), Options{MaxDimension: 100})
	require.NoError(t, err)

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestPrepareRejectsNonImages(t *testing.T) {
	_, err := Prepare(strings.NewReader("definitely not an image"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
