// Package imaging normalizes uploaded photos to bounded-size WebP.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const ContentType = "image/webp"

var ErrUnsupportedFormat = errors.New("imaging: unsupported image format")

type Options struct {
	MaxDimension int     // maior lado, em pixels; 0 = sem limite
	Quality      float32 // 0-100
}

// Prepare decodes jpeg, png or webp, scales it down so neither side exceeds
// MaxDimension, and encodes it as lossy WebP.
func Prepare(r io.Reader, opts Options) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}

	img := fit(src, opts.MaxDimension)

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return src
	}

	nw, nh := maxDim, maxDim
	if w >= h {
		nh = max(1, h*maxDim/w)
	} else {
		nw = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
