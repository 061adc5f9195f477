// Package images prepares raster images embedded in manuscripts for output.
package images

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Optimize decodes an embedded image and prepares it for inclusion in the
// print HTML: images wider than maxWidth pixels are downscaled, opaque
// images are re-encoded as JPEG with the given quality, everything else is
// kept as PNG to preserve transparency. Returns prepared data and its mime
// type.
func Optimize(data []byte, maxWidth, quality int) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode image: %w", err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	if isOpaque(img) {
		buf := new(bytes.Buffer)
		if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, "", fmt.Errorf("unable to encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", nil
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, "", fmt.Errorf("unable to encode png: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}

// isOpaque reports whether img has no transparent pixels.
// NOTE: may be slow for large images, if speed becomes a problem it could be
// optimized with per-format fast paths.
func isOpaque(img image.Image) bool {
	type opaquer interface {
		Opaque() bool
	}
	if o, ok := img.(opaquer); ok {
		return o.Opaque()
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
