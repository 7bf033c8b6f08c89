// Package media re-encodes uploaded images before they are handed to the
// storage provider.
package media

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// MaxDimension bounds the longest edge of a stored image.
	MaxDimension = 800
	// JPEGQuality is the re-encode quality.
	JPEGQuality = 80
)

// Process decodes an uploaded image, bounds it to MaxDimension on the longest
// edge preserving aspect ratio (never upscaling), and re-encodes it as JPEG.
func Process(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
