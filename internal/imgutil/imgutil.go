// Package imgutil normalizes embedded email images to fixed print dimensions
// and samples edge colors for the template background gradient.
package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Sentinel errors for image operations.
var (
	ErrImageDecode = errors.New("failed to decode image")
	ErrImageEncode = errors.New("failed to encode image")
	ErrEmptyImage  = errors.New("image content is empty")
)

// Normalize scales src preserving aspect ratio, center-crops the overflow to
// exactly width x height, and re-encodes as PNG for inline embedding.
// The output always has the requested dimensions regardless of the source
// aspect ratio.
func Normalize(src []byte, width, height int) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrEmptyImage
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target dimensions %dx%d", width, height)
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	out := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageEncode, err)
	}
	return buf.Bytes(), nil
}

// EdgeColor averages the pixels of the image's left edge column and returns
// the result as a CSS hex color. The template derives its background gradient
// from this, replacing the pixel-sampling script the vendor email relies on.
func EdgeColor(src []byte) (string, error) {
	if len(src) == 0 {
		return "", ErrEmptyImage
	}

	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return "", ErrEmptyImage
	}

	var r, g, b uint64
	x := bounds.Min.X
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		cr, cg, cb, _ := img.At(x, y).RGBA()
		r += uint64(cr >> 8)
		g += uint64(cg >> 8)
		b += uint64(cb >> 8)
	}
	n := uint64(bounds.Dy())
	return fmt.Sprintf("#%02x%02x%02x", r/n, g/n, b/n), nil
}

// Decode exposes a format-agnostic decode for callers that only need pixel
// access.
func Decode(src []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, nil
}
