// Package codec wraps the image libraries behind the three operations the
// thumbnail pipeline needs: decode, bounded resize and WebP encode.
package codec

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	// Registers WebP with image.Decode so imaging can read .webp sources.
	_ "golang.org/x/image/webp"
)

// Codec is the image capability the generator depends on.
type Codec interface {
	Decode(r io.Reader) (image.Image, error)
	Resize(img image.Image, maxWidth int) image.Image
	Encode(w io.Writer, img image.Image, quality int) error
}

// WebP decodes jpeg/png/webp sources and encodes lossy WebP.
type WebP struct{}

// Decode reads an image and applies its EXIF orientation.
func (WebP) Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Resize shrinks img to maxWidth keeping the aspect ratio. Images already
// at or below maxWidth are returned untouched.
func (WebP) Resize(img image.Image, maxWidth int) image.Image {
	return Fit(img, maxWidth)
}

// Encode writes img as lossy WebP at the given quality (0-100).
func (WebP) Encode(w io.Writer, img image.Image, quality int) error {
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(quality))
	if err != nil {
		return fmt.Errorf("invalid webp options: %w", err)
	}
	if err := webp.Encode(w, img, opts); err != nil {
		return fmt.Errorf("failed to encode webp: %w", err)
	}
	return nil
}

// Fit applies the no-upscale width policy with Lanczos resampling.
func Fit(img image.Image, maxWidth int) image.Image {
	if img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}
