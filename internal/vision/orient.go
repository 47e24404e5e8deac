// Package vision prepares photos for recognition: grayscale conversion and
// the four cardinal orientations a hand-held photo may arrive in.
package vision

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Orientation is one rotation variant of the source photo.
type Orientation struct {
	Angle int
	Image *image.NRGBA
}

// Angles is the fixed sweep order for barcode decoding.
var Angles = []int{0, 90, 180, 270}

// Load reads an image from disk. A failure here means "no image" to the
// caller; there is no recovery path.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return img, nil
}

// Grayscale converts the photo to grayscale, the working representation for
// both decoding and OCR.
func Grayscale(src image.Image) *image.NRGBA {
	return imaging.Grayscale(src)
}

// Orientations returns the grayscale photo rotated by 0, 90, 180 and 270
// degrees about its center. Every variant keeps the original canvas size, so
// on non-square photos the 90/270 variants clip their corners. That mirrors
// how the codes are physically printed: the rotation is the phone's, not the
// label's, and the label stays near the center.
func Orientations(src image.Image) []Orientation {
	gray := Grayscale(src)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	out := make([]Orientation, 0, len(Angles))
	out = append(out, Orientation{Angle: 0, Image: gray})
	for _, angle := range Angles[1:] {
		rotated := imaging.Rotate(gray, float64(angle), color.NRGBA{})
		clipped := imaging.CropCenter(rotated, w, h)
		canvas := imaging.New(w, h, color.NRGBA{})
		out = append(out, Orientation{Angle: angle, Image: imaging.PasteCenter(canvas, clipped)})
	}
	return out
}
