package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPhoto(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{A: 255})
		}
	}
	return img
}

func TestOrientationsOrderAndCanvas(t *testing.T) {
	src := testPhoto(6, 4)
	variants := Orientations(src)
	require.Len(t, variants, 4)

	var angles []int
	for _, v := range variants {
		angles = append(angles, v.Angle)
		b := v.Image.Bounds()
		assert.Equal(t, 6, b.Dx(), "canvas width must survive rotation by %d", v.Angle)
		assert.Equal(t, 4, b.Dy(), "canvas height must survive rotation by %d", v.Angle)
	}
	assert.Equal(t, []int{0, 90, 180, 270}, angles)
}

func TestOrientations180MovesPixels(t *testing.T) {
	src := testPhoto(6, 4)
	src.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	variants := Orientations(src)
	rotated := variants[2]
	require.Equal(t, 180, rotated.Angle)

	// (1,1) lands on (w-1-1, h-1-1) after a half turn about the center.
	r, _, _, _ := rotated.Image.At(4, 2).RGBA()
	assert.NotZero(t, r, "marked pixel should move to the mirrored position")
	r0, _, _, _ := rotated.Image.At(1, 1).RGBA()
	assert.Zero(t, r0, "original position should be dark after rotation")
}
