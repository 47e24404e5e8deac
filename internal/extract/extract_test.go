package extract

import (
	"context"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"embedded", "abc 00123456 def", "00123456", true},
		{"bare", "00123456", "00123456", true},
		{"first match wins", "00111111 and 00222222", "00111111", true},
		{"no leading zeros", "12345678", "", false},
		{"coincidental window", "99001234567", "00123456", true},
		{"too short", "0012345", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromText(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type stubDecoder struct {
	number string
	ok     bool
	calls  int
}

func (s *stubDecoder) Extract(image.Image) (string, bool) {
	s.calls++
	return s.number, s.ok
}

type stubRecognizer struct {
	number string
	ok     bool
	calls  int
}

func (s *stubRecognizer) Recognize(context.Context, string) (string, bool) {
	s.calls++
	return s.number, s.ok
}

func savedPhoto(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestFromPhotoRunsBothPaths(t *testing.T) {
	dec := &stubDecoder{number: "00765432", ok: true}
	rec := &stubRecognizer{number: "00999999", ok: true}
	e := NewExtractor(dec, rec, nil)

	res, err := e.FromPhoto(context.Background(), savedPhoto(t))
	require.NoError(t, err)

	assert.Equal(t, 1, dec.calls)
	assert.Equal(t, 1, rec.calls, "ocr runs even when the barcode already decoded")

	best, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, "00765432", best, "barcode result is preferred")
}

func TestFromPhotoFallsBackToOCR(t *testing.T) {
	dec := &stubDecoder{}
	rec := &stubRecognizer{number: "00999999", ok: true}
	e := NewExtractor(dec, rec, nil)

	res, err := e.FromPhoto(context.Background(), savedPhoto(t))
	require.NoError(t, err)

	best, ok := res.Best()
	require.True(t, ok)
	assert.Equal(t, "00999999", best)
}

func TestFromPhotoTotalMiss(t *testing.T) {
	e := NewExtractor(&stubDecoder{}, &stubRecognizer{}, nil)

	res, err := e.FromPhoto(context.Background(), savedPhoto(t))
	require.NoError(t, err)

	_, ok := res.Best()
	assert.False(t, ok)
}

func TestFromPhotoUnreadableImage(t *testing.T) {
	e := NewExtractor(&stubDecoder{}, &stubRecognizer{}, nil)

	_, err := e.FromPhoto(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}
