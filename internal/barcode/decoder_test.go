package barcode

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader returns one canned answer per orientation attempt.
type scriptedReader struct {
	answers []struct {
		payload string
		err     error
	}
	calls int
}

func (s *scriptedReader) DecodeText(_ image.Image) (string, error) {
	i := s.calls
	s.calls++
	if i >= len(s.answers) {
		return "", errors.New("not found")
	}
	return s.answers[i].payload, s.answers[i].err
}

func photo() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{A: 255})
		}
	}
	return img
}

func TestExtractStopsAtFirstDecodableOrientation(t *testing.T) {
	notFound := errors.New("no code")
	r := &scriptedReader{}
	r.answers = []struct {
		payload string
		err     error
	}{
		{"", notFound},               // 0 degrees
		{"", notFound},               // 90 degrees
		{"serial 00765432 ok", nil},  // 180 degrees
		{"should never be hit", nil}, // 270 degrees
	}

	d := NewDecoderWithReader(r, nil)
	number, ok := d.Extract(photo())

	require.True(t, ok)
	assert.Equal(t, "00765432", number)
	assert.Equal(t, 3, r.calls, "270 degrees must not be attempted after a hit at 180")
}

func TestExtractSkipsPayloadWithoutDigitRun(t *testing.T) {
	r := &scriptedReader{}
	r.answers = []struct {
		payload string
		err     error
	}{
		{"https://example.com/asset?id=1234", nil}, // decodes, but no 8-digit run
		{"batch 99881122", nil},
	}

	d := NewDecoderWithReader(r, nil)
	number, ok := d.Extract(photo())

	require.True(t, ok)
	assert.Equal(t, "99881122", number)
	assert.Equal(t, 2, r.calls)
}

func TestExtractMiss(t *testing.T) {
	r := &scriptedReader{} // errors on every orientation
	d := NewDecoderWithReader(r, nil)

	number, ok := d.Extract(photo())

	assert.False(t, ok)
	assert.Empty(t, number)
	assert.Equal(t, 4, r.calls, "all four orientations are tried before giving up")
}

func TestExtractFindsRunInsideLongerNumber(t *testing.T) {
	r := &scriptedReader{}
	r.answers = []struct {
		payload string
		err     error
	}{
		{"0012345678", nil},
	}

	d := NewDecoderWithReader(r, nil)
	number, ok := d.Extract(photo())

	require.True(t, ok)
	assert.Equal(t, "00123456", number, "first 8-digit window wins")
}
