package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberFromGroups(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"two groups", "SN 0076 5432 assembled 2024", "00765432", true},
		{"groups win over noise", "line1\n1234 abc\n5678 def\n9999", "12345678", true},
		{"takes first two of many", "1111 2222 3333", "11112222", true},
		{"fallback contiguous run", "serial:00765432 (v2)", "00765432", true},
		{"run joined across lines", "0076\n5432 is split oddly", "00765432", true},
		{"long run window", "123456789", "12345678", true},
		{"five digit groups do not pair", "12345 67890", "", false},
		{"nothing", "no digits here", "", false},
		{"too short", "123 45 67", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numberFromGroups(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumberFromSpacedPair(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"spaced", "0076 5432", "00765432", true},
		{"glued", "00765432", "00765432", true},
		{"split across lines", "0076\n5432", "00765432", true},
		{"with noise rows", "4\n0076  5432\n77", "00765432", true},
		{"miss", "123 456", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numberFromSpacedPair(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

type stubStrategy struct {
	name   string
	number string
	ok     bool
	err    error
	calls  int
}

func (s *stubStrategy) Name() string { return s.name }
func (s *stubStrategy) Recognize(context.Context, string) (string, bool, error) {
	s.calls++
	return s.number, s.ok, s.err
}

func TestRecognizerFirstHitWins(t *testing.T) {
	first := &stubStrategy{name: "a", number: "00111111", ok: true}
	second := &stubStrategy{name: "b", number: "00222222", ok: true}
	r := NewRecognizerWithStrategies(nil, first, second)

	number, ok := r.Recognize(context.Background(), "photo.jpg")

	require.True(t, ok)
	assert.Equal(t, "00111111", number)
	assert.Zero(t, second.calls, "later strategies must not run after a hit")
}

func TestRecognizerFallsThroughErrorsAndMisses(t *testing.T) {
	broken := &stubStrategy{name: "a", err: errors.New("exec: not found")}
	miss := &stubStrategy{name: "b"}
	hit := &stubStrategy{name: "c", number: "00333333", ok: true}
	r := NewRecognizerWithStrategies(nil, broken, miss, hit)

	number, ok := r.Recognize(context.Background(), "photo.jpg")

	require.True(t, ok)
	assert.Equal(t, "00333333", number)
}

func TestRecognizerTotalMiss(t *testing.T) {
	r := NewRecognizerWithStrategies(nil, &stubStrategy{name: "a"}, &stubStrategy{name: "b"})

	number, ok := r.Recognize(context.Background(), "photo.jpg")

	assert.False(t, ok)
	assert.Empty(t, number)
}

// fakeRunner replays canned tesseract output and records the invocation.
type fakeRunner struct {
	stdout string
	err    error
	name   string
	args   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.name = name
	f.args = args
	return []byte(f.stdout), nil, f.err
}

func TestWholeImageStrategyInvokesTesseract(t *testing.T) {
	runner := &fakeRunner{stdout: "АКБ 0076 5432\nсклад 3"}
	s := &wholeImageStrategy{cfg: Config{Tesseract: "tesseract", TesseractLang: "rus+eng"}, runner: runner}

	number, ok, err := s.Recognize(context.Background(), "photo.jpg")

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "00765432", number)
	assert.Equal(t, "tesseract", runner.name)
	assert.Equal(t, []string{"photo.jpg", "stdout", "-l", "rus+eng"}, runner.args)
}

func TestDigitsOnlyStrategyWhitelistsDigits(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, imaging.Save(src, path))

	runner := &fakeRunner{stdout: "0076 5432\n"}
	s := &digitsOnlyStrategy{cfg: Config{Tesseract: "tesseract", TesseractLang: "rus+eng"}, runner: runner}

	number, ok, err := s.Recognize(context.Background(), path)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "00765432", number)
	assert.Contains(t, runner.args, "--psm")
	assert.Contains(t, runner.args, "tessedit_char_whitelist=0123456789")
}
