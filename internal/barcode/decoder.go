// Package barcode extracts an 8-digit identifier from a 2-D barcode
// photographed at an unknown rotation.
package barcode

import (
	"image"
	"log/slog"
	"regexp"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/scooterfleet/assetbot/internal/vision"
)

var reDigitRun = regexp.MustCompile(`\d{8}`)

// Reader decodes one barcode payload from an image. It exists so the
// orientation sweep can be tested without real barcodes.
type Reader interface {
	DecodeText(img image.Image) (string, error)
}

type zxingReader struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

func newZXingReader() *zxingReader {
	return &zxingReader{
		readers: []gozxing.Reader{
			qrcode.NewQRCodeReader(),
			datamatrix.NewDataMatrixReader(),
		},
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

func (r *zxingReader) DecodeText(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}
	var lastErr error
	for _, reader := range r.readers {
		res, err := reader.Decode(bmp, r.hints)
		if err == nil {
			return res.GetText(), nil
		}
		lastErr = err
	}
	return "", lastErr
}

// Decoder sweeps the four orientations in a fixed order and returns the
// first 8-digit run found in a decoded payload.
type Decoder struct {
	reader Reader
	logger *slog.Logger
}

func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{reader: newZXingReader(), logger: logger}
}

// NewDecoderWithReader is the test seam.
func NewDecoderWithReader(r Reader, logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{reader: r, logger: logger}
}

// Extract tries 0, 90, 180 and 270 degrees in that order and stops at the
// first orientation whose payload contains an 8-digit run. A miss is a
// normal outcome, not an error: the caller falls back to OCR.
func (d *Decoder) Extract(src image.Image) (string, bool) {
	for _, o := range vision.Orientations(src) {
		payload, err := d.reader.DecodeText(o.Image)
		if err != nil {
			continue
		}
		if number := reDigitRun.FindString(payload); number != "" {
			d.logger.Info("barcode.decode.ok", "number", number, "angle", o.Angle)
			return number, true
		}
		d.logger.Debug("barcode payload had no 8-digit run", "angle", o.Angle, "payload_len", len(payload))
	}
	d.logger.Info("barcode.decode.miss")
	return "", false
}
