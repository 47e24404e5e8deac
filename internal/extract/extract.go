// Package extract turns free text or a photographed label into a validated
// 8-digit asset identifier.
package extract

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/scooterfleet/assetbot/internal/vision"
)

// Typed identifiers always start with "00"; the remaining six digits vary.
var reTyped = regexp.MustCompile(`00\d{6}`)

// FromText validates free-typed input. First match wins; no fallback.
func FromText(text string) (string, bool) {
	match := reTyped.FindString(text)
	return match, match != ""
}

// PhotoResult carries both recognition outcomes so the caller can apply its
// preference. Empty string means that path found nothing.
type PhotoResult struct {
	Barcode string
	OCR     string
}

// Best prefers the structured barcode result over OCR.
func (r PhotoResult) Best() (string, bool) {
	if r.Barcode != "" {
		return r.Barcode, true
	}
	if r.OCR != "" {
		return r.OCR, true
	}
	return "", false
}

// Extractor orchestrates the photo path: barcode decode and OCR both run,
// unconditionally, and both results are returned. (An earlier bot revision
// short-circuited OCR on barcode success; this one keeps the later behavior
// so a barcode misread can be compared against the printed digits in logs.)
type Extractor struct {
	decoder    BarcodeDecoder
	recognizer Recognizer
	logger     *slog.Logger
}

func NewExtractor(decoder BarcodeDecoder, recognizer Recognizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{decoder: decoder, recognizer: recognizer, logger: logger}
}

// FromPhoto runs both recognition paths over the saved photo. The only
// error is an unreadable image; recognition misses are empty fields.
func (e *Extractor) FromPhoto(ctx context.Context, path string) (PhotoResult, error) {
	img, err := vision.Load(path)
	if err != nil {
		return PhotoResult{}, err
	}

	var res PhotoResult
	if number, ok := e.decoder.Extract(img); ok {
		res.Barcode = number
	}
	if number, ok := e.recognizer.Recognize(ctx, path); ok {
		res.OCR = number
	}

	if res.Barcode != "" && res.OCR != "" && res.Barcode != res.OCR {
		e.logger.Warn("barcode and ocr disagree", "barcode", res.Barcode, "ocr", res.OCR)
	}
	e.logger.Info("extract.photo.done", "barcode", res.Barcode, "ocr", res.OCR)
	return res, nil
}
