package extract

import (
	"context"
	"image"
)

// BarcodeDecoder is the structured path: orientation sweep + payload scan.
type BarcodeDecoder interface {
	Extract(img image.Image) (string, bool)
}

// Recognizer is the OCR fallback over the saved photo.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, bool)
}
