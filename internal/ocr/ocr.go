// Package ocr recognizes the printed 8-digit identifier when barcode
// decoding fails. Recognition shells out to the tesseract binary; the
// Runner seam keeps tests away from exec.
package ocr

import (
	"context"
	"log/slog"
)

type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "rus+eng"
	TessdataDir   string
}

// Strategy is one recognition attempt. ok=false is a miss, not a failure;
// err is reserved for infrastructure problems (exec, temp files) and is
// logged by the orchestrator, never surfaced to the caller.
type Strategy interface {
	Name() string
	Recognize(ctx context.Context, path string) (string, bool, error)
}

// Recognizer runs its strategies in order and returns the first hit.
type Recognizer struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewRecognizer(cfg Config, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "rus+eng"
	}
	runner := execRunner{}
	return &Recognizer{
		strategies: []Strategy{
			&wholeImageStrategy{cfg: cfg, runner: runner},
			&digitsOnlyStrategy{cfg: cfg, runner: runner},
		},
		logger: logger,
	}
}

// NewRecognizerWithStrategies is the test seam.
func NewRecognizerWithStrategies(logger *slog.Logger, strategies ...Strategy) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{strategies: strategies, logger: logger}
}

// Recognize returns the identifier found by the first successful strategy.
// Both strategies missing is reported as (_, false); nothing here raises.
func (r *Recognizer) Recognize(ctx context.Context, path string) (string, bool) {
	for _, s := range r.strategies {
		number, ok, err := s.Recognize(ctx, path)
		if err != nil {
			r.logger.Error("ocr strategy failed", "strategy", s.Name(), "error", err)
			continue
		}
		if ok {
			r.logger.Info("ocr.recognize.ok", "strategy", s.Name(), "number", number)
			return number, true
		}
		r.logger.Debug("ocr strategy miss", "strategy", s.Name())
	}
	r.logger.Info("ocr.recognize.miss")
	return "", false
}
