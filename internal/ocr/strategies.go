package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/scooterfleet/assetbot/internal/vision"
)

// wholeImageStrategy recognizes all text on the photo in the configured
// languages and digs the identifier out of the digit groups. The printed
// format is "XXXX XXXX", so two 4-digit groups are the expected shape.
type wholeImageStrategy struct {
	cfg    Config
	runner Runner
}

func (s *wholeImageStrategy) Name() string { return "whole-image" }

func (s *wholeImageStrategy) Recognize(ctx context.Context, path string) (string, bool, error) {
	args := []string{path, "stdout", "-l", s.cfg.TesseractLang}
	if s.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", s.cfg.TessdataDir)
	}
	out, errb, err := s.runner.Run(ctx, s.cfg.Tesseract, args...)
	if err != nil {
		return "", false, fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	number, ok := numberFromGroups(string(out))
	return number, ok, nil
}

// digitsOnlyStrategy re-runs tesseract constrained to digits on a grayscale
// copy, in single-block mode. Slower to set up but much less noise on dirty
// equipment labels.
type digitsOnlyStrategy struct {
	cfg    Config
	runner Runner
}

func (s *digitsOnlyStrategy) Name() string { return "digits-only" }

func (s *digitsOnlyStrategy) Recognize(ctx context.Context, path string) (string, bool, error) {
	img, err := vision.Load(path)
	if err != nil {
		return "", false, err
	}
	tmpDir, err := os.MkdirTemp("", "ab-gray-*")
	if err != nil {
		return "", false, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()
	grayPath := filepath.Join(tmpDir, "gray.png")
	if err := imaging.Save(vision.Grayscale(img), grayPath); err != nil {
		return "", false, fmt.Errorf("save grayscale: %w", err)
	}

	args := []string{
		grayPath, "stdout",
		"--psm", "6",
		"-c", "tessedit_char_whitelist=0123456789",
	}
	if s.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", s.cfg.TessdataDir)
	}
	out, errb, err := s.runner.Run(ctx, s.cfg.Tesseract, args...)
	if err != nil {
		return "", false, fmt.Errorf("tesseract digits: %w (%s)", err, truncate(string(errb), 512))
	}
	number, ok := numberFromSpacedPair(string(out))
	return number, ok, nil
}
