package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/scooterfleet/assetbot/internal/stats"
)

// Service renders the daily summary as an XLSX workbook for the export
// button, so the special workers get a file alongside the chat text.
type Service struct {
	engine *stats.Engine
	logger *slog.Logger
}

func NewService(engine *stats.Engine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{engine: engine, logger: logger}
}

// DailySummaryXLSX builds today's summary workbook (as bytes).
func (s *Service) DailySummaryXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	sum, err := s.engine.DailySummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Summary"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIndex, _ := f.GetSheetIndex("Sheet1"); defIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Работник", "Последняя отметка", "Всего", "Дубликаты"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, w := range sum.Workers {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, w.Name)
		write(2, w.Last)
		write(3, w.Total)
		write(4, w.Duplicates)
		row++
	}

	row++ // blank spacer before totals
	totals := [][2]any{
		{"Дата", sum.Date},
		{"Активных работников", sum.Active},
		{"Всего номеров", sum.Total},
		{"Всего дубликатов", sum.Duplicates},
	}
	for _, pair := range totals {
		cellA, _ := excelize.CoordinatesToCellName(1, row)
		cellB, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, cellA, pair[0])
		_ = f.SetCellValue(sheet, cellB, pair[1])
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // name
	_ = f.SetColWidth(sheet, "B", "B", 18) // timestamp
	_ = f.SetColWidth(sheet, "C", "D", 12) // counts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"date", sum.Date,
		"workers", len(sum.Workers),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
