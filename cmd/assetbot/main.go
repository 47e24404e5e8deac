package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/scooterfleet/assetbot/internal/barcode"
	"github.com/scooterfleet/assetbot/internal/bot"
	"github.com/scooterfleet/assetbot/internal/common"
	"github.com/scooterfleet/assetbot/internal/export"
	"github.com/scooterfleet/assetbot/internal/extract"
	"github.com/scooterfleet/assetbot/internal/ledger"
	"github.com/scooterfleet/assetbot/internal/notes"
	"github.com/scooterfleet/assetbot/internal/ocr"
	"github.com/scooterfleet/assetbot/internal/roster"
	"github.com/scooterfleet/assetbot/internal/sheets"
	"github.com/scooterfleet/assetbot/internal/shifts"
	"github.com/scooterfleet/assetbot/internal/stats"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := roster.Load(cfg.Bot.RosterPath)
	if err != nil {
		logger.Error("roster load failed", "path", cfg.Bot.RosterPath, "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Sheets.Timezone)
	if err != nil {
		logger.Error("unknown timezone", "tz", cfg.Sheets.Timezone, "error", err)
		os.Exit(1)
	}

	table, err := sheets.New(ctx, sheets.Config{
		CredentialsPath: cfg.Sheets.CredentialsPath,
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		SheetName:       cfg.Sheets.SheetName,
		SheetURL:        cfg.Sheets.SheetURL,
	}, logger)
	if err != nil {
		logger.Error("sheets client failed", "error", err)
		os.Exit(1)
	}

	// Periodic re-auth keeps the service handle fresh across credential
	// rotations; a failed refresh keeps the old handle and tries again.
	go func() {
		ticker := time.NewTicker(cfg.Sheets.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := table.Refresh(ctx); err != nil {
					logger.Error("sheets refresh failed", "error", err)
				}
			}
		}
	}()

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logger.Error("telegram auth failed", "error", err)
		os.Exit(1)
	}
	logger.Info("telegram authorized", "bot", api.Self.UserName)

	notifier := bot.NewAdminNotifier(api, r.AdminID())
	writer := ledger.NewWriter(table, r, notifier, loc, logger)
	engine := stats.NewEngine(table, r, loc, logger)

	recognizer := ocr.NewRecognizer(ocr.Config{
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
	}, logger)
	extractor := extract.NewExtractor(barcode.NewDecoder(logger), recognizer, logger)

	activity := shifts.NewActivityStore(cfg.Storage.ActivityPath)
	calendar := shifts.NewCalendar(cfg.Storage.ShiftsPath, activity, loc, logger)
	if err := calendar.Load(); err != nil {
		logger.Error("shift schedule load failed", "path", cfg.Storage.ShiftsPath, "error", err)
		os.Exit(1)
	}

	gateway := bot.New(api, bot.Deps{
		Roster:    r,
		Writer:    writer,
		Extractor: extractor,
		Stats:     engine,
		Export:    export.NewService(engine, logger),
		Notes:     notes.NewStore(cfg.Storage.NotesDir, logger),
		Calendar:  calendar,
		Activity:  activity,
		TableURL:  table.URL(),
		TempDir:   cfg.Storage.TempDir,
	}, logger)

	queue := bot.NewUpdateQueue(gateway, logger,
		bot.WithWorkers(cfg.Queue.Workers),
		bot.WithQueueSize(cfg.Queue.Size),
		bot.WithTaskTimeout(cfg.Queue.TaskTimeout),
	)

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = cfg.Bot.UpdateTimeout
	updates := api.GetUpdatesChan(updateCfg)

	gateway.Run(ctx, updates, queue)

	api.StopReceivingUpdates()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
