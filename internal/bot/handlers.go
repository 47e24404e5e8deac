package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/scooterfleet/assetbot/constants"
	"github.com/scooterfleet/assetbot/internal/common"
	"github.com/scooterfleet/assetbot/internal/extract"
	"github.com/scooterfleet/assetbot/internal/shifts"
)

// selfTestNumber is what /test_append writes; it matches the typed-number
// shape so the full pipeline runs.
const selfTestNumber = "00000000"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.replyWithKeyboard(chatID, replyStart, mainKeyboard(b.deps.Roster.Special(from)))
	case "help":
		b.reply(chatID, replyHelp)
	case "status":
		b.reply(chatID, fmt.Sprintf("Бот работает. Таблица: %s", b.deps.TableURL))
	case "test_append":
		if from != b.deps.Roster.AdminID() {
			b.reply(chatID, replyDenied)
			return
		}
		b.handleAppend(ctx, chatID, from, selfTestNumber)
	default:
		b.reply(chatID, replyHelp)
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if text == constants.ButtonReturn {
		b.setAwaitingNote(chatID, false)
		b.replyWithKeyboard(chatID, replyReturned, mainKeyboard(b.deps.Roster.Special(from)))
		return
	}
	if b.takeAwaitingNote(chatID) {
		b.handleSaveNote(chatID, from, text)
		return
	}

	switch text {
	case constants.ButtonExport:
		b.handleExport(ctx, chatID, from)
	case constants.ButtonTable:
		b.handleTable(chatID, from)
	case constants.ButtonSaveNote:
		b.setAwaitingNote(chatID, true)
		b.replyWithKeyboard(chatID, replyNotePrompt, returnKeyboard())
	case constants.ButtonDeleteNote:
		b.handleDeleteNote(chatID)
	case constants.ButtonMyStats:
		b.handleMyStats(ctx, chatID, from)
	case constants.ButtonMyShifts:
		b.handleMyShifts(chatID, from)
	case constants.ButtonContact:
		b.handleContact(ctx, chatID, msg)
	case constants.ButtonInfo:
		b.reply(chatID, replyHelp)
	default:
		number, ok := extract.FromText(text)
		if !ok {
			b.reply(chatID, replyNoNumber)
			return
		}
		b.handleAppend(ctx, chatID, from, number)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From.ID
	chatID := msg.Chat.ID
	b.typing(chatID)

	// Telegram orders photo sizes ascending, the last one is the original.
	photo := msg.Photo[len(msg.Photo)-1]
	path, err := b.downloadPhoto(ctx, photo.FileID)
	if err != nil {
		b.logger.Error("photo download failed", "user_id", from, "error", err)
		b.reply(chatID, replyPhotoFailed)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			b.logger.Warn("temp photo cleanup failed", "path", path, "error", err)
		}
	}()

	res, err := b.deps.Extractor.FromPhoto(ctx, path)
	if err != nil {
		b.logger.Error("photo recognition failed", "user_id", from, "error", err)
		b.reply(chatID, replyPhotoFailed)
		return
	}
	number, ok := res.Best()
	if !ok {
		b.reply(chatID, replyPhotoMiss)
		return
	}
	b.handleAppend(ctx, chatID, from, number)
}

func (b *Bot) downloadPhoto(ctx context.Context, fileID string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := b.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download photo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download photo: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(b.deps.TempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	path := filepath.Join(b.deps.TempDir, uuid.NewString()+".jpg")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("save photo: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (b *Bot) handleAppend(ctx context.Context, chatID, workerID int64, number string) {
	b.typing(chatID)

	res, err := b.deps.Writer.Append(ctx, workerID, number)
	switch {
	case errors.Is(err, common.ErrUnmapped), errors.Is(err, common.ErrNotFound):
		b.reply(chatID, replyNotMapped)
		return
	case err != nil:
		b.reply(chatID, replyAppendFailed)
		return
	}

	if b.deps.Activity != nil {
		if err := b.deps.Activity.Touch(workerID, time.Now()); err != nil {
			b.logger.Warn("activity touch failed", "worker_id", workerID, "error", err)
		}
	}
	b.reply(chatID, appendReply(number, res))
}

func (b *Bot) handleExport(ctx context.Context, chatID, from int64) {
	if !b.deps.Roster.Special(from) {
		b.reply(chatID, replyDenied)
		return
	}
	b.typing(chatID)

	sum, err := b.deps.Stats.DailySummary(ctx)
	if err != nil {
		b.logger.Error("daily summary failed", "error", err)
		b.reply(chatID, replyAppendFailed)
		return
	}
	b.reply(chatID, summaryText(sum))

	raw, err := b.deps.Export.DailySummaryXLSX(ctx)
	if err != nil {
		b.logger.Error("xlsx export failed", "error", err)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("summary_%s.xlsx", sum.Date),
		Bytes: raw,
	})
	b.send(doc)
}

func (b *Bot) handleTable(chatID, from int64) {
	if !b.deps.Roster.Special(from) {
		b.reply(chatID, replyDenied)
		return
	}
	b.replyWithKeyboard(chatID, "Актуальная таблица:", tableKeyboard(b.deps.TableURL))
}

func (b *Bot) handleSaveNote(chatID, from int64, text string) {
	saved, err := b.deps.Notes.Save(text)
	if err != nil {
		b.logger.Error("note save failed", "user_id", from, "error", err)
		b.reply(chatID, replyAppendFailed)
		return
	}
	kb := mainKeyboard(b.deps.Roster.Special(from))
	if !saved {
		b.replyWithKeyboard(chatID, replyNoteDup, kb)
		return
	}
	b.replyWithKeyboard(chatID, replyNoteSaved, kb)
}

func (b *Bot) handleDeleteNote(chatID int64) {
	removed, err := b.deps.Notes.DeleteLast()
	if err != nil {
		b.logger.Error("note delete failed", "error", err)
		b.reply(chatID, replyAppendFailed)
		return
	}
	if !removed {
		b.reply(chatID, replyNoteEmpty)
		return
	}
	b.reply(chatID, replyNoteDeleted)
}

func (b *Bot) handleMyStats(ctx context.Context, chatID, from int64) {
	b.typing(chatID)
	p, err := b.deps.Stats.Personal(ctx, from)
	if err != nil {
		if errors.Is(err, common.ErrUnmapped) || errors.Is(err, common.ErrNotFound) {
			b.reply(chatID, replyNotMapped)
			return
		}
		b.logger.Error("personal stats failed", "user_id", from, "error", err)
		b.reply(chatID, replyAppendFailed)
		return
	}
	b.reply(chatID, personalText(p))
}

func (b *Bot) handleMyShifts(chatID, from int64) {
	days, err := b.deps.Calendar.Week(from)
	if err != nil {
		b.logger.Error("shift calendar failed", "user_id", from, "error", err)
		b.reply(chatID, replyAppendFailed)
		return
	}
	b.reply(chatID, "📅 График:\n"+shifts.Render(days))
}

func (b *Bot) handleContact(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	name := msg.From.UserName
	if name == "" {
		name = msg.From.FirstName
	}
	alert := fmt.Sprintf("worker contact request: id=%d @%s", msg.From.ID, name)
	notifier := NewAdminNotifier(b.api, b.deps.Roster.AdminID())
	if err := notifier.NotifyAdmin(ctx, alert); err != nil {
		b.logger.Error("contact relay failed", "error", err)
	}
	b.reply(chatID, replyContactSent)
}
