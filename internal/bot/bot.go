// Package bot is the Telegram gateway: long-poll loop, allow-list gate, and
// the dispatch from chat updates to the ledger, stats, notes and shifts
// services.
package bot

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/scooterfleet/assetbot/internal/export"
	"github.com/scooterfleet/assetbot/internal/extract"
	"github.com/scooterfleet/assetbot/internal/ledger"
	"github.com/scooterfleet/assetbot/internal/notes"
	"github.com/scooterfleet/assetbot/internal/roster"
	"github.com/scooterfleet/assetbot/internal/shifts"
	"github.com/scooterfleet/assetbot/internal/stats"
)

// API is the slice of the Telegram client the handlers need; kept narrow so
// tests can stub it.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Deps struct {
	Roster    *roster.Roster
	Writer    *ledger.Writer
	Extractor *extract.Extractor
	Stats     *stats.Engine
	Export    *export.Service
	Notes     *notes.Store
	Calendar  *shifts.Calendar
	Activity  *shifts.ActivityStore
	TableURL  string
	TempDir   string
}

type Bot struct {
	api    API
	deps   Deps
	http   *http.Client
	logger *slog.Logger

	mu           sync.Mutex
	awaitingNote map[int64]bool
}

func New(api API, deps Deps, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:          api,
		deps:         deps,
		http:         &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
		awaitingNote: make(map[int64]bool),
	}
}

// Run pumps the long-poll channel into the worker queue until the context
// is cancelled or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel, queue *UpdateQueue) {
	b.logger.Info("bot.run.start")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot.run.stop", "reason", ctx.Err())
			return
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("bot.run.stop", "reason", "updates channel closed")
				return
			}
			queue.Enqueue(update)
		}
	}
}

// Dispatch handles one update. It implements Dispatcher.
func (b *Bot) Dispatch(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	from := msg.From.ID

	if !b.deps.Roster.Allowed(from) {
		b.logger.Warn("unauthorized access",
			"user_id", from,
			"username", msg.From.UserName,
			"text", msg.Text,
		)
		b.reply(msg.Chat.ID, replyDenied)
		return
	}

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, msg)
	case len(msg.Photo) > 0:
		b.handlePhoto(ctx, msg)
	case msg.Text != "":
		b.handleText(ctx, msg)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, kb interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	b.send(msg)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("telegram send failed", "error", err)
	}
}

func (b *Bot) typing(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.logger.Debug("chat action failed", "error", err)
	}
}

func (b *Bot) setAwaitingNote(chatID int64, v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v {
		b.awaitingNote[chatID] = true
	} else {
		delete(b.awaitingNote, chatID)
	}
}

func (b *Bot) takeAwaitingNote(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.awaitingNote[chatID] {
		delete(b.awaitingNote, chatID)
		return true
	}
	return false
}
