package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// AdminNotifier delivers alerts to the admin chat. It implements
// ledger.Notifier.
type AdminNotifier struct {
	api     sender
	adminID int64
}

func NewAdminNotifier(api sender, adminID int64) *AdminNotifier {
	return &AdminNotifier{api: api, adminID: adminID}
}

func (n *AdminNotifier) NotifyAdmin(_ context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.adminID, "[ADMIN ALERT] "+text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("notify admin: %w", err)
	}
	return nil
}
