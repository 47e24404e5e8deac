package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/scooterfleet/assetbot/constants"
)

// mainKeyboard is the persistent reply keyboard. Special workers get an
// extra top row with the export and table shortcuts.
func mainKeyboard(special bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		{
			tgbotapi.NewKeyboardButton(constants.ButtonSaveNote),
			tgbotapi.NewKeyboardButton(constants.ButtonDeleteNote),
		},
		{
			tgbotapi.NewKeyboardButton(constants.ButtonMyStats),
			tgbotapi.NewKeyboardButton(constants.ButtonMyShifts),
		},
		{
			tgbotapi.NewKeyboardButton(constants.ButtonContact),
			tgbotapi.NewKeyboardButton(constants.ButtonInfo),
		},
	}
	if special {
		rows = append([][]tgbotapi.KeyboardButton{{
			tgbotapi.NewKeyboardButton(constants.ButtonExport),
			tgbotapi.NewKeyboardButton(constants.ButtonTable),
		}}, rows...)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func returnKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		[]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(constants.ButtonReturn)},
	)
	kb.ResizeKeyboard = true
	return kb
}

func tableKeyboard(url string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Открыть таблицу", url),
		),
	)
}
