package constants

// Reply-keyboard button labels. Matching is exact, so these strings are the
// protocol between the keyboard and the dispatcher.
const (
	ButtonExport     = "📤 Выгрузка"
	ButtonTable      = "📊 Таблица"
	ButtonReturn     = "🔙 Вернуться"
	ButtonSaveNote   = "💾 Сохранить заметку"
	ButtonDeleteNote = "❌ Удалить последнюю заметку"
	ButtonMyStats    = "📈 Моя статистика"
	ButtonMyShifts   = "📅 Мой график"
	ButtonContact    = "🆘 Связь с админом"
	ButtonInfo       = "ℹ️ Инфо"
)
