package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/scooterfleet/assetbot/internal/ledger"
	"github.com/scooterfleet/assetbot/internal/stats"
)

const (
	replyDenied       = "Доступ запрещён."
	replyStart        = "Привет! Отправь номер самоката (8 цифр) текстом или фото наклейки."
	replyHelp         = "Отправь номер текстом (например 00123456) или сфотографируй наклейку с QR-кодом. Кнопки внизу: заметки, статистика, график."
	replyNoNumber     = "Не нашёл номер. Нужно 8 цифр, начинается с 00."
	replyPhotoMiss    = "Не смог распознать номер на фото. Попробуй снять ближе и без бликов."
	replyPhotoFailed  = "Не получилось обработать фото, попробуй ещё раз."
	replyAppendFailed = "Не удалось записать номер в таблицу. Админ уже в курсе, попробуй позже."
	replyNotMapped    = "За тобой не закреплены колонки в таблице. Напиши админу."
	replyNotePrompt   = "Напиши текст заметки одним сообщением."
	replyNoteSaved    = "Заметка сохранена."
	replyNoteDup      = "Такая заметка уже есть."
	replyNoteDeleted  = "Последняя заметка удалена."
	replyNoteEmpty    = "Заметок нет."
	replyContactSent  = "Передал админу, он свяжется с тобой."
	replyReturned     = "Главное меню."
)

var weekdayName = map[time.Weekday]string{
	time.Monday:    "понедельник",
	time.Tuesday:   "вторник",
	time.Wednesday: "среда",
	time.Thursday:  "четверг",
	time.Friday:    "пятница",
	time.Saturday:  "суббота",
	time.Sunday:    "воскресенье",
}

func appendReply(number string, res ledger.AppendResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s записан (строка %d, %s).", number, res.Row, res.Timestamp)
	if res.Duplicate {
		fmt.Fprintf(&b, "\n⚠️ Этот номер уже есть в строке %d, отмечен красным.", res.DuplicateRow)
	}
	return b.String()
}

func personalText(p stats.Personal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 %s\n", p.Name)
	fmt.Fprintf(&b, "Сегодня: %d", p.Today)
	if p.TodayDuplicates > 0 {
		fmt.Fprintf(&b, " (дубликатов: %d)", p.TodayDuplicates)
	}
	b.WriteString("\n")
	if p.LastToday != "" {
		fmt.Fprintf(&b, "Последняя отметка: %s\n", p.LastToday)
	}
	fmt.Fprintf(&b, "За 7 дней: %d\n", p.WeekCount)
	if p.WeekCount > 0 {
		fmt.Fprintf(&b, "Лучший день недели: %s (%d)\n", weekdayName[p.BestWeekday], p.BestWeekdayHits)
		fmt.Fprintf(&b, "В среднем за смену: %.1f\n", p.AvgPerActiveDay)
	}
	fmt.Fprintf(&b, "Всего: %d", p.AllTime)
	if p.FirstEver != "" {
		fmt.Fprintf(&b, " (с %s)", p.FirstEver)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Место в рейтинге: %d", p.Rank)
	return b.String()
}

func summaryText(s stats.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Сводка за %s\n", s.Date)
	fmt.Fprintf(&b, "Всего номеров: %d, дубликатов: %d, активных: %d\n", s.Total, s.Duplicates, s.Active)
	for _, w := range s.Workers {
		fmt.Fprintf(&b, "\n%s — %d", w.Name, w.Total)
		if w.Duplicates > 0 {
			fmt.Fprintf(&b, " (дубл. %d)", w.Duplicates)
		}
		if w.Last != "" {
			fmt.Fprintf(&b, ", последняя %s", w.Last)
		}
	}
	return b.String()
}
