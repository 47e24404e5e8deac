package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scooterfleet/assetbot/constants"
	"github.com/scooterfleet/assetbot/internal/ledger"
	"github.com/scooterfleet/assetbot/internal/notes"
	"github.com/scooterfleet/assetbot/internal/roster"
)

type fakeAPI struct {
	sent []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetFileDirectURL(string) (string, error) {
	return "", errors.New("no file server in tests")
}

func (f *fakeAPI) texts() []string {
	var out []string
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m.Text)
		}
	}
	return out
}

type memTable struct {
	cells map[int]map[int]string // col -> row -> value
}

func newMemTable() *memTable {
	return &memTable{cells: map[int]map[int]string{}}
}

func (t *memTable) ColumnValues(_ context.Context, col int) ([]string, error) {
	rows := t.cells[col]
	max := 0
	for r := range rows {
		if r > max {
			max = r
		}
	}
	values := make([]string, max)
	for r, v := range rows {
		values[r-1] = v
	}
	return values, nil
}

func (t *memTable) UpdateCell(_ context.Context, row, col int, value string) error {
	if t.cells[col] == nil {
		t.cells[col] = map[int]string{}
	}
	t.cells[col][row] = value
	return nil
}

func (t *memTable) HighlightCells(context.Context, int, []int, ledger.Color) error {
	return nil
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, UserName: "tester"},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}}
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI, *memTable) {
	t.Helper()
	r, err := roster.New(1, nil, []roster.Worker{
		{ID: 1, Name: "Admin"},
		{ID: 42, Name: "Alice", NumberColumn: 1, TimestampColumn: 2},
	})
	require.NoError(t, err)

	table := newMemTable()
	require.NoError(t, table.UpdateCell(context.Background(), 1, 1, "Alice"))

	api := &fakeAPI{}
	writer := ledger.NewWriter(table, r, nil, time.UTC, nil)
	b := New(api, Deps{
		Roster:   r,
		Writer:   writer,
		Notes:    notes.NewStore(t.TempDir(), nil),
		TableURL: "https://example.test/sheet",
	}, nil)
	return b, api, table
}

func TestDispatchRejectsUnknownUser(t *testing.T) {
	b, api, table := newTestBot(t)

	b.Dispatch(context.Background(), textUpdate(777, "00123456"))

	require.Len(t, api.texts(), 1)
	assert.Equal(t, replyDenied, api.texts()[0])
	assert.Empty(t, table.cells[1][2], "no write for unauthorized user")
}

func TestDispatchTypedNumber(t *testing.T) {
	b, api, table := newTestBot(t)

	b.Dispatch(context.Background(), textUpdate(42, "номер 00123456"))

	assert.Equal(t, "00123456", table.cells[1][2])
	assert.NotEmpty(t, table.cells[2][2], "timestamp written next to the number")
	require.NotEmpty(t, api.texts())
	assert.Contains(t, api.texts()[0], "00123456")
}

func TestDispatchNoNumberInText(t *testing.T) {
	b, api, table := newTestBot(t)

	b.Dispatch(context.Background(), textUpdate(42, "привет"))

	require.Len(t, api.texts(), 1)
	assert.Equal(t, replyNoNumber, api.texts()[0])
	assert.Empty(t, table.cells[1][2])
}

func TestDispatchNoteFlow(t *testing.T) {
	b, api, _ := newTestBot(t)
	ctx := context.Background()

	b.Dispatch(ctx, textUpdate(42, constants.ButtonSaveNote))
	b.Dispatch(ctx, textUpdate(42, "колесо спустило на 00123456"))

	texts := api.texts()
	require.Len(t, texts, 2)
	assert.Equal(t, replyNotePrompt, texts[0])
	assert.Equal(t, replyNoteSaved, texts[1])

	// the prompt state is consumed, the next text goes through extraction
	b.Dispatch(ctx, textUpdate(42, "просто текст"))
	assert.Equal(t, replyNoNumber, api.texts()[2])
}

func TestDispatchReturnCancelsNotePrompt(t *testing.T) {
	b, api, table := newTestBot(t)
	ctx := context.Background()

	b.Dispatch(ctx, textUpdate(42, constants.ButtonSaveNote))
	b.Dispatch(ctx, textUpdate(42, constants.ButtonReturn))
	b.Dispatch(ctx, textUpdate(42, "00123456"))

	texts := api.texts()
	require.Len(t, texts, 3)
	assert.Equal(t, replyReturned, texts[1])
	assert.Equal(t, "00123456", table.cells[1][2], "number appended, not saved as note")
}

func TestDispatchTableButtonGated(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.Dispatch(context.Background(), textUpdate(42, constants.ButtonTable))

	require.Len(t, api.texts(), 1)
	assert.Equal(t, replyDenied, api.texts()[0])
}

func TestMainKeyboardRows(t *testing.T) {
	plain := mainKeyboard(false)
	special := mainKeyboard(true)

	assert.Len(t, plain.Keyboard, 3)
	require.Len(t, special.Keyboard, 4)
	assert.Equal(t, constants.ButtonExport, special.Keyboard[0][0].Text)
	assert.Equal(t, constants.ButtonTable, special.Keyboard[0][1].Text)
}
