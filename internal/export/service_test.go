package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/scooterfleet/assetbot/internal/roster"
	"github.com/scooterfleet/assetbot/internal/stats"
)

type fakeSource struct {
	rows [][]string
}

func (f *fakeSource) AllValues(context.Context) ([][]string, error) {
	return f.rows, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestDailySummaryXLSX(t *testing.T) {
	r, err := roster.New(1, nil, []roster.Worker{
		{ID: 1, Name: "Alice", NumberColumn: 1, TimestampColumn: 2},
	})
	require.NoError(t, err)

	src := &fakeSource{rows: [][]string{
		{"Alice", ""},
		{"00999888", "28.08 09:00"},
		{"00999888", "28.08 10:00"},
	}}
	engine := stats.NewEngine(src, r, time.UTC, nil,
		stats.WithClock(fixedClock{t: time.Date(2026, 8, 28, 18, 0, 0, 0, time.UTC)}))
	svc := NewService(engine, nil)

	raw, err := svc.DailySummaryXLSX(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	name, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	total, err := f.GetCellValue("Summary", "C2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	dups, err := f.GetCellValue("Summary", "D2")
	require.NoError(t, err)
	assert.Equal(t, "1", dups)
}
