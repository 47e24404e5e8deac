// Package ledger owns mutation of the shared remote table: the append
// state machine, duplicate flagging and the retry policy around remote
// throttling.
package ledger

import "context"

// Color is a cell background in the remote store's 0..1 channel scale.
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// DuplicateColor marks the first occurrence of a resubmitted identifier.
var DuplicateColor = Color{Red: 1}

// Table is the column-addressable view of the shared worksheet. Columns and
// rows are 1-based; row 1 is the header.
type Table interface {
	// ColumnValues returns every populated cell of the column, top to
	// bottom, header included.
	ColumnValues(ctx context.Context, col int) ([]string, error)
	// UpdateCell writes a single cell.
	UpdateCell(ctx context.Context, row, col int, value string) error
	// HighlightCells recolors the background of (row, col) for each column.
	HighlightCells(ctx context.Context, row int, cols []int, color Color) error
}

// Notifier delivers best-effort alerts to the administrator. Failures are
// the caller's to log, never to propagate.
type Notifier interface {
	NotifyAdmin(ctx context.Context, text string) error
}
