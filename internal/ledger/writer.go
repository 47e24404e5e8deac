package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/scooterfleet/assetbot/constants"
	"github.com/scooterfleet/assetbot/internal/common"
	"github.com/scooterfleet/assetbot/internal/roster"
)

// Clock is injectable so tests control the written timestamp.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// AppendResult describes where the identifier landed.
type AppendResult struct {
	Row          int
	Timestamp    string
	Duplicate    bool
	DuplicateRow int // first-occurrence row that was flagged
}

// Writer appends identifiers into the submitting worker's column pair.
//
// The read-count/write sequence against the remote table is not atomic:
// another process appending for the same worker between the column read and
// the cell write can compute the same target row and one write is lost.
// Workers submit serially from a single chat session, so this is accepted;
// the per-worker lock below only keeps this process from racing itself.
type Writer struct {
	table    Table
	roster   *roster.Roster
	notifier Notifier
	policy   RetryPolicy
	clock    Clock
	loc      *time.Location
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

type Option func(*Writer)

func WithClock(c Clock) Option {
	return func(w *Writer) {
		if c != nil {
			w.clock = c
		}
	}
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(w *Writer) { w.policy = p }
}

func NewWriter(table Table, r *roster.Roster, notifier Notifier, loc *time.Location, logger *slog.Logger, opts ...Option) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	w := &Writer{
		table:    table,
		roster:   r,
		notifier: notifier,
		policy:   DefaultRetryPolicy(),
		clock:    systemClock{},
		loc:      loc,
		logger:   logger,
		locks:    make(map[int64]*sync.Mutex),
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Append records one identifier for the worker: duplicate check, first
// occurrence highlight, then identifier+timestamp written to the first
// empty row of the worker's own columns. The whole remote sequence is
// retried per the policy; an unmapped worker fails immediately, unretried.
func (w *Writer) Append(ctx context.Context, workerID int64, number string) (AppendResult, error) {
	worker, ok := w.roster.ByID(workerID)
	if !ok {
		w.logger.Error("append for unknown worker", "worker_id", workerID)
		return AppendResult{}, fmt.Errorf("worker %d: %w", workerID, common.ErrNotFound)
	}
	if !worker.Mapped() {
		w.logger.Error("no columns assigned for worker", "worker_id", workerID, "name", worker.Name)
		return AppendResult{}, fmt.Errorf("worker %q: %w", worker.Name, common.ErrUnmapped)
	}

	lock := w.workerLock(workerID)
	lock.Lock()
	defer lock.Unlock()

	var res AppendResult
	rateLimitNotified := false
	err := w.policy.Run(ctx,
		func(ctx context.Context) error {
			r, err := w.appendOnce(ctx, worker, number)
			if err != nil {
				return err
			}
			res = r
			return nil
		},
		func(cause error) {
			rateLimitNotified = true
			w.notify(ctx, fmt.Sprintf("ledger rate limit (429): worker_id=%d number=%s: %v", workerID, number, cause))
		},
	)
	if err != nil {
		w.logger.Error("ledger.append.failed", "worker_id", workerID, "number", number, "error", err)
		if !rateLimitNotified {
			w.notify(ctx, fmt.Sprintf("ledger write failed after %d attempts: worker_id=%d number=%s: %v",
				w.policy.MaxAttempts, workerID, number, err))
		}
		return AppendResult{}, err
	}
	w.logger.Info("ledger.append.ok",
		"worker_id", workerID,
		"name", worker.Name,
		"number", number,
		"row", res.Row,
		"duplicate", res.Duplicate,
	)
	return res, nil
}

func (w *Writer) appendOnce(ctx context.Context, worker roster.Worker, number string) (AppendResult, error) {
	values, err := w.table.ColumnValues(ctx, worker.NumberColumn)
	if err != nil {
		return AppendResult{}, fmt.Errorf("read column %d: %w", worker.NumberColumn, err)
	}

	// Row 1 is the header, so the first data row is 2 even on an empty column.
	targetRow := len(values) + 1
	if targetRow < constants.HeaderRow+1 {
		targetRow = constants.HeaderRow + 1
	}

	res := AppendResult{Row: targetRow}
	var existing []string
	if len(values) > constants.HeaderRow {
		existing = values[constants.HeaderRow:]
	}
	for i, v := range existing {
		if v == number {
			res.Duplicate = true
			res.DuplicateRow = i + constants.HeaderRow + 1
			break
		}
	}
	if res.Duplicate {
		cols := []int{worker.NumberColumn, worker.TimestampColumn}
		if err := w.table.HighlightCells(ctx, res.DuplicateRow, cols, DuplicateColor); err != nil {
			return AppendResult{}, fmt.Errorf("highlight duplicate row %d: %w", res.DuplicateRow, err)
		}
		w.logger.Info("duplicate number found and highlighted", "number", number, "row", res.DuplicateRow)
	}

	res.Timestamp = w.clock.Now().In(w.loc).Format(constants.TimeLayout)
	if err := w.table.UpdateCell(ctx, targetRow, worker.NumberColumn, number); err != nil {
		return AppendResult{}, fmt.Errorf("write number cell: %w", err)
	}
	if err := w.table.UpdateCell(ctx, targetRow, worker.TimestampColumn, res.Timestamp); err != nil {
		return AppendResult{}, fmt.Errorf("write timestamp cell: %w", err)
	}
	return res, nil
}

func (w *Writer) notify(ctx context.Context, text string) {
	if w.notifier == nil {
		return
	}
	if err := w.notifier.NotifyAdmin(ctx, text); err != nil {
		w.logger.Error("failed to notify admin", "error", err)
	}
}

func (w *Writer) workerLock(id int64) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	lock, ok := w.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		w.locks[id] = lock
	}
	return lock
}
