package bot

import (
	"context"
	"sync"
	"time"

	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dispatcher consumes one chat update end to end.
type Dispatcher interface {
	Dispatch(ctx context.Context, update tgbotapi.Update)
}

// UpdateQueue fans incoming updates out to a bounded worker pool so a slow
// photo download never stalls the long-poll loop.
type UpdateQueue struct {
	disp    Dispatcher
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan tgbotapi.Update
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type QueueOption func(*UpdateQueue)

func WithWorkers(n int) QueueOption {
	return func(q *UpdateQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) QueueOption {
	return func(q *UpdateQueue) {
		if n > 0 {
			q.ch = make(chan tgbotapi.Update, n)
		}
	}
}

func WithTaskTimeout(d time.Duration) QueueOption {
	return func(q *UpdateQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewUpdateQueue(disp Dispatcher, logger *slog.Logger, opts ...QueueOption) *UpdateQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &UpdateQueue{
		disp:    disp,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan tgbotapi.Update, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *UpdateQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for update := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					q.disp.Dispatch(ctx, update)
					cancel()
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *UpdateQueue) Enqueue(update tgbotapi.Update) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "update_id", update.UpdateID)
		return
	}
	select {
	case q.ch <- update:
	default:
		q.logger.Warn("queue full, applying backpressure", "update_id", update.UpdateID)
		q.ch <- update
	}
}

func (q *UpdateQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
