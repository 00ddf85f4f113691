package worker

import (
	"context"
	"taskBoard/internal/logger"
	"time"

	"go.uber.org/zap"
)

// Sweeper - хранилище отозванных сессий, которое само не удаляет истёкшие записи
type Sweeper interface {
	Sweep(ctx context.Context) int
}

type SessionWorker struct {
	store    Sweeper
	interval time.Duration
}

func NewSessionWorker(store Sweeper, interval *time.Duration) *SessionWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = 5 * time.Minute
	} else {
		intervalToSet = *interval
	}

	return &SessionWorker{
		store:    store,
		interval: intervalToSet,
	}
}

func (w *SessionWorker) Interval() time.Duration {
	return w.interval
}

// Start блокируется до отмены ctx
func (w *SessionWorker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Очистка отозванных сессий запущена", zap.Duration("interval", w.interval))

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Очистка сессий останавливается")
			return nil
		}
	}
}

func (w *SessionWorker) Check(ctx context.Context) int {
	start := time.Now()

	removed := w.store.Sweep(ctx)

	logger.Info(
		"Worker: Завершение очистки сессий",
		zap.Duration("ms", time.Since(start)),
		zap.Int("removed", removed),
	)
	return removed
}
