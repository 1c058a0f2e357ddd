package worker

import (
	"context"
	"taskAPI/internal/logger"
	"taskAPI/internal/service"
	"time"

	"go.uber.org/zap"
)

// StoreMonitor — фоновая проверка доступности хранилища.
// Сервис задач фоновой работы не ведёт, монитор живёт на уровне приложения.
type StoreMonitor struct {
	repo     service.TaskRepository
	interval time.Duration
	timeout  time.Duration
}

func NewStoreMonitor(repo service.TaskRepository, interval *time.Duration, timeout *time.Duration) *StoreMonitor {
	intervalToSet := 1 * time.Minute
	if interval != nil {
		intervalToSet = *interval
	}

	timeoutToSet := 5 * time.Second
	if timeout != nil {
		timeoutToSet = *timeout
	}

	return &StoreMonitor{
		repo:     repo,
		interval: intervalToSet,
		timeout:  timeoutToSet,
	}
}

func (w *StoreMonitor) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Мониторинг хранилища останавливается")
			return
		}
	}
}

func (w *StoreMonitor) Check(ctx context.Context) {
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	if err := w.repo.HealthCheck(checkCtx); err != nil {
		logger.Warn("Worker: Хранилище недоступно",
			zap.Error(err),
			zap.Duration("ms", time.Since(start)))
		return
	}

	logger.Debug("Worker: Проверка хранилища прошла",
		zap.Duration("ms", time.Since(start)))
}
