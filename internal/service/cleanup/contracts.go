package cleanup

import (
	"context"
	"time"
)

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// WebhookLogRepository интерфейс репозитория журнала вебхуков
type WebhookLogRepository interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// BookingReconciler интерфейс прохода актуализации статусов записей
type BookingReconciler interface {
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
	RevertPremature(ctx context.Context, now time.Time) (int64, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
