package holds

import (
	"context"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	GetByID(ctx context.Context, id string, now time.Time) (*domain.TemporaryHold, error)
	GetActiveBySession(ctx context.Context, sessionKey string, now time.Time) ([]*domain.TemporaryHold, error)
	GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time, excludeID string, now time.Time) ([]*domain.TemporaryHold, error)
	Extend(ctx context.Context, id string, expiresAt time.Time, now time.Time) error
}

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time) ([]*domain.Booking, error)
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
