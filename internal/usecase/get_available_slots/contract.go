package get_available_slots

import (
	"context"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time) ([]*domain.Booking, error)
}

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time, excludeID string, now time.Time) ([]*domain.TemporaryHold, error)
}

// CatalogRepository интерфейс репозитория справочника
type CatalogRepository interface {
	GetBarber(ctx context.Context, id int64) (*domain.Barber, error)
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// ScheduleService интерфейс сервиса рабочего календаря
type ScheduleService interface {
	WorkingHours(ctx context.Context, barberID int64, date time.Time) (domain.WorkingWindow, error)
}

// Sweeper интерфейс оппортунистической чистки истекших удержаний
type Sweeper interface {
	MaybeSweep(ctx context.Context)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
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
