package create_booking

import (
	"context"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
)

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time) ([]*domain.Booking, error)
}

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	Create(ctx context.Context, hold *domain.TemporaryHold) (*domain.TemporaryHold, error)
	GetActiveBySessionSlot(ctx context.Context, sessionKey string, barberID int64, start time.Time, now time.Time) (*domain.TemporaryHold, error)
	GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time, excludeID string, now time.Time) ([]*domain.TemporaryHold, error)
	Refresh(ctx context.Context, id string, clientEmail, clientName string, expiresAt time.Time) error
	AttachPreference(ctx context.Context, id string, preferenceID string) error
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

// PaymentClient интерфейс платежного провайдера
type PaymentClient interface {
	CreatePreference(ctx context.Context, pref *mercadopago.PreferenceRequest) (*mercadopago.Preference, error)
}

// Sweeper интерфейс чистки истекших удержаний
// SweepExpiredHolds вызывается внутри транзакции, чтобы мертвые удержания
// не блокировали слот в момент проверки доступности
type Sweeper interface {
	SweepExpiredHolds(ctx context.Context) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
