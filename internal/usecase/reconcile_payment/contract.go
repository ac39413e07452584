package reconcile_payment

import (
	"context"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
)

// PaymentRepository интерфейс репозитория платежных транзакций
type PaymentRepository interface {
	GetByExternalPaymentID(ctx context.Context, externalPaymentID string) (*domain.PaymentTransaction, error)
	Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error)
	UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, statusDetail string) error
	LinkBooking(ctx context.Context, id int64, bookingID int64) error
	DetachHold(ctx context.Context, id int64) error
}

// HoldRepository интерфейс репозитория удержаний
type HoldRepository interface {
	GetByIDAny(ctx context.Context, id string) (*domain.TemporaryHold, error)
	GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time, excludeID string, now time.Time) ([]*domain.TemporaryHold, error)
	Delete(ctx context.Context, id string) error
}

// BookingRepository интерфейс репозитория записей
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time) ([]*domain.Booking, error)
	SetNeedsAttention(ctx context.Context, id int64) error
}

// CatalogRepository интерфейс репозитория справочника
type CatalogRepository interface {
	GetService(ctx context.Context, id int64) (*domain.Service, error)
}

// WebhookLogRepository интерфейс репозитория журнала вебхуков
type WebhookLogRepository interface {
	Create(ctx context.Context, log *domain.WebhookLog) (*domain.WebhookLog, error)
	MarkStatus(ctx context.Context, id int64, status domain.WebhookStatus, errText string) error
	CountRecentProcessed(ctx context.Context, topic, resourceID string, since time.Time) (int64, error)
}

// PaymentClient интерфейс платежного провайдера
type PaymentClient interface {
	VerifyPayment(ctx context.Context, paymentID string) (*mercadopago.Payment, error)
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
