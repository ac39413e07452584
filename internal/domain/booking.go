package domain

import "time"

// BookingStatus статус записи
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// PaymentMethod способ оплаты бронирования
type PaymentMethod string

const (
	PaymentMethodMercadoPago PaymentMethod = "mercadopago"
	PaymentMethodNone        PaymentMethod = "none" // dev-режим без платежного провайдера
)

// Booking подтвержденная запись клиента к барберу
// EndTime всегда вычисляется на сервере как StartTime + длительность услуги
type Booking struct {
	ID        int64
	ClientID  int64
	BarberID  int64
	ServiceID int64
	StartTime time.Time
	EndTime   time.Time

	Paid          bool
	PaymentMethod PaymentMethod
	Status        BookingStatus

	// Денормализованные данные для истории
	ServiceName  string
	ServicePrice float64
	ClientEmail  *string
	ClientName   *string

	CancellationReason *string
	CancelledAt        *time.Time

	// NeedsAttention выставляется при возвратах и чарджбеках по уже созданной записи
	NeedsAttention bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveStatus вычисляет актуальный статус записи на момент now
// Чистая функция: ничего не мутирует, используется на путях чтения
// и в явном проходе актуализации статусов (ReconcileStatuses)
//
// Правила:
// - отмененная запись остается отмененной
// - если запись закончилась (now > EndTime), она считается завершенной
// - запись, помеченная завершенной раньше времени, возвращается в pending
//   (защита от ручных правок и рассинхронизации часов)
func DeriveStatus(now time.Time, b *Booking) BookingStatus {
	if b.Status == StatusCancelled {
		return StatusCancelled
	}
	if now.After(b.EndTime) {
		return StatusCompleted
	}
	if b.Status == StatusCompleted {
		return StatusPending
	}
	return b.Status
}

// IsActive возвращает true, если запись блокирует слот
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeCancelled возвращает true, если запись в принципе можно отменить
// Проверка лид-тайма выполняется отдельно в сервисе
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// OverlapsWindow проверяет пересечение записи с интервалом [start, end)
func (b *Booking) OverlapsWindow(start, end time.Time) bool {
	return Overlaps(b.StartTime, b.EndTime, start, end)
}

// BarberBookingsFilter фильтр для выборки бронирований барбера
type BarberBookingsFilter struct {
	BarberID        int64      // Обязательный параметр
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *BookingStatus
	IncludeInactive bool // Включать ли отмененные записи
}
