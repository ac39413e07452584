package domain

import "time"

// Значения конфигурации по умолчанию
const (
	// DefaultHoldTTLMinutes время жизни временного удержания слота
	DefaultHoldTTLMinutes = 15

	// DefaultCancelLeadTime минимальное время до начала, за которое можно отменить запись
	DefaultCancelLeadTime = 2 * time.Hour

	// DefaultSlotGranularityMinutes шаг сетки слотов
	DefaultSlotGranularityMinutes = 60

	// DefaultSweepInterval минимальный интервал между оппортунистическими чистками
	DefaultSweepInterval = 5 * time.Minute

	// DefaultWebhookLogRetentionDays срок хранения журналов вебхуков
	DefaultWebhookLogRetentionDays = 30

	// DefaultSearchHorizonDays горизонт поиска ближайшего свободного слота
	DefaultSearchHorizonDays = 30

	// WebhookDuplicateWindow окно, в котором повторное уведомление считается дубликатом
	WebhookDuplicateWindow = 5 * time.Minute
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveBookingStatuses статусы бронирований, блокирующие слот
// Используются при проверке доступности
var ActiveBookingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// Overlaps проверяет пересечение двух полуинтервалов [aStart, aEnd) и [bStart, bEnd)
// Граничные случаи (конец одного совпадает с началом другого) пересечением не считаются
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
