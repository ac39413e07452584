package domain

import (
	"fmt"
	"strings"
	"time"
)

// holdReferencePrefix префикс external_reference, по которому платеж
// сопоставляется с удержанием
const holdReferencePrefix = "hold_"

// TemporaryHold временное удержание слота на время оплаты
// Не является подтвержденной записью: истекает через фиксированный TTL,
// если платеж не завершился
type TemporaryHold struct {
	ID         string // непрозрачный токен (uuid)
	SessionKey string
	ClientID   int64
	BarberID   int64
	ServiceID  int64
	StartTime  time.Time
	EndTime    time.Time

	ClientEmail string
	ClientName  string

	// PreferenceID идентификатор checkout-преференции платежного провайдера
	PreferenceID *string

	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired возвращает true, если удержание истекло на момент now
func (h *TemporaryHold) IsExpired(now time.Time) bool {
	return now.After(h.ExpiresAt)
}

// TimeRemaining возвращает оставшееся время жизни удержания
// Для истекшего удержания возвращает 0
func (h *TemporaryHold) TimeRemaining(now time.Time) time.Duration {
	if h.IsExpired(now) {
		return 0
	}
	return h.ExpiresAt.Sub(now)
}

// OverlapsWindow проверяет пересечение удержания с интервалом [start, end)
func (h *TemporaryHold) OverlapsWindow(start, end time.Time) bool {
	return Overlaps(h.StartTime, h.EndTime, start, end)
}

// ExternalReference возвращает external_reference для платежного провайдера
func (h *TemporaryHold) ExternalReference() string {
	return holdReferencePrefix + h.ID
}

// HoldIDFromReference извлекает ID удержания из external_reference платежа
// Возвращает пустую строку, если ссылка не относится к удержанию
func HoldIDFromReference(reference string) string {
	if !strings.HasPrefix(reference, holdReferencePrefix) {
		return ""
	}
	return strings.TrimPrefix(reference, holdReferencePrefix)
}

// HoldReference формирует external_reference по ID удержания
func HoldReference(holdID string) string {
	return fmt.Sprintf("%s%s", holdReferencePrefix, holdID)
}
