package domain

import "time"

// PaymentStatus статус платежа у внешнего провайдера
type PaymentStatus string

const (
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusApproved    PaymentStatus = "approved"
	PaymentStatusAuthorized  PaymentStatus = "authorized"
	PaymentStatusInProcess   PaymentStatus = "in_process"
	PaymentStatusRejected    PaymentStatus = "rejected"
	PaymentStatusCancelled   PaymentStatus = "cancelled"
	PaymentStatusRefunded    PaymentStatus = "refunded"
	PaymentStatusChargedBack PaymentStatus = "charged_back"
)

// IsSuccessful возвращает true, если платеж прошел и запись можно создавать
func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentStatusApproved || s == PaymentStatusAuthorized
}

// IsFailed возвращает true, если платеж окончательно не состоялся
func (s PaymentStatus) IsFailed() bool {
	return s == PaymentStatusRejected || s == PaymentStatusCancelled
}

// IsReversal возвращает true для возвратов и чарджбеков
func (s PaymentStatus) IsReversal() bool {
	return s == PaymentStatusRefunded || s == PaymentStatusChargedBack
}

// PaymentTransaction наше представление платежа у внешнего провайдера
// Создается при первом наблюдении статуса (вебхук или редирект),
// обновляется при каждом последующем. Ровно один платеж соответствует
// ровно одной итоговой записи.
type PaymentTransaction struct {
	ID int64

	// ExternalPaymentID уникальный идентификатор платежа у провайдера
	ExternalPaymentID string

	// ExternalPreferenceID идентификатор checkout-преференции
	ExternalPreferenceID string

	// HoldID удержание, с которым скоррелирован платеж
	// Обнуляется после конвертации удержания в запись
	HoldID *string

	// BookingID итоговая запись, созданная по этому платежу
	BookingID *int64

	Amount            float64
	Currency          string
	Status            PaymentStatus
	StatusDetail      *string
	ExternalReference string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLinkedToBooking возвращает true, если платеж уже сконвертирован в запись
func (t *PaymentTransaction) IsLinkedToBooking() bool {
	return t.BookingID != nil
}
