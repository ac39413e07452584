package models

import (
	"errors"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену записи
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение записей клиента
type GetUserBookingsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetBarberBookingsRequest запрос на получение записей барбера
type GetBarberBookingsRequest struct {
	BarberID        int64      `json:"barberId"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBarberBookingsRequest) ToDomainFilter() (domain.BarberBookingsFilter, error) {
	filter := domain.BarberBookingsFilter{
		BarberID:        r.BarberID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными записи
type BookingResponse struct {
	ID             int64   `json:"id"`
	ClientID       int64   `json:"clientId"`
	BarberID       int64   `json:"barberId"`
	ServiceID      int64   `json:"serviceId"`
	StartTime      string  `json:"startTime"` // RFC3339
	EndTime        string  `json:"endTime"`   // RFC3339
	Paid           bool    `json:"paid"`
	PaymentMethod  string  `json:"paymentMethod"`
	Status         string  `json:"status"`
	ServiceName    string  `json:"serviceName"`
	ServicePrice   float64 `json:"servicePrice"`
	ClientEmail    *string `json:"clientEmail,omitempty"`
	ClientName     *string `json:"clientName,omitempty"`
	CancelReason   *string `json:"cancellationReason,omitempty"`
	NeedsAttention bool    `json:"needsAttention,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

// BookingListResponse ответ со списком записей
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// ReconcileResult результат прохода актуализации статусов
type ReconcileResult struct {
	Completed int64 `json:"completed"`
	Reverted  int64 `json:"reverted"`
}

// FromDomainBooking конвертирует domain запись в response
// Статус отдается производным на момент now, без мутации хранимого значения
func FromDomainBooking(b *domain.Booking, now time.Time) *BookingResponse {
	return &BookingResponse{
		ID:             b.ID,
		ClientID:       b.ClientID,
		BarberID:       b.BarberID,
		ServiceID:      b.ServiceID,
		StartTime:      b.StartTime.Format(time.RFC3339),
		EndTime:        b.EndTime.Format(time.RFC3339),
		Paid:           b.Paid,
		PaymentMethod:  string(b.PaymentMethod),
		Status:         string(domain.DeriveStatus(now, b)),
		ServiceName:    b.ServiceName,
		ServicePrice:   b.ServicePrice,
		ClientEmail:    b.ClientEmail,
		ClientName:     b.ClientName,
		CancelReason:   b.CancellationReason,
		NeedsAttention: b.NeedsAttention,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
}

// FromDomainBookingList конвертирует список domain записей в response
func FromDomainBookingList(bookings []*domain.Booking, now time.Time) *BookingListResponse {
	result := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		result[i] = FromDomainBooking(b, now)
	}
	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}

// ToDomainBookingStatus конвертирует строку в domain статус
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted:
		return domain.BookingStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
