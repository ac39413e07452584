package create_booking

import (
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	createBooking "github.com/dpereira25/AgendaBarber/internal/usecase/create_booking"
	"github.com/dpereira25/AgendaBarber/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BarberID    int64  `json:"barberId"`
	ServiceID   int64  `json:"serviceId"`
	Date        string `json:"date"`      // "2026-09-01"
	StartTime   string `json:"startTime"` // "18:00"
	ClientEmail string `json:"clientEmail"`
	ClientName  string `json:"clientName"`
}

// HoldResponse ответ с удержанием слота и checkout-ссылкой
type HoldResponse struct {
	HoldID       string `json:"holdId"`
	ExpiresAt    string `json:"expiresAt"`
	PreferenceID string `json:"preferenceId"`
	CheckoutURL  string `json:"checkoutUrl"`
}

// BookingResponse ответ с записью, созданной без оплаты (dev-режим)
type BookingResponse struct {
	BookingID int64  `json:"bookingId"`
	Status    string `json:"status"`
	Paid      bool   `json:"paid"`
}

// CreateBookingResponse HTTP response model
// Заполнено ровно одно из полей
type CreateBookingResponse struct {
	Hold    *HoldResponse    `json:"hold,omitempty"`
	Booking *BookingResponse `json:"booking,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64, sessionKey string) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:    clientID,
		SessionKey:  sessionKey,
		BarberID:    r.BarberID,
		ServiceID:   r.ServiceID,
		Date:        date,
		StartTime:   startTime,
		ClientEmail: r.ClientEmail,
		ClientName:  r.ClientName,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	result := &CreateBookingResponse{}

	if resp.Hold != nil {
		result.Hold = &HoldResponse{
			HoldID:       resp.Hold.HoldID,
			ExpiresAt:    resp.Hold.ExpiresAt.Format(time.RFC3339),
			PreferenceID: resp.Hold.PreferenceID,
			CheckoutURL:  resp.Hold.CheckoutURL,
		}
	}

	if resp.Booking != nil {
		result.Booking = &BookingResponse{
			BookingID: resp.Booking.BookingID,
			Status:    resp.Booking.Status,
			Paid:      resp.Booking.Paid,
		}
	}

	return result
}
