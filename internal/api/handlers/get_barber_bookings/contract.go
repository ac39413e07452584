package get_barber_bookings

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings/models"
)

type BookingsService interface {
	GetBarberBookings(ctx context.Context, req *models.GetBarberBookingsRequest, principal domain.Principal) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
