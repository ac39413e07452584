package cancel_booking

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings/models"
)

type BookingsService interface {
	Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest, principal domain.Principal) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
