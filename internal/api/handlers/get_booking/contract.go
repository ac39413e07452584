package get_booking

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings/models"
)

type BookingsService interface {
	GetByID(ctx context.Context, id int64, principal domain.Principal) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
