package next_available_slot

import (
	"context"

	nextSlot "github.com/dpereira25/AgendaBarber/internal/usecase/next_available_slot"
)

type NextAvailableSlotUseCase interface {
	Execute(ctx context.Context, req *nextSlot.Request) (*nextSlot.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
