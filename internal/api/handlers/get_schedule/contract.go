package get_schedule

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

type ScheduleService interface {
	WeekSchedule(ctx context.Context, barberID int64) (map[int]domain.WorkingWindow, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
