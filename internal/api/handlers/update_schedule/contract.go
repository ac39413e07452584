package update_schedule

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

type ScheduleService interface {
	SetRule(ctx context.Context, rule *domain.ScheduleRule, principal domain.Principal) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
