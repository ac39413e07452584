package schedule

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

// ScheduleRepository интерфейс репозитория правил расписания
type ScheduleRepository interface {
	GetByBarberAndWeekday(ctx context.Context, barberID int64, weekday int) (*domain.ScheduleRule, error)
	ListByBarber(ctx context.Context, barberID int64) ([]*domain.ScheduleRule, error)
	Upsert(ctx context.Context, rule *domain.ScheduleRule) error
}

// CatalogRepository интерфейс репозитория справочника
type CatalogRepository interface {
	GetBarber(ctx context.Context, id int64) (*domain.Barber, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
