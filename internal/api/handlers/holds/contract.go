package holds

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

type HoldsService interface {
	GetActive(ctx context.Context, sessionKey string) ([]*domain.TemporaryHold, error)
	Extend(ctx context.Context, id string, sessionKey string) (*domain.TemporaryHold, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
