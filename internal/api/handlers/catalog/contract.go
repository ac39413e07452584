package catalog

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

type CatalogRepository interface {
	ListBarbers(ctx context.Context) ([]*domain.Barber, error)
	ListServices(ctx context.Context) ([]*domain.Service, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
