package cleanup_expired

import (
	"context"

	"github.com/dpereira25/AgendaBarber/internal/service/cleanup"
)

type CleanupService interface {
	FullCleanup(ctx context.Context) (*cleanup.CleanupStats, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
