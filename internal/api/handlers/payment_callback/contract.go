package payment_callback

import (
	"context"

	reconcile "github.com/dpereira25/AgendaBarber/internal/usecase/reconcile_payment"
)

type ReconcilePaymentUseCase interface {
	Execute(ctx context.Context, req *reconcile.Request) (*reconcile.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
