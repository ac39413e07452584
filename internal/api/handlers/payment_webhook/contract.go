package payment_webhook

import (
	"context"

	reconcile "github.com/dpereira25/AgendaBarber/internal/usecase/reconcile_payment"
)

type ReconcilePaymentUseCase interface {
	ExecuteWebhook(ctx context.Context, req *reconcile.WebhookRequest) (*reconcile.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
