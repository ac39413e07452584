package reconcile_payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
	"github.com/dpereira25/AgendaBarber/pkg/ptr"
)

// webhookTopicPayment единственный топик, который мы обрабатываем
const webhookTopicPayment = "payment"

// ExecuteWebhook обрабатывает входящее уведомление провайдера
// Жизненный цикл уведомления фиксируется в журнале:
// received -> processing -> processed | failed | ignored | duplicate
//
// Семантика подтверждения для провайдера:
// processed, ignored и duplicate подтверждаются (2xx), чтобы провайдер
// не ретраил бесполезные уведомления; failed возвращает ошибку,
// и провайдер попробует снова
func (uc *UseCase) ExecuteWebhook(ctx context.Context, req *WebhookRequest) (*Response, error) {
	if strings.TrimSpace(req.ResourceID) == "" {
		return nil, fmt.Errorf("%w: resource id is required", ErrInvalidInput)
	}

	log, err := uc.webhookLogRepo.Create(ctx, &domain.WebhookLog{
		Topic:      req.Topic,
		ResourceID: req.ResourceID,
		RawBody:    string(req.RawBody),
		SourceIP:   sourceIP(req.SourceIP),
		Status:     domain.WebhookStatusReceived,
	})
	if err != nil {
		uc.logger.Error("Webhook: failed to log notification for resource=%s: %v", req.ResourceID, err)
		return nil, fmt.Errorf("%w: failed to log webhook: %v", ErrInternal, err)
	}

	// 1. Проверка подписи, если секрет настроен
	if uc.config.WebhookSecret != "" {
		if err := mercadopago.VerifySignature(uc.config.WebhookSecret, req.SignatureHeader, req.RawBody); err != nil {
			uc.logger.Warn("Webhook: invalid signature for resource=%s: %v", req.ResourceID, err)
			uc.markWebhook(ctx, log.ID, domain.WebhookStatusFailed, "invalid signature")
			return nil, ErrInvalidSignature
		}
	}

	// 2. Чужие топики подтверждаем без обработки
	if req.Topic != webhookTopicPayment {
		uc.logger.Info("Webhook: ignoring topic=%s resource=%s", req.Topic, req.ResourceID)
		uc.markWebhook(ctx, log.ID, domain.WebhookStatusIgnored, "")
		return &Response{Outcome: OutcomeIgnored}, nil
	}

	// 3. Дедупликация: успешно обработанное уведомление о том же ресурсе
	// в недавнем окне не обрабатывается повторно
	since := uc.timeProvider.Now().Add(-domain.WebhookDuplicateWindow)
	processed, err := uc.webhookLogRepo.CountRecentProcessed(ctx, req.Topic, req.ResourceID, since)
	if err != nil {
		uc.logger.Error("Webhook: duplicate check failed for resource=%s: %v", req.ResourceID, err)
		uc.markWebhook(ctx, log.ID, domain.WebhookStatusFailed, err.Error())
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrInternal, err)
	}
	if processed > 0 {
		uc.logger.Info("Webhook: duplicate notification for resource=%s", req.ResourceID)
		uc.markWebhook(ctx, log.ID, domain.WebhookStatusDuplicate, "")
		return &Response{Outcome: OutcomeDuplicate}, nil
	}

	uc.markWebhook(ctx, log.ID, domain.WebhookStatusProcessing, "")

	// 4. Собственно сверка
	response, err := uc.Execute(ctx, &Request{PaymentID: req.ResourceID})
	if err != nil {
		uc.markWebhook(ctx, log.ID, domain.WebhookStatusFailed, err.Error())
		uc.observeWebhook(domain.WebhookStatusFailed)
		return nil, err
	}

	uc.markWebhook(ctx, log.ID, domain.WebhookStatusProcessed, "")
	uc.observeWebhook(domain.WebhookStatusProcessed)

	return response, nil
}

// markWebhook обновляет статус записи журнала
// Журнал вспомогательный: ошибка обновления логируется, но не прерывает обработку
func (uc *UseCase) markWebhook(ctx context.Context, logID int64, status domain.WebhookStatus, errText string) {
	if err := uc.webhookLogRepo.MarkStatus(ctx, logID, status, errText); err != nil {
		uc.logger.Error("Webhook: failed to mark log id=%d as %s: %v", logID, status, err)
	}
}

func (uc *UseCase) observeWebhook(status domain.WebhookStatus) {
	if uc.metrics != nil {
		uc.metrics.WebhooksReceivedTotal.WithLabelValues(string(status)).Inc()
	}
}

func sourceIP(ip string) *string {
	if strings.TrimSpace(ip) == "" {
		return nil
	}
	return ptr.Ptr(ip)
}
