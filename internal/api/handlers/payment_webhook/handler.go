package payment_webhook

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
	reconcile "github.com/dpereira25/AgendaBarber/internal/usecase/reconcile_payment"
)

const (
	msgInvalidBody      = "invalid notification body"
	msgInvalidSignature = "invalid signature"
	msgMissingResource  = "missing resource id"
)

// maxBodySize ограничивает размер тела уведомления
const maxBodySize = 1 << 20 // 1 MB

type Handler struct {
	useCase ReconcilePaymentUseCase
	logger  Logger
}

func NewHandler(useCase ReconcilePaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/webhook?topic=payment&id=123
// Провайдер шлет и query-параметры, и JSON тело; query имеет приоритет,
// тело используется как fallback для нового формата уведомлений
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		h.logger.Error("POST /payments/webhook - failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}
	defer r.Body.Close()

	query := r.URL.Query()
	topic := query.Get("topic")
	if topic == "" {
		topic = query.Get("type")
	}
	resourceID := query.Get("id")
	if resourceID == "" {
		resourceID = query.Get("data.id")
	}

	// Fallback на тело уведомления
	if topic == "" || resourceID == "" {
		var notification mercadopago.WebhookNotification
		if err := json.Unmarshal(body, &notification); err == nil {
			if topic == "" {
				topic = notification.Type
			}
			if resourceID == "" {
				resourceID = notification.Data.ID
			}
		}
	}

	if resourceID == "" {
		h.logger.Warn("POST /payments/webhook - missing resource id, topic=%s", topic)
		handlers.RespondBadRequest(w, msgMissingResource)
		return
	}

	result, err := h.useCase.ExecuteWebhook(r.Context(), &reconcile.WebhookRequest{
		Topic:           topic,
		ResourceID:      resourceID,
		RawBody:         body,
		SourceIP:        clientIP(r),
		SignatureHeader: r.Header.Get("x-signature"),
	})
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrInvalidSignature):
			handlers.RespondError(w, http.StatusUnauthorized, msgInvalidSignature)

		case errors.Is(err, reconcile.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			// Non-2xx: провайдер повторит уведомление
			h.logger.Error("POST /payments/webhook - failed: resource=%s, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
