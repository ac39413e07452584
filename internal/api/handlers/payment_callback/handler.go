package payment_callback

import (
	"errors"
	"net/http"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	reconcile "github.com/dpereira25/AgendaBarber/internal/usecase/reconcile_payment"
)

const (
	msgMissingPaymentID = "falta el identificador de pago"
	msgVerifyFailed     = "no se pudo verificar el pago, tu reserva se confirmará en unos minutos"
)

// CallbackResponse ответ для страницы возврата после оплаты
type CallbackResponse struct {
	Outcome   string `json:"outcome"`
	BookingID *int64 `json:"bookingId,omitempty"`
}

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

// Handle GET /api/v1/payments/callback?payment_id=123&status=approved
// Возврат клиента с checkout-страницы: запускает ту же сверку,
// что и вебхук, чтобы не ждать асинхронного уведомления
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	paymentID := query.Get("payment_id")
	if paymentID == "" {
		paymentID = query.Get("collection_id")
	}
	if paymentID == "" {
		handlers.RespondBadRequest(w, msgMissingPaymentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &reconcile.Request{PaymentID: paymentID})
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrVerificationFailed):
			// Вебхук провайдера доведет сверку до конца позже
			h.logger.Warn("GET /payments/callback - verification failed: payment_id=%s, error=%v", paymentID, err)
			handlers.RespondError(w, http.StatusAccepted, msgVerifyFailed)

		case errors.Is(err, reconcile.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /payments/callback - failed: payment_id=%s, error=%v", paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &CallbackResponse{
		Outcome:   string(result.Outcome),
		BookingID: result.BookingID,
	})
}
