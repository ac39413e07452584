package cancel_booking

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/api/middleware"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "identificador de reserva inválido"
	msgInvalidBody      = "cuerpo de la solicitud inválido"
	msgBookingNotFound  = "reserva no encontrada"
	msgAccessDenied     = "acceso denegado"
	msgCannotCancel     = "la reserva no se puede cancelar"
	msgTooLateFmt       = "no es posible cancelar con menos de %d horas de anticipación, faltan %s para el turno"
	msgUnauthenticated  = "no autenticado"
)

// CancelResponse HTTP ответ на отмену записи
type CancelResponse struct {
	BookingID int64  `json:"bookingId"`
	Status    string `json:"status"`
}

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || bookingID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Тело опционально: причина отмены может отсутствовать
	var req models.CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	if err := h.service.Cancel(r.Context(), bookingID, &req, principal); err != nil {
		h.respondError(w, bookingID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &CancelResponse{
		BookingID: bookingID,
		Status:    "cancelled",
	})
}

func (h *Handler) respondError(w http.ResponseWriter, bookingID int64, err error) {
	var tooLate *bookings.CancelTooLateError
	if errors.As(err, &tooLate) {
		handlers.RespondError(w, http.StatusConflict, fmt.Sprintf(msgTooLateFmt,
			int(tooLate.LeadTime.Hours()), formatRemaining(tooLate.TimeUntilStart)))
		return
	}

	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		handlers.RespondNotFound(w, msgBookingNotFound)

	case errors.Is(err, bookings.ErrAccessDenied):
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, bookings.ErrCannotCancel):
		handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

	default:
		h.logger.Error("PATCH /bookings/{id}/cancel - failed: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondInternalError(w)
	}
}

// formatRemaining форматирует остаток времени до начала в читаемый вид: "1h 35m"
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
