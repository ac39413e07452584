package create_booking

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/api/middleware"
	createBooking "github.com/dpereira25/AgendaBarber/internal/usecase/create_booking"
)

const (
	msgInvalidBody          = "cuerpo de la solicitud inválido"
	msgInvalidDateOrTime    = "fecha u hora inválida"
	msgMissingSessionKey    = "falta la clave de sesión"
	msgBarberNotFound       = "barbero no encontrado"
	msgServiceNotFound      = "servicio no encontrado"
	msgSlotNotAvailable     = "el horario seleccionado ya no está disponible"
	msgSlotHeldFmt          = "el horario está reservado temporalmente por otro cliente, se libera en %d minutos"
	msgTimeInPast           = "no se puede reservar un horario en el pasado"
	msgOutsideWorkingHours  = "el horario está fuera del horario de atención"
	msgBarberClosed         = "el barbero no atiende ese día"
	msgPaymentSetupFailed   = "no se pudo iniciar el pago, intentá de nuevo en unos minutos"
	msgUnauthenticated      = "no autenticado"
)

// sessionKeyHeader идентифицирует браузерную сессию клиента.
// Позволяет переиспользовать удержание при повторной отправке формы.
const sessionKeyHeader = "X-Session-Key"

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	sessionKey := r.Header.Get(sessionKeyHeader)
	if sessionKey == "" {
		handlers.RespondBadRequest(w, msgMissingSessionKey)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(principal.UserID, sessionKey)
	if err != nil {
		h.logger.Warn("POST /bookings - invalid date/time: date=%q, start=%q, error=%v", req.Date, req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		h.respondError(w, req.BarberID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, barberID int64, err error) {
	var heldErr *createBooking.SlotHeldError
	if errors.As(err, &heldErr) {
		minutes := int(heldErr.ReleasesIn.Round(time.Minute) / time.Minute)
		if minutes < 1 {
			minutes = 1
		}
		handlers.RespondError(w, http.StatusConflict, fmt.Sprintf(msgSlotHeldFmt, minutes))
		return
	}

	switch {
	case errors.Is(err, createBooking.ErrSlotNotAvailable):
		handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

	case errors.Is(err, createBooking.ErrBarberNotFound):
		handlers.RespondNotFound(w, msgBarberNotFound)

	case errors.Is(err, createBooking.ErrServiceNotFound):
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createBooking.ErrTimeInPast):
		handlers.RespondBadRequest(w, msgTimeInPast)

	case errors.Is(err, createBooking.ErrOutsideWorkingHours):
		handlers.RespondBadRequest(w, msgOutsideWorkingHours)

	case errors.Is(err, createBooking.ErrBarberClosed):
		handlers.RespondBadRequest(w, msgBarberClosed)

	case errors.Is(err, createBooking.ErrInvalidInput):
		handlers.RespondBadRequest(w, err.Error())

	case errors.Is(err, createBooking.ErrPaymentSetupFailed):
		h.logger.Error("POST /bookings - payment setup failed: barber_id=%d, error=%v", barberID, err)
		handlers.RespondError(w, http.StatusBadGateway, msgPaymentSetupFailed)

	default:
		h.logger.Error("POST /bookings - failed: barber_id=%d, error=%v", barberID, err)
		handlers.RespondInternalError(w)
	}
}
