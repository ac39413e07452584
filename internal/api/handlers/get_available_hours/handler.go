package get_available_hours

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/domain"
	getSlots "github.com/dpereira25/AgendaBarber/internal/usecase/get_available_slots"
)

const (
	msgInvalidBarberID  = "barbero inválido"
	msgInvalidServiceID = "servicio inválido"
	msgInvalidDate      = "formato de fecha inválido, se espera YYYY-MM-DD"
	msgBarberNotFound   = "barbero no encontrado"
	msgServiceNotFound  = "servicio no encontrado"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbers/{id}/available-hours?serviceId=2&date=2026-09-01&format=select
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	barberID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || barberID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	serviceID, err := strconv.ParseInt(query.Get("serviceId"), 10, 64)
	if err != nil || serviceID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := query.Get("date")
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /barbers/available-hours - invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getSlots.Request{
		BarberID:  barberID,
		ServiceID: serviceID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlots.ErrBarberNotFound):
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, getSlots.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /barbers/available-hours - failed: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формат опций используется формой записи на фронте
	if query.Get("format") == "select" {
		handlers.RespondJSON(w, http.StatusOK, ToSelectResponse(result))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, dateStr))
}
