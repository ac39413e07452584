package next_available_slot

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/domain"
	nextSlot "github.com/dpereira25/AgendaBarber/internal/usecase/next_available_slot"
)

const (
	msgInvalidBarberID  = "barbero inválido"
	msgInvalidServiceID = "servicio inválido"
	msgInvalidFrom      = "formato de fecha inválido para el parámetro from"
	msgBarberNotFound   = "barbero no encontrado"
	msgServiceNotFound  = "servicio no encontrado"
	msgNoSlotAvailable  = "no hay turnos disponibles en los próximos días"
)

// SlotResponse HTTP ответ с найденным слотом
type SlotResponse struct {
	BarberID        int64  `json:"barberId"`
	ServiceID       int64  `json:"serviceId"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

type Handler struct {
	useCase NextAvailableSlotUseCase
	logger  Logger
}

func NewHandler(useCase NextAvailableSlotUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbers/{id}/next-available-slot?serviceId=2&from=2026-09-01T10:00:00Z
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

	req := &nextSlot.Request{
		BarberID:  barberID,
		ServiceID: serviceID,
	}

	if fromStr := query.Get("from"); fromStr != "" {
		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		req.From = &from
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, nextSlot.ErrBarberNotFound):
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, nextSlot.ErrServiceNotFound):
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, nextSlot.ErrNoSlotAvailable):
			handlers.RespondNotFound(w, msgNoSlotAvailable)

		case errors.Is(err, nextSlot.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /barbers/next-available-slot - failed: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &SlotResponse{
		BarberID:        result.BarberID,
		ServiceID:       result.ServiceID,
		Date:            result.Date.Format(domain.DateFormat),
		StartTime:       result.StartTime.String(),
		DurationMinutes: result.DurationMinutes,
	})
}
