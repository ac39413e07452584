package update_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/api/middleware"
	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/service/schedule"
	"github.com/dpereira25/AgendaBarber/pkg/types"
)

const (
	msgInvalidBarberID = "barbero inválido"
	msgInvalidBody     = "cuerpo de la solicitud inválido"
	msgInvalidRule     = "regla de horario inválida"
	msgBarberNotFound  = "barbero no encontrado"
	msgAccessDenied    = "acceso denegado"
	msgUnauthenticated = "no autenticado"
)

// UpdateScheduleRequest правило рабочих часов на день недели
type UpdateScheduleRequest struct {
	Weekday   int    `json:"weekday"` // 1..7, Пн..Вс
	IsOpen    bool   `json:"isOpen"`
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`   // "HH:MM"
}

// UpdateScheduleResponse подтверждение сохранения правила
type UpdateScheduleResponse struct {
	BarberID int64 `json:"barberId"`
	Weekday  int   `json:"weekday"`
	IsOpen   bool  `json:"isOpen"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/barbers/{id}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	barberID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || barberID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	var req UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	rule := &domain.ScheduleRule{
		BarberID:  barberID,
		Weekday:   req.Weekday,
		IsOpen:    req.IsOpen,
		StartTime: types.TimeString(req.StartTime),
		EndTime:   types.TimeString(req.EndTime),
	}

	if err := h.service.SetRule(r.Context(), rule, principal); err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, schedule.ErrBarberNotFound):
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRule)

		default:
			h.logger.Error("PUT /barbers/{id}/schedule - failed: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, &UpdateScheduleResponse{
		BarberID: barberID,
		Weekday:  req.Weekday,
		IsOpen:   req.IsOpen,
	})
}
