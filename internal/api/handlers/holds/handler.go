package holds

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/domain"
	holdsService "github.com/dpereira25/AgendaBarber/internal/service/holds"
)

const (
	msgMissingSessionKey = "falta la clave de sesión"
	msgHoldExpired       = "la reserva temporal expiró, elegí el horario de nuevo"
	msgAccessDenied      = "acceso denegado"
)

const sessionKeyHeader = "X-Session-Key"

// HoldView представление удержания для страницы checkout
type HoldView struct {
	ID               string `json:"id"`
	BarberID         int64  `json:"barberId"`
	ServiceID        int64  `json:"serviceId"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	ExpiresAt        string `json:"expiresAt"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

// ActiveHoldsResponse ответ со списком активных удержаний сессии
type ActiveHoldsResponse struct {
	Holds []HoldView `json:"holds"`
}

type Handler struct {
	service HoldsService
	logger  Logger
}

func NewHandler(service HoldsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGetActive GET /api/v1/holds
// Возвращает активные удержания сессии для таймера на checkout-странице
func (h *Handler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	sessionKey := r.Header.Get(sessionKeyHeader)
	if sessionKey == "" {
		handlers.RespondBadRequest(w, msgMissingSessionKey)
		return
	}

	result, err := h.service.GetActive(r.Context(), sessionKey)
	if err != nil {
		h.logger.Error("GET /holds - failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	now := time.Now()
	views := make([]HoldView, len(result))
	for i, hold := range result {
		views[i] = toHoldView(hold, now)
	}

	handlers.RespondJSON(w, http.StatusOK, &ActiveHoldsResponse{Holds: views})
}

// HandleExtend POST /api/v1/holds/{id}/extend
// Продлевает удержание сессии еще на один TTL
func (h *Handler) HandleExtend(w http.ResponseWriter, r *http.Request) {
	sessionKey := r.Header.Get(sessionKeyHeader)
	if sessionKey == "" {
		handlers.RespondBadRequest(w, msgMissingSessionKey)
		return
	}

	holdID := mux.Vars(r)["id"]

	hold, err := h.service.Extend(r.Context(), holdID, sessionKey)
	if err != nil {
		switch {
		case errors.Is(err, holdsService.ErrHoldExpired), errors.Is(err, holdsService.ErrHoldNotFound):
			handlers.RespondError(w, http.StatusGone, msgHoldExpired)

		case errors.Is(err, holdsService.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("POST /holds/{id}/extend - failed: hold_id=%s, error=%v", holdID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, toHoldView(hold, time.Now()))
}

func toHoldView(hold *domain.TemporaryHold, now time.Time) HoldView {
	remaining := int(hold.ExpiresAt.Sub(now).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	return HoldView{
		ID:               hold.ID,
		BarberID:         hold.BarberID,
		ServiceID:        hold.ServiceID,
		StartTime:        hold.StartTime.Format(time.RFC3339),
		EndTime:          hold.EndTime.Format(time.RFC3339),
		ExpiresAt:        hold.ExpiresAt.Format(time.RFC3339),
		RemainingSeconds: remaining,
	}
}
