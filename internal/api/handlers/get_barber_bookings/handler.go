package get_barber_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/api/middleware"
	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings/models"
)

const (
	msgInvalidBarberID = "barbero inválido"
	msgInvalidDate     = "formato de fecha inválido, se espera YYYY-MM-DD"
	msgInvalidFilter   = "filtro inválido"
	msgAccessDenied    = "acceso denegado"
	msgUnauthenticated = "no autenticado"
)

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

// Handle GET /api/v1/barbers/{id}/bookings?startDate=2026-09-01&endDate=2026-09-07&status=confirmed
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

	query := r.URL.Query()
	req := &models.GetBarberBookingsRequest{
		BarberID:        barberID,
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	if v := query.Get("startDate"); v != "" {
		date, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.StartDate = &date
	}

	if v := query.Get("endDate"); v != "" {
		date, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		req.EndDate = &date
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetBarberBookings(r.Context(), req, principal)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /barbers/{id}/bookings - failed: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
