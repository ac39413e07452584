package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/api/middleware"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings/models"
)

const (
	msgInvalidUserID   = "usuario inválido"
	msgInvalidStatus   = "estado de reserva inválido"
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

// Handle GET /api/v1/users/{id}/bookings?status=confirmed
// Клиент видит только свою историю; администратор - любую
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthenticated)
		return
	}

	userID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || userID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	if userID != principal.UserID && !principal.IsAdmin() {
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.GetUserBookingsRequest{
		ClientID: userID,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.GetUserBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{id}/bookings - failed: client_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
