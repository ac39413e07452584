package cleanup_expired

import (
	"net/http"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
)

type Handler struct {
	service CleanupService
	logger  Logger
}

func NewHandler(service CleanupService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/cleanup-expired
// Ручной запуск полного прохода чистки; маршрут закрыт RequireAdmin
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.FullCleanup(r.Context())
	if err != nil {
		h.logger.Error("POST /admin/cleanup-expired - failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}
