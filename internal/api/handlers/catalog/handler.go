package catalog

import (
	"net/http"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/domain"
)

// BarberView барбер в списке для формы записи
type BarberView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ExperienceYears int    `json:"experienceYears"`
}

// ServiceView услуга в списке для формы записи
type ServiceView struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
}

type Handler struct {
	repo   CatalogRepository
	logger Logger
}

func NewHandler(repo CatalogRepository, logger Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// HandleListBarbers GET /api/v1/barbers
func (h *Handler) HandleListBarbers(w http.ResponseWriter, r *http.Request) {
	barbers, err := h.repo.ListBarbers(r.Context())
	if err != nil {
		h.logger.Error("GET /barbers - failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	views := make([]BarberView, len(barbers))
	for i, b := range barbers {
		views[i] = BarberView{
			ID:              b.ID,
			Name:            b.Name,
			ExperienceYears: b.ExperienceYears,
		}
	}

	handlers.RespondJSON(w, http.StatusOK, map[string][]BarberView{"barbers": views})
}

// HandleListServices GET /api/v1/services
func (h *Handler) HandleListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.ListServices(r.Context())
	if err != nil {
		h.logger.Error("GET /services - failed: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	views := make([]ServiceView, len(services))
	for i, s := range services {
		views[i] = toServiceView(s)
	}

	handlers.RespondJSON(w, http.StatusOK, map[string][]ServiceView{"services": views})
}

func toServiceView(s *domain.Service) ServiceView {
	return ServiceView{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
	}
}
