package get_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dpereira25/AgendaBarber/internal/api/handlers"
	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/service/schedule"
)

const (
	msgInvalidBarberID = "barbero inválido"
	msgBarberNotFound  = "barbero no encontrado"
)

// DayWindow рабочее окно одного дня недели
type DayWindow struct {
	Weekday   int    `json:"weekday"` // 1..7, Пн..Вс
	IsOpen    bool   `json:"isOpen"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// WeekScheduleResponse расписание барбера на неделю
type WeekScheduleResponse struct {
	BarberID int64       `json:"barberId"`
	Days     []DayWindow `json:"days"`
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

// Handle GET /api/v1/barbers/{id}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || barberID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	week, err := h.service.WeekSchedule(r.Context(), barberID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrBarberNotFound):
			handlers.RespondNotFound(w, msgBarberNotFound)

		default:
			h.logger.Error("GET /barbers/{id}/schedule - failed: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, toWeekResponse(barberID, week))
}

func toWeekResponse(barberID int64, week map[int]domain.WorkingWindow) *WeekScheduleResponse {
	days := make([]DayWindow, 0, 7)
	for weekday := 1; weekday <= 7; weekday++ {
		window := week[weekday]
		day := DayWindow{
			Weekday: weekday,
			IsOpen:  window.IsOpen,
		}
		if window.IsOpen {
			day.StartTime = window.StartTime.String()
			day.EndTime = window.EndTime.String()
		}
		days = append(days, day)
	}

	return &WeekScheduleResponse{
		BarberID: barberID,
		Days:     days,
	}
}
