package domain

import (
	"time"

	"github.com/dpereira25/AgendaBarber/pkg/types"
)

// ScheduleRule явное правило рабочих часов барбера на день недели
// Уникально по (barber_id, weekday); weekday в ISO-нумерации 1..7 (Пн..Вс)
// Правило с IsOpen=false помечает день выходным
type ScheduleRule struct {
	ID        int64
	BarberID  int64
	Weekday   int
	IsOpen    bool
	StartTime types.TimeString
	EndTime   types.TimeString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window возвращает рабочее окно, заданное правилом
func (r *ScheduleRule) Window() WorkingWindow {
	if !r.IsOpen {
		return Closed()
	}
	return WorkingWindow{IsOpen: true, StartTime: r.StartTime, EndTime: r.EndTime}
}

// WorkingWindow рабочее окно барбера на конкретную дату
type WorkingWindow struct {
	IsOpen    bool
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Closed закрытое рабочее окно
func Closed() WorkingWindow {
	return WorkingWindow{IsOpen: false}
}

// DefaultWorkingWindow возвращает рабочее окно по умолчанию для дня недели
// Применяется, когда у барбера нет явного правила:
// Пн-Пт 18:00-21:00, Сб 09:00-18:00, Вс закрыто
func DefaultWorkingWindow(weekday int) WorkingWindow {
	switch {
	case weekday >= 1 && weekday <= 5:
		return WorkingWindow{IsOpen: true, StartTime: "18:00", EndTime: "21:00"}
	case weekday == 6:
		return WorkingWindow{IsOpen: true, StartTime: "09:00", EndTime: "18:00"}
	default:
		return Closed()
	}
}

// ISOWeekday возвращает день недели даты в ISO-нумерации 1..7
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
