package next_available_slot

import (
	"time"

	"github.com/dpereira25/AgendaBarber/pkg/types"
)

// Request модель запроса на поиск ближайшего свободного слота
type Request struct {
	BarberID  int64      // ID барбера
	ServiceID int64      // ID услуги
	From      *time.Time // Искать строго после этого момента; по умолчанию - сейчас
}

// Response модель ответа с найденным слотом
type Response struct {
	BarberID        int64            // ID барбера
	ServiceID       int64            // ID услуги
	Date            time.Time        // Дата слота
	StartTime       types.TimeString // Время начала слота
	DurationMinutes int              // Длительность услуги в минутах
}
