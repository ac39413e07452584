package get_available_slots

import (
	"time"

	"github.com/dpereira25/AgendaBarber/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	BarberID  int64     // ID барбера
	ServiceID int64     // ID услуги (определяет длительность слота)
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time        // Дата, на которую запрашивались слоты
	BarberID        int64            // ID барбера
	ServiceID       int64            // ID услуги
	DurationMinutes int              // Длительность услуги в минутах
	Slots           []types.TimeString // Времена начала свободных слотов
}
