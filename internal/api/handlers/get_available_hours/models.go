package get_available_hours

import (
	getSlots "github.com/dpereira25/AgendaBarber/internal/usecase/get_available_slots"
)

// HourOption вариант времени для выпадающего списка формы записи
type HourOption struct {
	Value string `json:"value"` // "18:00"
	Text  string `json:"text"`  // "18:00 hs"
}

// SelectResponse ответ в формате опций для формы (format=select)
type SelectResponse struct {
	Hours []HourOption `json:"hours"`
}

// HoursResponse ответ со списком свободных времен
type HoursResponse struct {
	Date            string   `json:"date"`
	BarberID        int64    `json:"barberId"`
	ServiceID       int64    `json:"serviceId"`
	DurationMinutes int      `json:"durationMinutes"`
	Hours           []string `json:"hours"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response, dateStr string) *HoursResponse {
	hours := make([]string, len(resp.Slots))
	for i, slot := range resp.Slots {
		hours[i] = slot.String()
	}

	return &HoursResponse{
		Date:            dateStr,
		BarberID:        resp.BarberID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Hours:           hours,
	}
}

// ToSelectResponse конвертирует ответ use case в опции формы
func ToSelectResponse(resp *getSlots.Response) *SelectResponse {
	options := make([]HourOption, len(resp.Slots))
	for i, slot := range resp.Slots {
		options[i] = HourOption{
			Value: slot.String(),
			Text:  slot.String() + " hs",
		}
	}
	return &SelectResponse{Hours: options}
}
