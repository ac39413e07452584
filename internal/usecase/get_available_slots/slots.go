package get_available_slots

import (
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/pkg/types"
)

// generateGridSlots генерирует сетку времен начала слотов на день
// Сетка идет от открытия с фиксированным шагом gridStepMinutes;
// слот попадает в сетку, только если услуга целиком помещается до закрытия
func generateGridSlots(
	window domain.WorkingWindow,
	gridStepMinutes int,
	serviceDurationMinutes int,
	requestDate time.Time,
	now time.Time,
) ([]types.TimeString, error) {
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	if !window.IsOpen || window.StartTime.IsZero() || window.EndTime.IsZero() {
		return []types.TimeString{}, nil
	}

	allSlots := make([]types.TimeString, 0)
	currentSlot := window.StartTime

	for currentSlot.IsBefore(window.EndTime) {
		// Услуга должна целиком помещаться в рабочее окно;
		// конец, перешедший через полночь, окном не считается
		slotEnd, err := currentSlot.AddMinutes(serviceDurationMinutes)
		if err != nil {
			return nil, err
		}
		if !slotEnd.IsAfter(currentSlot) || slotEnd.IsAfter(window.EndTime) {
			break
		}

		allSlots = append(allSlots, currentSlot)
		next, err := currentSlot.AddMinutes(gridStepMinutes)
		if err != nil {
			return nil, err
		}
		if !next.IsAfter(currentSlot) {
			break
		}
		currentSlot = next
	}

	// Для будущих дат отдаем всю сетку
	if !isSameDay(requestDate, now) {
		return allSlots, nil
	}

	// Для сегодняшнего дня исключаем слоты, начинающиеся в прошлом
	currentTime := types.NewTimeString(now)
	futureSlots := make([]types.TimeString, 0)
	for _, slot := range allSlots {
		if slot.IsAfter(currentTime) {
			futureSlots = append(futureSlots, slot)
		}
	}

	return futureSlots, nil
}

// filterFreeSlots оставляет только слоты, не пересекающиеся с активными
// записями и неистекшими удержаниями
// Пересечение проверяется по полуинтервалам [start, end): слот, граничащий
// с записью, свободен
func filterFreeSlots(
	slots []types.TimeString,
	serviceDurationMinutes int,
	date time.Time,
	bookings []*domain.Booking,
	holds []*domain.TemporaryHold,
) ([]types.TimeString, error) {
	free := make([]types.TimeString, 0, len(slots))
	duration := time.Duration(serviceDurationMinutes) * time.Minute

	for _, slot := range slots {
		slotStart, err := slot.OnDate(date)
		if err != nil {
			return nil, err
		}
		slotEnd := slotStart.Add(duration)

		if isSlotTaken(slotStart, slotEnd, bookings, holds) {
			continue
		}

		free = append(free, slot)
	}

	return free, nil
}

// isSlotTaken возвращает true, если интервал занят записью или удержанием
func isSlotTaken(slotStart, slotEnd time.Time, bookings []*domain.Booking, holds []*domain.TemporaryHold) bool {
	for _, booking := range bookings {
		if booking.OverlapsWindow(slotStart, slotEnd) {
			return true
		}
	}

	for _, hold := range holds {
		if hold.OverlapsWindow(slotStart, slotEnd) {
			return true
		}
	}

	return false
}
