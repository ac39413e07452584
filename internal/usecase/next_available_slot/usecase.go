package next_available_slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/internal/usecase/get_available_slots"
)

// UseCase use case поиска ближайшего свободного слота
// Перебирает дни от точки отсчета в пределах горизонта и возвращает
// первый слот, начинающийся строго после нее
type UseCase struct {
	slotsProvider     AvailableSlotsProvider
	searchHorizonDays int
	timeProvider      TimeProvider
	logger            Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotsProvider AvailableSlotsProvider,
	searchHorizonDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotsProvider:     slotsProvider,
		searchHorizonDays: searchHorizonDays,
		timeProvider:      &RealTimeProvider{},
		logger:            logger,
	}
}

// Execute выполняет use case поиска ближайшего свободного слота
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req.BarberID <= 0 {
		return nil, fmt.Errorf("%w: barberID must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	from := now
	if req.From != nil {
		from = *req.From
		// Точка отсчета в прошлом эквивалентна "сейчас"
		if from.Before(now) {
			from = now
		}
	}

	uc.logger.Info("NextAvailableSlot: barber=%d, service=%d, from=%s",
		req.BarberID, req.ServiceID, from.Format(time.RFC3339))

	for day := 0; day <= uc.searchHorizonDays; day++ {
		date := dateOnly(from).AddDate(0, 0, day)

		slots, err := uc.slotsProvider.Execute(ctx, &get_available_slots.Request{
			BarberID:  req.BarberID,
			ServiceID: req.ServiceID,
			Date:      date,
		})
		if err != nil {
			if errors.Is(err, get_available_slots.ErrBarberNotFound) {
				return nil, ErrBarberNotFound
			}
			if errors.Is(err, get_available_slots.ErrServiceNotFound) {
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("NextAvailableSlot: slots lookup failed for date=%s: %v",
				date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: slots lookup failed: %v", ErrInternal, err)
		}

		for _, slot := range slots.Slots {
			slotStart, err := slot.OnDate(date)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid slot time: %v", ErrInternal, err)
			}

			// Слот должен начинаться строго после точки отсчета
			if !slotStart.After(from) {
				continue
			}

			uc.logger.Info("NextAvailableSlot: found slot for barber=%d at %s %s",
				req.BarberID, date.Format(domain.DateFormat), slot)

			return &Response{
				BarberID:        req.BarberID,
				ServiceID:       req.ServiceID,
				Date:            date,
				StartTime:       slot,
				DurationMinutes: slots.DurationMinutes,
			}, nil
		}
	}

	uc.logger.Info("NextAvailableSlot: no slot found for barber=%d within %d days",
		req.BarberID, uc.searchHorizonDays)

	return nil, ErrNoSlotAvailable
}

// dateOnly обнуляет время, оставляя только дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
