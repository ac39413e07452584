package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	catalogRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/catalog"
	scheduleSvc "github.com/dpereira25/AgendaBarber/internal/service/schedule"
	"github.com/dpereira25/AgendaBarber/pkg/types"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	bookingRepo     BookingRepository
	holdRepo        HoldRepository
	catalogRepo     CatalogRepository
	scheduleService ScheduleService
	sweeper         Sweeper
	gridStepMinutes int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	catalogRepo CatalogRepository,
	scheduleService ScheduleService,
	sweeper Sweeper,
	gridStepMinutes int,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		holdRepo:        holdRepo,
		catalogRepo:     catalogRepo,
		scheduleService: scheduleService,
		sweeper:         sweeper,
		gridStepMinutes: gridStepMinutes,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: barber=%d, service=%d, date=%s",
		req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Оппортунистическая чистка истекших удержаний
	// Идет до выборок, чтобы ответ не показывал слоты занятыми мертвыми удержаниями
	uc.sweeper.MaybeSweep(ctx)

	now := uc.timeProvider.Now()

	// 3. Получаем услугу (определяет длительность слота)
	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Получаем рабочее окно барбера на дату
	// Неизвестный барбер отсекается здесь же
	window, err := uc.scheduleService.WorkingHours(ctx, req.BarberID, req.Date)
	if err != nil {
		if errors.Is(err, scheduleSvc.ErrBarberNotFound) {
			uc.logger.Warn("GetAvailableSlots: barber id=%d not found", req.BarberID)
			return nil, ErrBarberNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get working hours for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	if !window.IsOpen {
		uc.logger.Info("GetAvailableSlots: barber=%d is closed on %s", req.BarberID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, service.DurationMinutes), nil
	}

	// 5. Генерируем сетку слотов
	gridSlots, err := generateGridSlots(window, uc.gridStepMinutes, service.DurationMinutes, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	if len(gridSlots) == 0 {
		return uc.emptyResponse(req, service.DurationMinutes), nil
	}

	// 6. Получаем занятость на весь день одним запросом на каждую таблицу
	dayStart, err := window.StartTime.OnDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid working window: %v", ErrInternal, err)
	}
	dayEnd, err := window.EndTime.OnDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid working window: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetActiveByBarberAndRange(ctx, req.BarberID, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	holds, err := uc.holdRepo.GetActiveByBarberAndRange(ctx, req.BarberID, dayStart, dayEnd, "", now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get holds for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get holds: %v", ErrInternal, err)
	}

	// 7. Оставляем только свободные слоты
	freeSlots, err := filterFreeSlots(gridSlots, service.DurationMinutes, req.Date, bookings, holds)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to filter slots: %v", err)
		return nil, fmt.Errorf("%w: failed to filter slots: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: %d free slots for barber=%d, service=%d, date=%s",
		len(freeSlots), req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           freeSlots,
	}, nil
}

func (uc *UseCase) emptyResponse(req *Request, durationMinutes int) *Response {
	return &Response{
		Date:            req.Date,
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		DurationMinutes: durationMinutes,
		Slots:           []types.TimeString{},
	}
}
