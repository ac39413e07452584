package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	catalogRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/catalog"
	scheduleRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/schedule"
)

// Service сервис рабочего календаря барберов
// Явные правила хранятся в БД; для дней без правила действует
// расписание по умолчанию
type Service struct {
	scheduleRepo ScheduleRepository
	catalogRepo  CatalogRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		catalogRepo:  catalogRepo,
		logger:       logger,
	}
}

// WorkingHours возвращает рабочее окно барбера на дату
// Неизвестный барбер - ошибка, а не пустое окно: эти случаи
// должны быть различимы для вызывающего кода
func (s *Service) WorkingHours(ctx context.Context, barberID int64, date time.Time) (domain.WorkingWindow, error) {
	if _, err := s.catalogRepo.GetBarber(ctx, barberID); err != nil {
		if errors.Is(err, catalogRepo.ErrBarberNotFound) {
			s.logger.Warn("WorkingHours: barber id=%d not found", barberID)
			return domain.Closed(), ErrBarberNotFound
		}
		s.logger.Error("WorkingHours: failed to fetch barber id=%d: %v", barberID, err)
		return domain.Closed(), fmt.Errorf("%w: WorkingHours - catalog error: %v", ErrInternal, err)
	}

	weekday := domain.ISOWeekday(date)

	rule, err := s.scheduleRepo.GetByBarberAndWeekday(ctx, barberID, weekday)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrRuleNotFound) {
			return domain.DefaultWorkingWindow(weekday), nil
		}
		s.logger.Error("WorkingHours: failed to fetch rule for barber=%d weekday=%d: %v", barberID, weekday, err)
		return domain.Closed(), fmt.Errorf("%w: WorkingHours - repository error: %v", ErrInternal, err)
	}

	return rule.Window(), nil
}

// WeekSchedule возвращает рабочие окна барбера на все дни недели (1..7)
// Дни без явного правила заполняются расписанием по умолчанию
func (s *Service) WeekSchedule(ctx context.Context, barberID int64) (map[int]domain.WorkingWindow, error) {
	if _, err := s.catalogRepo.GetBarber(ctx, barberID); err != nil {
		if errors.Is(err, catalogRepo.ErrBarberNotFound) {
			s.logger.Warn("WeekSchedule: barber id=%d not found", barberID)
			return nil, ErrBarberNotFound
		}
		s.logger.Error("WeekSchedule: failed to fetch barber id=%d: %v", barberID, err)
		return nil, fmt.Errorf("%w: WeekSchedule - catalog error: %v", ErrInternal, err)
	}

	rules, err := s.scheduleRepo.ListByBarber(ctx, barberID)
	if err != nil {
		s.logger.Error("WeekSchedule: failed to list rules for barber=%d: %v", barberID, err)
		return nil, fmt.Errorf("%w: WeekSchedule - repository error: %v", ErrInternal, err)
	}

	week := make(map[int]domain.WorkingWindow, 7)
	for weekday := 1; weekday <= 7; weekday++ {
		week[weekday] = domain.DefaultWorkingWindow(weekday)
	}
	for _, rule := range rules {
		week[rule.Weekday] = rule.Window()
	}

	return week, nil
}

// SetRule создает или обновляет явное правило расписания
// Доступно самому барберу и администраторам
func (s *Service) SetRule(ctx context.Context, rule *domain.ScheduleRule, principal domain.Principal) error {
	if !principal.IsAdmin() {
		if !principal.IsBarber() || principal.BarberID == nil || *principal.BarberID != rule.BarberID {
			s.logger.Warn("SetRule: access denied for user=%d to barber=%d", principal.UserID, rule.BarberID)
			return ErrAccessDenied
		}
	}

	if rule.Weekday < 1 || rule.Weekday > 7 {
		return fmt.Errorf("%w: weekday must be 1..7", ErrInvalidInput)
	}

	if rule.IsOpen {
		if err := rule.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid start_time: %v", ErrInvalidInput, err)
		}
		if err := rule.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid end_time: %v", ErrInvalidInput, err)
		}
		if !rule.StartTime.IsBefore(rule.EndTime) {
			return fmt.Errorf("%w: start_time must be before end_time", ErrInvalidInput)
		}
	}

	if _, err := s.catalogRepo.GetBarber(ctx, rule.BarberID); err != nil {
		if errors.Is(err, catalogRepo.ErrBarberNotFound) {
			return ErrBarberNotFound
		}
		s.logger.Error("SetRule: failed to fetch barber id=%d: %v", rule.BarberID, err)
		return fmt.Errorf("%w: SetRule - catalog error: %v", ErrInternal, err)
	}

	if err := s.scheduleRepo.Upsert(ctx, rule); err != nil {
		s.logger.Error("SetRule: failed to upsert rule for barber=%d weekday=%d: %v", rule.BarberID, rule.Weekday, err)
		return fmt.Errorf("%w: SetRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetRule: rule saved for barber=%d weekday=%d open=%t", rule.BarberID, rule.Weekday, rule.IsOpen)
	return nil
}
