package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	bookingRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/booking"
	"github.com/dpereira25/AgendaBarber/internal/service/bookings/models"
)

// Service сервис для работы с записями
type Service struct {
	bookingRepo    BookingRepository
	timeProvider   TimeProvider
	cancelLeadTime time.Duration
	logger         Logger
}

// NewService создает новый экземпляр сервиса записей
// cancelLeadTime - минимальное время до начала, за которое еще можно отменить запись
func NewService(
	bookingRepo BookingRepository,
	timeProvider TimeProvider,
	cancelLeadTime time.Duration,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		timeProvider:   timeProvider,
		cancelLeadTime: cancelLeadTime,
		logger:         logger,
	}
}

// GetByID получает запись по ID
// Проверяет права доступа: клиент видит только свои записи,
// барбер - записи к себе, администратор - любые
func (s *Service) GetByID(ctx context.Context, id int64, principal domain.Principal) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, principal.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !principal.CanActOnBooking(booking) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", principal.UserID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// GetUserBookings получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings, s.timeProvider.Now()), nil
}

// GetBarberBookings получает записи барбера с гибкой фильтрацией
// Доступно самому барберу и администраторам
func (s *Service) GetBarberBookings(ctx context.Context, req *models.GetBarberBookingsRequest, principal domain.Principal) (*models.BookingListResponse, error) {
	s.logger.Info("GetBarberBookings: fetching bookings for barber=%d by user=%d", req.BarberID, principal.UserID)

	if !principal.IsAdmin() {
		if !principal.IsBarber() || principal.BarberID == nil || *principal.BarberID != req.BarberID {
			s.logger.Warn("GetBarberBookings: access denied for user=%d to barber=%d", principal.UserID, req.BarberID)
			return nil, ErrAccessDenied
		}
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBarberBookings: invalid filter for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBarberWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBarberBookings: repository error for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: GetBarberBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBarberBookings: successfully fetched %d bookings for barber=%d", len(bookings), req.BarberID)
	return models.FromDomainBookingList(bookings, s.timeProvider.Now()), nil
}

// Cancel отменяет запись
// Клиент и барбер могут отменить запись не позднее лид-тайма до начала;
// администратор может отменить запись в любой момент до начала
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest, principal domain.Principal) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, principal.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !principal.CanActOnBooking(booking) {
		s.logger.Warn("Cancel: access denied for user=%d to booking id=%d", principal.UserID, bookingID)
		return ErrAccessDenied
	}

	now := s.timeProvider.Now()

	// Статус проверяется производным значением: запись, чье время уже
	// прошло, отменить нельзя, даже если в БД она еще pending
	derived := domain.DeriveStatus(now, booking)
	if derived != domain.StatusPending && derived != domain.StatusConfirmed {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, derived)
		return ErrCannotCancel
	}

	// Лид-тайм распространяется и на клиента, и на барбера;
	// администратор может отменить запись в любой момент
	if !principal.IsAdmin() {
		timeUntilStart := booking.StartTime.Sub(now)
		if timeUntilStart < s.cancelLeadTime {
			s.logger.Warn("Cancel: booking id=%d too close to start, %s remaining", bookingID, timeUntilStart)
			return &CancelTooLateError{
				LeadTime:       s.cancelLeadTime,
				TimeUntilStart: timeUntilStart,
			}
		}
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// ReconcileStatuses приводит хранимые статусы к производным:
// завершает истекшие активные записи и возвращает в pending записи,
// помеченные завершенными раньше времени
func (s *Service) ReconcileStatuses(ctx context.Context) (*models.ReconcileResult, error) {
	now := s.timeProvider.Now()

	completed, err := s.bookingRepo.CompleteElapsed(ctx, now)
	if err != nil {
		s.logger.Error("ReconcileStatuses: failed to complete elapsed bookings: %v", err)
		return nil, fmt.Errorf("%w: ReconcileStatuses - complete elapsed: %v", ErrInternal, err)
	}

	reverted, err := s.bookingRepo.RevertPremature(ctx, now)
	if err != nil {
		s.logger.Error("ReconcileStatuses: failed to revert premature bookings: %v", err)
		return nil, fmt.Errorf("%w: ReconcileStatuses - revert premature: %v", ErrInternal, err)
	}

	if completed > 0 || reverted > 0 {
		s.logger.Info("ReconcileStatuses: completed=%d reverted=%d", completed, reverted)
	}

	return &models.ReconcileResult{Completed: completed, Reverted: reverted}, nil
}
