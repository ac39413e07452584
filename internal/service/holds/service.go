package holds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	holdRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/hold"
)

// Service сервис для работы с временными удержаниями слотов
type Service struct {
	holdRepo     HoldRepository
	bookingRepo  BookingRepository
	holdTTL      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса удержаний
func NewService(
	holdRepo HoldRepository,
	bookingRepo BookingRepository,
	holdTTL time.Duration,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		holdRepo:     holdRepo,
		bookingRepo:  bookingRepo,
		holdTTL:      holdTTL,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetActive получает активные удержания сессии
func (s *Service) GetActive(ctx context.Context, sessionKey string) ([]*domain.TemporaryHold, error) {
	holds, err := s.holdRepo.GetActiveBySession(ctx, sessionKey, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("GetActive: repository error for session=%s: %v", sessionKey, err)
		return nil, fmt.Errorf("%w: GetActive - repository error: %v", ErrInternal, err)
	}

	return holds, nil
}

// GetByID получает активное удержание по ID
// Истекшие удержания неотличимы от несуществующих
func (s *Service) GetByID(ctx context.Context, id string) (*domain.TemporaryHold, error) {
	hold, err := s.holdRepo.GetByID(ctx, id, s.timeProvider.Now())
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			return nil, ErrHoldNotFound
		}
		s.logger.Error("GetByID: repository error for hold=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return hold, nil
}

// Extend продлевает удержание сессии еще на один TTL от текущего момента
// Истекшее удержание не продлевается: его слот уже мог занять другой клиент
func (s *Service) Extend(ctx context.Context, id string, sessionKey string) (*domain.TemporaryHold, error) {
	now := s.timeProvider.Now()

	hold, err := s.holdRepo.GetByID(ctx, id, now)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			s.logger.Warn("Extend: hold id=%s not found or expired", id)
			return nil, ErrHoldExpired
		}
		s.logger.Error("Extend: repository error for hold=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Extend - repository error: %v", ErrInternal, err)
	}

	if hold.SessionKey != sessionKey {
		s.logger.Warn("Extend: session mismatch for hold id=%s", id)
		return nil, ErrAccessDenied
	}

	expiresAt := now.Add(s.holdTTL)
	if err := s.holdRepo.Extend(ctx, id, expiresAt, now); err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			return nil, ErrHoldExpired
		}
		s.logger.Error("Extend: failed to extend hold id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Extend - repository error: %v", ErrInternal, err)
	}

	hold.ExpiresAt = expiresAt
	s.logger.Info("Extend: hold id=%s extended until %s", id, expiresAt.Format(time.RFC3339))

	return hold, nil
}

// IsAvailable проверяет, свободен ли интервал [start, end) у барбера
// Интервал занят, если с ним пересекается активная запись или
// неистекшее удержание (кроме excludeHoldID)
// Внутри serializable-транзакции выборки блокируют строки FOR UPDATE
func (s *Service) IsAvailable(ctx context.Context, barberID int64, start, end time.Time, excludeHoldID string) (bool, error) {
	now := s.timeProvider.Now()

	bookings, err := s.bookingRepo.GetActiveByBarberAndRange(ctx, barberID, start, end)
	if err != nil {
		s.logger.Error("IsAvailable: failed to fetch bookings for barber=%d: %v", barberID, err)
		return false, fmt.Errorf("%w: IsAvailable - bookings query: %v", ErrInternal, err)
	}
	if len(bookings) > 0 {
		return false, nil
	}

	activeHolds, err := s.holdRepo.GetActiveByBarberAndRange(ctx, barberID, start, end, excludeHoldID, now)
	if err != nil {
		s.logger.Error("IsAvailable: failed to fetch holds for barber=%d: %v", barberID, err)
		return false, fmt.Errorf("%w: IsAvailable - holds query: %v", ErrInternal, err)
	}

	return len(activeHolds) == 0, nil
}
