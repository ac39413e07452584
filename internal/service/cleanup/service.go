package cleanup

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/dpereira25/AgendaBarber/pkg/metrics"
)

// CleanupStats статистика полного прохода чистки
type CleanupStats struct {
	ExpiredHolds      int64 `json:"expiredHolds"`
	CompletedBookings int64 `json:"completedBookings"`
	RevertedBookings  int64 `json:"revertedBookings"`
	DeletedWebhookLogs int64 `json:"deletedWebhookLogs"`
}

// Service сервис фоновой и оппортунистической чистки
// Истекшие удержания убираются двумя путями: периодическим свипером
// и оппортунистическим вызовом MaybeSweep на горячих путях чтения
type Service struct {
	holdRepo       HoldRepository
	webhookLogRepo WebhookLogRepository
	bookingRepo    BookingReconciler
	retention      time.Duration
	timeProvider   TimeProvider
	logger         Logger
	metrics        *metrics.Metrics

	// sweepLimiter ограничивает частоту оппортунистических чисток,
	// чтобы каждый запрос доступности не превращался в DELETE
	sweepLimiter *rate.Limiter
}

// NewService создает новый экземпляр сервиса чистки
// metrics может быть nil, если метрики отключены
func NewService(
	holdRepo HoldRepository,
	webhookLogRepo WebhookLogRepository,
	bookingRepo BookingReconciler,
	sweepInterval time.Duration,
	retentionDays int,
	timeProvider TimeProvider,
	logger Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		holdRepo:       holdRepo,
		webhookLogRepo: webhookLogRepo,
		bookingRepo:    bookingRepo,
		retention:      time.Duration(retentionDays) * 24 * time.Hour,
		timeProvider:   timeProvider,
		logger:         logger,
		metrics:        m,
		sweepLimiter:   rate.NewLimiter(rate.Every(sweepInterval), 1),
	}
}

// SweepExpiredHolds удаляет истекшие удержания и возвращает их количество
// Идемпотентна: повторный вызов без новых истечений возвращает 0
func (s *Service) SweepExpiredHolds(ctx context.Context) (int64, error) {
	deleted, err := s.holdRepo.DeleteExpired(ctx, s.timeProvider.Now())
	if err != nil {
		s.logger.Error("SweepExpiredHolds: failed to delete expired holds: %v", err)
		return 0, fmt.Errorf("%w: SweepExpiredHolds - repository error: %w", ErrInternal, err)
	}

	if deleted > 0 {
		s.logger.Info("SweepExpiredHolds: removed %d expired holds", deleted)
		if s.metrics != nil {
			s.metrics.HoldsExpiredTotal.Add(float64(deleted))
		}
	}

	return deleted, nil
}

// MaybeSweep выполняет чистку, если с прошлой прошло достаточно времени
// Ошибка чистки не прерывает вызывающий путь чтения
func (s *Service) MaybeSweep(ctx context.Context) {
	if !s.sweepLimiter.Allow() {
		return
	}

	if _, err := s.SweepExpiredHolds(ctx); err != nil {
		s.logger.Warn("MaybeSweep: opportunistic sweep failed: %v", err)
	}
}

// CleanupOldWebhookLogs удаляет записи журнала вебхуков старше срока хранения
func (s *Service) CleanupOldWebhookLogs(ctx context.Context) (int64, error) {
	cutoff := s.timeProvider.Now().Add(-s.retention)

	deleted, err := s.webhookLogRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("CleanupOldWebhookLogs: failed to delete old logs: %v", err)
		return 0, fmt.Errorf("%w: CleanupOldWebhookLogs - repository error: %w", ErrInternal, err)
	}

	if deleted > 0 {
		s.logger.Info("CleanupOldWebhookLogs: removed %d webhook logs older than %s", deleted, cutoff.Format(time.RFC3339))
	}

	return deleted, nil
}

// FullCleanup выполняет полный проход чистки:
// истекшие удержания, актуализация статусов записей, старые журналы вебхуков
// Шаги независимы: ошибка одного не отменяет остальные
func (s *Service) FullCleanup(ctx context.Context) (*CleanupStats, error) {
	stats := &CleanupStats{}
	var firstErr error

	now := s.timeProvider.Now()

	expired, err := s.SweepExpiredHolds(ctx)
	if err != nil {
		firstErr = err
	}
	stats.ExpiredHolds = expired

	completed, err := s.bookingRepo.CompleteElapsed(ctx, now)
	if err != nil {
		s.logger.Error("FullCleanup: failed to complete elapsed bookings: %v", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: FullCleanup - complete elapsed: %w", ErrInternal, err)
		}
	}
	stats.CompletedBookings = completed

	reverted, err := s.bookingRepo.RevertPremature(ctx, now)
	if err != nil {
		s.logger.Error("FullCleanup: failed to revert premature bookings: %v", err)
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: FullCleanup - revert premature: %w", ErrInternal, err)
		}
	}
	stats.RevertedBookings = reverted

	deletedLogs, err := s.CleanupOldWebhookLogs(ctx)
	if err != nil && firstErr == nil {
		firstErr = err
	}
	stats.DeletedWebhookLogs = deletedLogs

	return stats, firstErr
}

// RunPeriodic запускает периодическую чистку до отмены контекста
// Предназначена для запуска в отдельной горутине из main
func (s *Service) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("RunPeriodic: cleanup loop started, interval=%s", interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("RunPeriodic: cleanup loop stopped")
			return
		case <-ticker.C:
			if _, err := s.FullCleanup(ctx); err != nil {
				s.logger.Warn("RunPeriodic: cleanup pass finished with error: %v", err)
			}
		}
	}
}
