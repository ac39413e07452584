package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	catalogRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/catalog"
	holdRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/hold"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
	scheduleSvc "github.com/dpereira25/AgendaBarber/internal/service/schedule"
	"github.com/dpereira25/AgendaBarber/pkg/metrics"
	"github.com/dpereira25/AgendaBarber/pkg/txmanager"
)

// UseCase use case создания записи
// Слот не бронируется сразу: сначала создается временное удержание
// и checkout-ссылка; запись появляется после подтверждения оплаты
// В dev-режиме без платежного провайдера запись создается напрямую
type UseCase struct {
	bookingRepo     BookingRepository
	holdRepo        HoldRepository
	catalogRepo     CatalogRepository
	scheduleService ScheduleService
	paymentClient   PaymentClient
	sweeper         Sweeper
	txManager       TransactionManager
	config          Config
	timeProvider    TimeProvider
	logger          Logger
	metrics         *metrics.Metrics
}

// NewUseCase создает новый экземпляр use case
// m может быть nil, если метрики отключены
func NewUseCase(
	bookingRepo BookingRepository,
	holdRepo HoldRepository,
	catalogRepo CatalogRepository,
	scheduleService ScheduleService,
	paymentClient PaymentClient,
	sweeper Sweeper,
	txManager TransactionManager,
	config Config,
	logger Logger,
	m *metrics.Metrics,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		holdRepo:        holdRepo,
		catalogRepo:     catalogRepo,
		scheduleService: scheduleService,
		paymentClient:   paymentClient,
		sweeper:         sweeper,
		txManager:       txManager,
		config:          config,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
		metrics:         m,
	}
}

// Execute выполняет use case создания записи
// Проверка доступности и создание удержания идут в одной сериализуемой
// транзакции: конкурентные запросы на один слот разрешаются конфликтом
// сериализации, который ретраится и в худшем случае превращается
// в ErrSlotNotAvailable
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, barber=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.BarberID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем барбера и услугу
	barber, err := uc.catalogRepo.GetBarber(ctx, req.BarberID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrBarberNotFound) {
			uc.logger.Warn("CreateBooking: barber id=%d not found", req.BarberID)
			return nil, ErrBarberNotFound
		}
		uc.logger.Error("CreateBooking: failed to get barber id=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get barber: %w", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %w", ErrInternal, err)
	}

	// 3. Вычисляем границы слота
	// Конец слота всегда start + длительность услуги, клиент его не задает
	slotStart, err := req.StartTime.OnDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}
	slotEnd := slotStart.Add(service.Duration())

	if !slotStart.After(now) {
		uc.logger.Warn("CreateBooking: slot start %s is in the past", slotStart.Format(time.RFC3339))
		return nil, ErrTimeInPast
	}

	// 4. Проверяем рабочее окно барбера
	window, err := uc.scheduleService.WorkingHours(ctx, req.BarberID, req.Date)
	if err != nil {
		if errors.Is(err, scheduleSvc.ErrBarberNotFound) {
			return nil, ErrBarberNotFound
		}
		uc.logger.Error("CreateBooking: failed to get working hours for barber=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get working hours: %w", ErrInternal, err)
	}

	if err := validateSlotWindow(window, slotStart, slotEnd, req.Date); err != nil {
		uc.logger.Warn("CreateBooking: slot %s-%s rejected for barber=%d: %v",
			slotStart.Format(time.RFC3339), slotEnd.Format(time.RFC3339), req.BarberID, err)
		return nil, err
	}

	var (
		hold       *domain.TemporaryHold
		holdReused bool
		booking    *domain.Booking
	)

	// 5. Проверка доступности и создание удержания в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Убираем истекшие удержания, чтобы они не занимали слот
		if _, err := uc.sweeper.SweepExpiredHolds(txCtx); err != nil {
			uc.logger.Error("CreateBooking: sweep failed: %v", err)
			return fmt.Errorf("%w: sweep failed: %w", ErrInternal, err)
		}

		// 5.2. Повторная отправка формы той же сессией на тот же слот
		// переиспользует существующее удержание вместо конфликта
		existing, err := uc.holdRepo.GetActiveBySessionSlot(txCtx, req.SessionKey, req.BarberID, slotStart, now)
		if err != nil && !errors.Is(err, holdRepo.ErrHoldNotFound) {
			uc.logger.Error("CreateBooking: session slot lookup failed: %v", err)
			return fmt.Errorf("%w: session slot lookup failed: %w", ErrInternal, err)
		}

		if existing != nil {
			expiresAt := now.Add(uc.config.HoldTTL)
			if err := uc.holdRepo.Refresh(txCtx, existing.ID, req.ClientEmail, req.ClientName, expiresAt); err != nil {
				uc.logger.Error("CreateBooking: failed to refresh hold id=%s: %v", existing.ID, err)
				return fmt.Errorf("%w: failed to refresh hold: %w", ErrInternal, err)
			}

			existing.ClientEmail = req.ClientEmail
			existing.ClientName = req.ClientName
			existing.ExpiresAt = expiresAt
			hold = existing
			holdReused = true

			uc.logger.Info("CreateBooking: reusing hold id=%s for session=%s", existing.ID, req.SessionKey)
			return nil
		}

		// 5.3. Проверяем доступность слота с блокировкой строк (FOR UPDATE)
		if err := uc.checkSlotFree(txCtx, req.BarberID, slotStart, slotEnd, now); err != nil {
			return err
		}

		// 5.4. В dev-режиме без провайдера создаем запись напрямую
		if !uc.config.PaymentEnabled {
			created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
				ClientID:      req.ClientID,
				BarberID:      req.BarberID,
				ServiceID:     req.ServiceID,
				StartTime:     slotStart,
				EndTime:       slotEnd,
				Paid:          false,
				PaymentMethod: domain.PaymentMethodNone,
				Status:        domain.StatusConfirmed,
				ServiceName:   service.Name,
				ServicePrice:  service.Price,
				ClientEmail:   &req.ClientEmail,
				ClientName:    &req.ClientName,
			})
			if err != nil {
				uc.logger.Error("CreateBooking: failed to create booking: %v", err)
				return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
			}

			booking = created
			return nil
		}

		// 5.5. Создаем удержание слота на время оплаты
		created, err := uc.holdRepo.Create(txCtx, &domain.TemporaryHold{
			ID:          uuid.NewString(),
			SessionKey:  req.SessionKey,
			ClientID:    req.ClientID,
			BarberID:    req.BarberID,
			ServiceID:   req.ServiceID,
			StartTime:   slotStart,
			EndTime:     slotEnd,
			ClientEmail: req.ClientEmail,
			ClientName:  req.ClientName,
			ExpiresAt:   now.Add(uc.config.HoldTTL),
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create hold: %v", err)
			return fmt.Errorf("%w: failed to create hold: %w", ErrInternal, err)
		}

		hold = created
		return nil
	})

	if err != nil {
		// Исчерпанные ретраи сериализации означают проигранную гонку за слот
		if errors.Is(err, txmanager.ErrTxFailed) {
			uc.logger.Warn("CreateBooking: transaction retries exhausted for barber=%d slot=%s",
				req.BarberID, slotStart.Format(time.RFC3339))
			return nil, ErrSlotNotAvailable
		}
		return nil, err
	}

	// 6. Dev-режим: запись уже создана
	if booking != nil {
		uc.logger.Info("CreateBooking: created booking id=%d without payment (dev mode)", booking.ID)
		return &Response{
			Booking: &BookingResult{
				BookingID: booking.ID,
				Status:    string(booking.Status),
				Paid:      booking.Paid,
			},
		}, nil
	}

	if !holdReused && uc.metrics != nil {
		uc.metrics.HoldsCreatedTotal.Inc()
	}

	// 7. Создаем checkout-преференцию у платежного провайдера
	// Вызов идет вне транзакции: внешний HTTP внутри serializable-транзакции
	// растягивал бы окно конфликтов
	preference, err := uc.createPreference(ctx, hold, barber, service)
	if err != nil {
		// Удержание остается и истечет по TTL, слот освободится сам
		uc.logger.Error("CreateBooking: failed to create preference for hold id=%s: %v", hold.ID, err)
		return nil, ErrPaymentSetupFailed
	}

	if err := uc.holdRepo.AttachPreference(ctx, hold.ID, preference.ID); err != nil {
		uc.logger.Error("CreateBooking: failed to attach preference to hold id=%s: %v", hold.ID, err)
		return nil, fmt.Errorf("%w: failed to attach preference: %w", ErrInternal, err)
	}

	checkoutURL := preference.InitPoint
	if uc.config.Sandbox && preference.SandboxInitPoint != "" {
		checkoutURL = preference.SandboxInitPoint
	}

	uc.logger.Info("CreateBooking: hold id=%s ready, preference=%s, expires_at=%s",
		hold.ID, preference.ID, hold.ExpiresAt.Format(time.RFC3339))

	return &Response{
		Hold: &HoldResult{
			HoldID:       hold.ID,
			ExpiresAt:    hold.ExpiresAt,
			PreferenceID: preference.ID,
			CheckoutURL:  checkoutURL,
		},
	}, nil
}

// checkSlotFree проверяет, что интервал [slotStart, slotEnd) свободен
// Вызывается только внутри транзакции: выборки блокируют строки FOR UPDATE
func (uc *UseCase) checkSlotFree(ctx context.Context, barberID int64, slotStart, slotEnd time.Time, now time.Time) error {
	bookings, err := uc.bookingRepo.GetActiveByBarberAndRange(ctx, barberID, slotStart, slotEnd)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings for barber=%d: %v", barberID, err)
		return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}
	if len(bookings) > 0 {
		uc.logger.Warn("CreateBooking: slot %s taken by booking id=%d",
			slotStart.Format(time.RFC3339), bookings[0].ID)
		return ErrSlotNotAvailable
	}

	holds, err := uc.holdRepo.GetActiveByBarberAndRange(ctx, barberID, slotStart, slotEnd, "", now)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get holds for barber=%d: %v", barberID, err)
		return fmt.Errorf("%w: failed to get holds: %w", ErrInternal, err)
	}
	if len(holds) > 0 {
		// Сообщаем, через сколько чужое удержание освободит слот
		releasesIn := holds[0].TimeRemaining(now)
		for _, h := range holds[1:] {
			if remaining := h.TimeRemaining(now); remaining > releasesIn {
				releasesIn = remaining
			}
		}

		uc.logger.Warn("CreateBooking: slot %s held by another session, releases in %s",
			slotStart.Format(time.RFC3339), releasesIn)
		return &SlotHeldError{ReleasesIn: releasesIn}
	}

	return nil
}

// createPreference формирует checkout-преференцию для оплаты удержания
func (uc *UseCase) createPreference(ctx context.Context, hold *domain.TemporaryHold, barber *domain.Barber, service *domain.Service) (*mercadopago.Preference, error) {
	return uc.paymentClient.CreatePreference(ctx, &mercadopago.PreferenceRequest{
		Items: []mercadopago.PreferenceItem{
			{
				Title:      fmt.Sprintf("%s - %s", service.Name, barber.Name),
				Quantity:   1,
				UnitPrice:  service.Price,
				CurrencyID: uc.config.Currency,
			},
		},
		Payer: &mercadopago.PreferencePayer{
			Name:  hold.ClientName,
			Email: hold.ClientEmail,
		},
		// external_reference связывает платеж с удержанием
		ExternalReference: hold.ExternalReference(),
		NotificationURL:   uc.config.NotificationURL,
		BackURLs: &mercadopago.BackURLs{
			Success: uc.config.SuccessURL,
			Failure: uc.config.FailureURL,
			Pending: uc.config.PendingURL,
		},
		AutoReturn:       "approved",
		Expires:          true,
		ExpirationDateTo: hold.ExpiresAt.Format(time.RFC3339),
	})
}
