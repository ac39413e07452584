package reconcile_payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	holdRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/hold"
	paymentRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/payment"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
	"github.com/dpereira25/AgendaBarber/pkg/metrics"
	"github.com/dpereira25/AgendaBarber/pkg/ptr"
)

// Config параметры сверки платежей
type Config struct {
	// WebhookSecret секрет подписи вебхуков; пустой - подпись не проверяется
	WebhookSecret string
}

// UseCase use case сверки платежа с удержанием слота
// Единственная точка, где удержание превращается в запись
// Сверка идемпотентна: повторная обработка того же платежа в том же
// статусе ничего не меняет
type UseCase struct {
	paymentRepo    PaymentRepository
	holdRepo       HoldRepository
	bookingRepo    BookingRepository
	catalogRepo    CatalogRepository
	webhookLogRepo WebhookLogRepository
	paymentClient  PaymentClient
	txManager      TransactionManager
	config         Config
	timeProvider   TimeProvider
	logger         Logger
	metrics        *metrics.Metrics
}

// NewUseCase создает новый экземпляр use case
// m может быть nil, если метрики отключены
func NewUseCase(
	paymentRepository PaymentRepository,
	holdRepository HoldRepository,
	bookingRepository BookingRepository,
	catalogRepository CatalogRepository,
	webhookLogRepository WebhookLogRepository,
	paymentClient PaymentClient,
	txManager TransactionManager,
	config Config,
	logger Logger,
	m *metrics.Metrics,
) *UseCase {
	return &UseCase{
		paymentRepo:    paymentRepository,
		holdRepo:       holdRepository,
		bookingRepo:    bookingRepository,
		catalogRepo:    catalogRepository,
		webhookLogRepo: webhookLogRepository,
		paymentClient:  paymentClient,
		txManager:      txManager,
		config:         config,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
		metrics:        m,
	}
}

// Execute сверяет платеж по его ID у провайдера
// Используется и вебхуком, и callback-редиректом после оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if strings.TrimSpace(req.PaymentID) == "" {
		return nil, fmt.Errorf("%w: paymentID is required", ErrInvalidInput)
	}

	uc.logger.Info("ReconcilePayment: verifying payment id=%s", req.PaymentID)

	// 1. Статус берем только из API провайдера, телу уведомления не доверяем
	payment, err := uc.paymentClient.VerifyPayment(ctx, req.PaymentID)
	if err != nil {
		uc.logger.Error("ReconcilePayment: verification failed for payment id=%s: %v", req.PaymentID, err)
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	status := domain.PaymentStatus(payment.Status)
	holdID := domain.HoldIDFromReference(payment.ExternalReference)

	var response *Response

	// 2. Вся сверка в одной сериализуемой транзакции:
	// конкурентные уведомления об одном платеже сериализуются на строке
	// платежа, конкуренция за слот - на строках записей и удержаний
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		result, err := uc.reconcile(txCtx, payment, status, holdID)
		if err != nil {
			return err
		}
		response = result
		return nil
	})

	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReconciliationsTotal.WithLabelValues(string(response.Outcome)).Inc()
	}

	uc.logger.Info("ReconcilePayment: payment id=%s reconciled, outcome=%s", req.PaymentID, response.Outcome)
	return response, nil
}

// reconcile выполняет сверку внутри транзакции
func (uc *UseCase) reconcile(ctx context.Context, payment *mercadopago.Payment, status domain.PaymentStatus, holdID string) (*Response, error) {
	externalPaymentID := fmt.Sprintf("%d", payment.ID)

	// 1. Находим или создаем строку платежа
	// Выборка блокирует строку FOR UPDATE - параллельная обработка
	// того же платежа ждет здесь
	txRow, err := uc.paymentRepo.GetByExternalPaymentID(ctx, externalPaymentID)
	if err != nil && !errors.Is(err, paymentRepo.ErrTransactionNotFound) {
		return nil, fmt.Errorf("%w: payment lookup failed: %w", ErrInternal, err)
	}

	if txRow == nil {
		newRow := &domain.PaymentTransaction{
			ExternalPaymentID:    externalPaymentID,
			ExternalPreferenceID: payment.PreferenceID,
			Amount:               payment.TransactionAmount,
			Currency:             payment.CurrencyID,
			Status:               status,
			ExternalReference:    payment.ExternalReference,
		}
		if payment.StatusDetail != "" {
			newRow.StatusDetail = ptr.Ptr(payment.StatusDetail)
		}
		if holdID != "" {
			newRow.HoldID = ptr.Ptr(holdID)
		}

		txRow, err = uc.paymentRepo.Create(ctx, newRow)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create payment transaction: %w", ErrInternal, err)
		}
	} else {
		// Идемпотентность: тот же статус по уже сконвертированному платежу
		if txRow.Status == status && txRow.IsLinkedToBooking() && !status.IsReversal() {
			uc.logger.Info("ReconcilePayment: payment id=%s already processed, booking id=%d",
				externalPaymentID, *txRow.BookingID)
			return &Response{Outcome: OutcomeAlreadyProcessed, BookingID: txRow.BookingID}, nil
		}

		if err := uc.paymentRepo.UpdateStatus(ctx, txRow.ID, status, payment.StatusDetail); err != nil {
			return nil, fmt.Errorf("%w: failed to update payment status: %w", ErrInternal, err)
		}
		txRow.Status = status
	}

	// 2. Уведомление без ссылки на удержание нас не касается
	if holdID == "" && !txRow.IsLinkedToBooking() {
		uc.logger.Warn("ReconcilePayment: payment id=%s has foreign external_reference=%q",
			externalPaymentID, payment.ExternalReference)
		return &Response{Outcome: OutcomeIgnored}, nil
	}

	switch {
	case status.IsSuccessful():
		return uc.handleSuccess(ctx, txRow, holdID)

	case status.IsFailed():
		return uc.handleFailure(ctx, txRow, holdID)

	case status.IsReversal():
		return uc.handleReversal(ctx, txRow)

	default:
		// pending / in_process: решение откладывается до следующего уведомления
		uc.logger.Info("ReconcilePayment: payment id=%s still pending (status=%s)", externalPaymentID, status)
		return &Response{Outcome: OutcomePending}, nil
	}
}

// handleSuccess конвертирует удержание в подтвержденную оплаченную запись
func (uc *UseCase) handleSuccess(ctx context.Context, txRow *domain.PaymentTransaction, holdID string) (*Response, error) {
	if txRow.IsLinkedToBooking() {
		return &Response{Outcome: OutcomeAlreadyProcessed, BookingID: txRow.BookingID}, nil
	}

	// Истекшее, но еще не удаленное удержание все еще конвертируемо:
	// клиент заплатил, пусть и медленно
	hold, err := uc.holdRepo.GetByIDAny(ctx, holdID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			uc.logger.Error("ReconcilePayment: approved payment id=%s but hold id=%s is gone, manual refund required",
				txRow.ExternalPaymentID, holdID)
			return &Response{Outcome: OutcomeHoldLost}, nil
		}
		return nil, fmt.Errorf("%w: hold lookup failed: %w", ErrInternal, err)
	}

	// Повторная проверка доступности: пока платеж шел, слот могли занять
	taken, err := uc.slotTaken(ctx, hold)
	if err != nil {
		return nil, err
	}
	if taken {
		uc.logger.Error("ReconcilePayment: approved payment id=%s but slot %s is taken, manual refund required",
			txRow.ExternalPaymentID, hold.StartTime.Format(domain.DateFormat+" "+domain.TimeFormat))
		return &Response{Outcome: OutcomeSlotConflict}, nil
	}

	service, err := uc.catalogRepo.GetService(ctx, hold.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: service lookup failed: %w", ErrInternal, err)
	}

	booking, err := uc.bookingRepo.Create(ctx, &domain.Booking{
		ClientID:      hold.ClientID,
		BarberID:      hold.BarberID,
		ServiceID:     hold.ServiceID,
		StartTime:     hold.StartTime,
		EndTime:       hold.EndTime,
		Paid:          true,
		PaymentMethod: domain.PaymentMethodMercadoPago,
		Status:        domain.StatusConfirmed,
		ServiceName:   service.Name,
		ServicePrice:  service.Price,
		ClientEmail:   ptr.Ptr(hold.ClientEmail),
		ClientName:    ptr.Ptr(hold.ClientName),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
	}

	if err := uc.paymentRepo.LinkBooking(ctx, txRow.ID, booking.ID); err != nil {
		return nil, fmt.Errorf("%w: failed to link booking: %w", ErrInternal, err)
	}

	if err := uc.holdRepo.Delete(ctx, hold.ID); err != nil && !errors.Is(err, holdRepo.ErrHoldNotFound) {
		return nil, fmt.Errorf("%w: failed to delete hold: %w", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.HoldsConvertedTotal.Inc()
	}

	uc.logger.Info("ReconcilePayment: hold id=%s converted into booking id=%d", hold.ID, booking.ID)
	return &Response{Outcome: OutcomeBookingCreated, BookingID: ptr.Ptr(booking.ID)}, nil
}

// handleFailure досрочно освобождает слот при отклоненном платеже
func (uc *UseCase) handleFailure(ctx context.Context, txRow *domain.PaymentTransaction, holdID string) (*Response, error) {
	err := uc.holdRepo.Delete(ctx, holdID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrHoldNotFound) {
			// Удержание уже истекло и убрано свипером
			return &Response{Outcome: OutcomeHoldReleased}, nil
		}
		return nil, fmt.Errorf("%w: failed to delete hold: %w", ErrInternal, err)
	}

	if err := uc.paymentRepo.DetachHold(ctx, txRow.ID); err != nil {
		return nil, fmt.Errorf("%w: failed to detach hold: %w", ErrInternal, err)
	}

	uc.logger.Info("ReconcilePayment: payment id=%s failed, hold id=%s released", txRow.ExternalPaymentID, holdID)
	return &Response{Outcome: OutcomeHoldReleased}, nil
}

// handleReversal помечает запись для ручного разбора при возврате или чарджбеке
// Автоматическая отмена записи здесь сознательно не выполняется
func (uc *UseCase) handleReversal(ctx context.Context, txRow *domain.PaymentTransaction) (*Response, error) {
	if !txRow.IsLinkedToBooking() {
		uc.logger.Warn("ReconcilePayment: reversal for payment id=%s without booking", txRow.ExternalPaymentID)
		return &Response{Outcome: OutcomeIgnored}, nil
	}

	if err := uc.bookingRepo.SetNeedsAttention(ctx, *txRow.BookingID); err != nil {
		return nil, fmt.Errorf("%w: failed to flag booking: %w", ErrInternal, err)
	}

	uc.logger.Warn("ReconcilePayment: reversal for payment id=%s, booking id=%d flagged for review",
		txRow.ExternalPaymentID, *txRow.BookingID)
	return &Response{Outcome: OutcomeNeedsAttention, BookingID: txRow.BookingID}, nil
}

// slotTaken проверяет, занят ли интервал удержания кем-то другим
func (uc *UseCase) slotTaken(ctx context.Context, hold *domain.TemporaryHold) (bool, error) {
	bookings, err := uc.bookingRepo.GetActiveByBarberAndRange(ctx, hold.BarberID, hold.StartTime, hold.EndTime)
	if err != nil {
		return false, fmt.Errorf("%w: bookings lookup failed: %w", ErrInternal, err)
	}
	if len(bookings) > 0 {
		return true, nil
	}

	holds, err := uc.holdRepo.GetActiveByBarberAndRange(ctx, hold.BarberID, hold.StartTime, hold.EndTime, hold.ID, uc.timeProvider.Now())
	if err != nil {
		return false, fmt.Errorf("%w: holds lookup failed: %w", ErrInternal, err)
	}

	return len(holds) > 0, nil
}
