package reconcile_payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	holdRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/hold"
	paymentRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/payment"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
	"github.com/dpereira25/AgendaBarber/pkg/ptr"
)

type fakePaymentRepo struct {
	existing      *domain.PaymentTransaction
	created       *domain.PaymentTransaction
	updatedStatus domain.PaymentStatus
	linkedBooking int64
	detached      bool
}

func (f *fakePaymentRepo) GetByExternalPaymentID(_ context.Context, _ string) (*domain.PaymentTransaction, error) {
	if f.existing == nil {
		return nil, paymentRepo.ErrTransactionNotFound
	}
	return f.existing, nil
}

func (f *fakePaymentRepo) Create(_ context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	created := *tx
	created.ID = 100
	f.created = &created
	return &created, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ int64, status domain.PaymentStatus, _ string) error {
	f.updatedStatus = status
	return nil
}

func (f *fakePaymentRepo) LinkBooking(_ context.Context, _ int64, bookingID int64) error {
	f.linkedBooking = bookingID
	return nil
}

func (f *fakePaymentRepo) DetachHold(_ context.Context, _ int64) error {
	f.detached = true
	return nil
}

type fakeHoldRepo struct {
	hold     *domain.TemporaryHold
	holds    []*domain.TemporaryHold
	deleted  string
	noDelete bool
}

func (f *fakeHoldRepo) GetByIDAny(_ context.Context, _ string) (*domain.TemporaryHold, error) {
	if f.hold == nil {
		return nil, holdRepo.ErrHoldNotFound
	}
	return f.hold, nil
}

func (f *fakeHoldRepo) GetActiveByBarberAndRange(_ context.Context, _ int64, _, _ time.Time, _ string, _ time.Time) ([]*domain.TemporaryHold, error) {
	return f.holds, nil
}

func (f *fakeHoldRepo) Delete(_ context.Context, id string) error {
	if f.noDelete {
		return holdRepo.ErrHoldNotFound
	}
	f.deleted = id
	return nil
}

type fakeBookingRepo struct {
	bookings       []*domain.Booking
	created        *domain.Booking
	needsAttention int64
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	created := *b
	created.ID = 55
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetActiveByBarberAndRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.bookings, nil
}

func (f *fakeBookingRepo) SetNeedsAttention(_ context.Context, id int64) error {
	f.needsAttention = id
	return nil
}

type fakeCatalogRepo struct{}

func (f *fakeCatalogRepo) GetService(_ context.Context, id int64) (*domain.Service, error) {
	return &domain.Service{ID: id, Name: "Corte", Price: 5000, DurationMinutes: 60, Active: true}, nil
}

type fakeWebhookLogRepo struct {
	created         *domain.WebhookLog
	statuses        []domain.WebhookStatus
	recentProcessed int64
}

func (f *fakeWebhookLogRepo) Create(_ context.Context, log *domain.WebhookLog) (*domain.WebhookLog, error) {
	created := *log
	created.ID = 9
	f.created = &created
	return &created, nil
}

func (f *fakeWebhookLogRepo) MarkStatus(_ context.Context, _ int64, status domain.WebhookStatus, _ string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeWebhookLogRepo) CountRecentProcessed(_ context.Context, _, _ string, _ time.Time) (int64, error) {
	return f.recentProcessed, nil
}

type fakePaymentClient struct {
	payment *mercadopago.Payment
	err     error
}

func (f *fakePaymentClient) VerifyPayment(_ context.Context, _ string) (*mercadopago.Payment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payment, nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

const testHoldID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

type testEnv struct {
	payments    *fakePaymentRepo
	holds       *fakeHoldRepo
	bookings    *fakeBookingRepo
	webhookLogs *fakeWebhookLogRepo
	client      *fakePaymentClient
	uc          *UseCase
}

func newTestEnv(cfg Config) *testEnv {
	env := &testEnv{
		payments:    &fakePaymentRepo{},
		holds:       &fakeHoldRepo{},
		bookings:    &fakeBookingRepo{},
		webhookLogs: &fakeWebhookLogRepo{},
		client:      &fakePaymentClient{},
	}
	env.uc = NewUseCase(
		env.payments,
		env.holds,
		env.bookings,
		&fakeCatalogRepo{},
		env.webhookLogs,
		env.client,
		&fakeTxManager{},
		cfg,
		nopLogger{},
		nil,
	)
	env.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return env
}

func testHold() *domain.TemporaryHold {
	return &domain.TemporaryHold{
		ID:          testHoldID,
		SessionKey:  "session-abc",
		ClientID:    7,
		BarberID:    1,
		ServiceID:   2,
		StartTime:   time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC),
		ClientEmail: "cliente@example.com",
		ClientName:  "Juan Pérez",
		ExpiresAt:   testNow.Add(10 * time.Minute),
	}
}

func approvedPayment() *mercadopago.Payment {
	return &mercadopago.Payment{
		ID:                123456,
		Status:            "approved",
		ExternalReference: "hold_" + testHoldID,
		TransactionAmount: 5000,
		CurrencyID:        "ARS",
		PreferenceID:      "pref-1",
	}
}

func TestExecute_ApprovedPaymentCreatesBooking(t *testing.T) {
	env := newTestEnv(Config{})
	env.client.payment = approvedPayment()
	env.holds.hold = testHold()

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeBookingCreated, resp.Outcome)
	require.NotNil(t, resp.BookingID)
	assert.Equal(t, int64(55), *resp.BookingID)

	// Запись создается подтвержденной и оплаченной
	require.NotNil(t, env.bookings.created)
	assert.Equal(t, domain.StatusConfirmed, env.bookings.created.Status)
	assert.True(t, env.bookings.created.Paid)
	assert.Equal(t, domain.PaymentMethodMercadoPago, env.bookings.created.PaymentMethod)
	assert.Equal(t, int64(7), env.bookings.created.ClientID)

	// Удержание удалено, платеж связан с записью
	assert.Equal(t, testHoldID, env.holds.deleted)
	assert.Equal(t, int64(55), env.payments.linkedBooking)

	// Строка платежа создана с корреляцией на удержание
	require.NotNil(t, env.payments.created)
	assert.Equal(t, "123456", env.payments.created.ExternalPaymentID)
	require.NotNil(t, env.payments.created.HoldID)
	assert.Equal(t, testHoldID, *env.payments.created.HoldID)
}

func TestExecute_DuplicateApprovedIsIdempotent(t *testing.T) {
	env := newTestEnv(Config{})
	env.client.payment = approvedPayment()
	env.payments.existing = &domain.PaymentTransaction{
		ID:                100,
		ExternalPaymentID: "123456",
		Status:            domain.PaymentStatusApproved,
		BookingID:         ptr.Ptr(int64(55)),
	}

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeAlreadyProcessed, resp.Outcome)
	require.NotNil(t, resp.BookingID)
	assert.Equal(t, int64(55), *resp.BookingID)

	// Ничего не создано и не удалено повторно
	assert.Nil(t, env.bookings.created)
	assert.Empty(t, env.holds.deleted)
}

func TestExecute_RejectedPaymentReleasesHold(t *testing.T) {
	env := newTestEnv(Config{})
	payment := approvedPayment()
	payment.Status = "rejected"
	env.client.payment = payment

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeHoldReleased, resp.Outcome)
	assert.Equal(t, testHoldID, env.holds.deleted)
	assert.True(t, env.payments.detached)
	assert.Nil(t, env.bookings.created)
}

func TestExecute_RejectedAfterHoldExpired(t *testing.T) {
	env := newTestEnv(Config{})
	payment := approvedPayment()
	payment.Status = "cancelled"
	env.client.payment = payment
	env.holds.noDelete = true // свипер уже убрал удержание

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeHoldReleased, resp.Outcome)
}

func TestExecute_RefundFlagsBookingForReview(t *testing.T) {
	env := newTestEnv(Config{})
	payment := approvedPayment()
	payment.Status = "refunded"
	env.client.payment = payment
	env.payments.existing = &domain.PaymentTransaction{
		ID:                100,
		ExternalPaymentID: "123456",
		Status:            domain.PaymentStatusApproved,
		BookingID:         ptr.Ptr(int64(55)),
	}

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeNeedsAttention, resp.Outcome)
	assert.Equal(t, int64(55), env.bookings.needsAttention)
	// Запись не отменяется автоматически
	assert.Equal(t, domain.PaymentStatusRefunded, env.payments.updatedStatus)
}

func TestExecute_ApprovedButHoldGone(t *testing.T) {
	env := newTestEnv(Config{})
	env.client.payment = approvedPayment()
	// holds.hold == nil: удержание истекло и удалено до прихода платежа

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeHoldLost, resp.Outcome)
	assert.Nil(t, env.bookings.created)
}

func TestExecute_ApprovedButSlotTaken(t *testing.T) {
	env := newTestEnv(Config{})
	env.client.payment = approvedPayment()
	env.holds.hold = testHold()
	env.bookings.bookings = []*domain.Booking{{ID: 77, Status: domain.StatusConfirmed}}

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)

	assert.Equal(t, OutcomeSlotConflict, resp.Outcome)
	assert.Nil(t, env.bookings.created)
	assert.Empty(t, env.holds.deleted)
}

func TestExecute_PendingPaymentDefersDecision(t *testing.T) {
	env := newTestEnv(Config{})
	payment := approvedPayment()
	payment.Status = "in_process"
	env.client.payment = payment

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)

	assert.Equal(t, OutcomePending, resp.Outcome)
	assert.Nil(t, env.bookings.created)
	assert.Empty(t, env.holds.deleted)
}

func TestExecute_ForeignReferenceIgnored(t *testing.T) {
	env := newTestEnv(Config{})
	payment := approvedPayment()
	payment.ExternalReference = "order_42"
	env.client.payment = payment

	resp, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, resp.Outcome)
}

func TestExecute_VerificationFailure(t *testing.T) {
	env := newTestEnv(Config{})
	env.client.err = errors.New("api unavailable")

	_, err := env.uc.Execute(context.Background(), &Request{PaymentID: "123456"})
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestExecute_EmptyPaymentID(t *testing.T) {
	env := newTestEnv(Config{})

	_, err := env.uc.Execute(context.Background(), &Request{PaymentID: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
