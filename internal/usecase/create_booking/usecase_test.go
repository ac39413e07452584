package create_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	holdRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/hold"
	"github.com/dpereira25/AgendaBarber/internal/integrations/mercadopago"
	"github.com/dpereira25/AgendaBarber/pkg/txmanager"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
	created  *domain.Booking
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	created := *b
	created.ID = 42
	f.created = &created
	return &created, nil
}

func (f *fakeBookingRepo) GetActiveByBarberAndRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeHoldRepo struct {
	existing  *domain.TemporaryHold
	holds     []*domain.TemporaryHold
	created   *domain.TemporaryHold
	refreshed bool
	attached  string
}

func (f *fakeHoldRepo) Create(_ context.Context, h *domain.TemporaryHold) (*domain.TemporaryHold, error) {
	created := *h
	created.CreatedAt = time.Now()
	f.created = &created
	return &created, nil
}

func (f *fakeHoldRepo) GetActiveBySessionSlot(_ context.Context, _ string, _ int64, _ time.Time, _ time.Time) (*domain.TemporaryHold, error) {
	if f.existing == nil {
		return nil, holdRepo.ErrHoldNotFound
	}
	return f.existing, nil
}

func (f *fakeHoldRepo) GetActiveByBarberAndRange(_ context.Context, _ int64, _, _ time.Time, _ string, _ time.Time) ([]*domain.TemporaryHold, error) {
	return f.holds, nil
}

func (f *fakeHoldRepo) Refresh(_ context.Context, _ string, _, _ string, _ time.Time) error {
	f.refreshed = true
	return nil
}

func (f *fakeHoldRepo) AttachPreference(_ context.Context, _ string, preferenceID string) error {
	f.attached = preferenceID
	return nil
}

type fakeCatalogRepo struct{}

func (f *fakeCatalogRepo) GetBarber(_ context.Context, id int64) (*domain.Barber, error) {
	return &domain.Barber{ID: id, Name: "Diego", Active: true}, nil
}

func (f *fakeCatalogRepo) GetService(_ context.Context, id int64) (*domain.Service, error) {
	return &domain.Service{ID: id, Name: "Corte", Price: 5000, DurationMinutes: 60, Active: true}, nil
}

type fakeScheduleService struct {
	window domain.WorkingWindow
}

func (f *fakeScheduleService) WorkingHours(_ context.Context, _ int64, _ time.Time) (domain.WorkingWindow, error) {
	return f.window, nil
}

type fakePaymentClient struct {
	preference *mercadopago.Preference
	err        error
	request    *mercadopago.PreferenceRequest
}

func (f *fakePaymentClient) CreatePreference(_ context.Context, pref *mercadopago.PreferenceRequest) (*mercadopago.Preference, error) {
	f.request = pref
	if f.err != nil {
		return nil, f.err
	}
	return f.preference, nil
}

type fakeSweeper struct {
	calls int
}

func (f *fakeSweeper) SweepExpiredHolds(_ context.Context) (int64, error) {
	f.calls++
	return 0, nil
}

type fakeTxManager struct {
	err error
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
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

func validRequest() *Request {
	return &Request{
		ClientID:    7,
		SessionKey:  "session-abc",
		BarberID:    1,
		ServiceID:   2,
		Date:        time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "18:00",
		ClientEmail: "cliente@example.com",
		ClientName:  "Juan Pérez",
	}
}

func openWindow() domain.WorkingWindow {
	return domain.WorkingWindow{IsOpen: true, StartTime: "18:00", EndTime: "21:00"}
}

func newTestUseCase(
	bookings *fakeBookingRepo,
	holds *fakeHoldRepo,
	payment *fakePaymentClient,
	tx *fakeTxManager,
	cfg Config,
) (*UseCase, *fakeSweeper) {
	sweeper := &fakeSweeper{}
	uc := NewUseCase(
		bookings,
		holds,
		&fakeCatalogRepo{},
		&fakeScheduleService{window: openWindow()},
		payment,
		sweeper,
		tx,
		cfg,
		nopLogger{},
		nil,
	)
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc, sweeper
}

func paymentConfig() Config {
	return Config{
		HoldTTL:        15 * time.Minute,
		PaymentEnabled: true,
		Currency:       "ARS",
		SuccessURL:     "https://example.com/exito",
	}
}

func TestExecute_CreatesHoldAndCheckoutURL(t *testing.T) {
	holds := &fakeHoldRepo{}
	payment := &fakePaymentClient{
		preference: &mercadopago.Preference{ID: "pref-1", InitPoint: "https://mp/checkout"},
	}
	uc, sweeper := newTestUseCase(&fakeBookingRepo{}, holds, payment, &fakeTxManager{}, paymentConfig())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.Hold)
	assert.Nil(t, resp.Booking)
	assert.Equal(t, holds.created.ID, resp.Hold.HoldID)
	assert.Equal(t, "pref-1", resp.Hold.PreferenceID)
	assert.Equal(t, "https://mp/checkout", resp.Hold.CheckoutURL)
	assert.Equal(t, testNow.Add(15*time.Minute), resp.Hold.ExpiresAt)

	// Удержание связывается с платежом через external_reference
	assert.Equal(t, "hold_"+holds.created.ID, payment.request.ExternalReference)
	assert.Equal(t, "pref-1", holds.attached)
	assert.Equal(t, int64(7), holds.created.ClientID)

	// Чистка вызывается внутри транзакции до проверки доступности
	assert.Equal(t, 1, sweeper.calls)
}

func TestExecute_SandboxCheckoutURL(t *testing.T) {
	cfg := paymentConfig()
	cfg.Sandbox = true
	payment := &fakePaymentClient{
		preference: &mercadopago.Preference{
			ID:               "pref-1",
			InitPoint:        "https://mp/checkout",
			SandboxInitPoint: "https://sandbox.mp/checkout",
		},
	}
	uc, _ := newTestUseCase(&fakeBookingRepo{}, &fakeHoldRepo{}, payment, &fakeTxManager{}, cfg)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.mp/checkout", resp.Hold.CheckoutURL)
}

func TestExecute_ReusesExistingSessionHold(t *testing.T) {
	existing := &domain.TemporaryHold{
		ID:         "existing-hold",
		SessionKey: "session-abc",
		BarberID:   1,
		ServiceID:  2,
		StartTime:  time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC),
		ExpiresAt:  testNow.Add(5 * time.Minute),
	}
	holds := &fakeHoldRepo{existing: existing}
	payment := &fakePaymentClient{
		preference: &mercadopago.Preference{ID: "pref-2", InitPoint: "https://mp/checkout"},
	}
	uc, _ := newTestUseCase(&fakeBookingRepo{}, holds, payment, &fakeTxManager{}, paymentConfig())

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "existing-hold", resp.Hold.HoldID)
	assert.True(t, holds.refreshed)
	assert.Nil(t, holds.created)
	// TTL отсчитывается заново от текущего момента
	assert.Equal(t, testNow.Add(15*time.Minute), resp.Hold.ExpiresAt)
}

func TestExecute_SlotTakenByBooking(t *testing.T) {
	bookings := &fakeBookingRepo{
		bookings: []*domain.Booking{{ID: 1, Status: domain.StatusConfirmed}},
	}
	uc, _ := newTestUseCase(bookings, &fakeHoldRepo{}, &fakePaymentClient{}, &fakeTxManager{}, paymentConfig())

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_SlotHeldByAnotherSession(t *testing.T) {
	holds := &fakeHoldRepo{
		holds: []*domain.TemporaryHold{
			{ID: "other", ExpiresAt: testNow.Add(9 * time.Minute)},
			{ID: "other2", ExpiresAt: testNow.Add(4 * time.Minute)},
		},
	}
	uc, _ := newTestUseCase(&fakeBookingRepo{}, holds, &fakePaymentClient{}, &fakeTxManager{}, paymentConfig())

	_, err := uc.Execute(context.Background(), validRequest())

	var heldErr *SlotHeldError
	require.ErrorAs(t, err, &heldErr)
	// Показывается максимальный остаток из пересекающихся удержаний
	assert.Equal(t, 9*time.Minute, heldErr.ReleasesIn)
	// SlotHeldError остается совместимой с общей проверкой занятости
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_TxRetriesExhaustedMeansSlotLost(t *testing.T) {
	tx := &fakeTxManager{err: txmanager.ErrTxFailed}
	uc, _ := newTestUseCase(&fakeBookingRepo{}, &fakeHoldRepo{}, &fakePaymentClient{}, tx, paymentConfig())

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_DevModeCreatesConfirmedUnpaidBooking(t *testing.T) {
	cfg := paymentConfig()
	cfg.PaymentEnabled = false

	bookings := &fakeBookingRepo{}
	holds := &fakeHoldRepo{}
	uc, _ := newTestUseCase(bookings, holds, &fakePaymentClient{}, &fakeTxManager{}, cfg)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.Booking)
	assert.Nil(t, resp.Hold)
	assert.Equal(t, int64(42), resp.Booking.BookingID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Booking.Status)
	assert.False(t, resp.Booking.Paid)
	assert.Equal(t, domain.PaymentMethodNone, bookings.created.PaymentMethod)
	assert.Nil(t, holds.created)
}

func TestExecute_PreferenceFailureLeavesHoldToExpire(t *testing.T) {
	holds := &fakeHoldRepo{}
	payment := &fakePaymentClient{err: errors.New("mercadopago is down")}
	uc, _ := newTestUseCase(&fakeBookingRepo{}, holds, payment, &fakeTxManager{}, paymentConfig())

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPaymentSetupFailed)

	// Удержание создано и не удаляется: истечет по TTL
	assert.NotNil(t, holds.created)
	assert.Empty(t, holds.attached)
}

func TestExecute_PastSlotRejected(t *testing.T) {
	uc, _ := newTestUseCase(&fakeBookingRepo{}, &fakeHoldRepo{}, &fakePaymentClient{}, &fakeTxManager{}, paymentConfig())

	req := validRequest()
	req.Date = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTimeInPast)
}

func TestExecute_SlotOutsideWorkingHours(t *testing.T) {
	uc, _ := newTestUseCase(&fakeBookingRepo{}, &fakeHoldRepo{}, &fakePaymentClient{}, &fakeTxManager{}, paymentConfig())

	req := validRequest()
	req.StartTime = "20:30" // услуга 60 минут не помещается до 21:00

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_ClosedDayRejected(t *testing.T) {
	sweeper := &fakeSweeper{}
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeHoldRepo{},
		&fakeCatalogRepo{},
		&fakeScheduleService{window: domain.Closed()},
		&fakePaymentClient{},
		sweeper,
		&fakeTxManager{},
		paymentConfig(),
		nopLogger{},
		nil,
	)
	uc.timeProvider = &fixedTimeProvider{now: testNow}

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBarberClosed)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc, _ := newTestUseCase(&fakeBookingRepo{}, &fakeHoldRepo{}, &fakePaymentClient{}, &fakeTxManager{}, paymentConfig())

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing session key", func(r *Request) { r.SessionKey = " " }},
		{"invalid email", func(r *Request) { r.ClientEmail = "not-an-email" }},
		{"missing client name", func(r *Request) { r.ClientName = "" }},
		{"invalid start time", func(r *Request) { r.StartTime = "25:99" }},
		{"zero client id", func(r *Request) { r.ClientID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
