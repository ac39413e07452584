package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	catalogRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/catalog"
	scheduleSvc "github.com/dpereira25/AgendaBarber/internal/service/schedule"
	"github.com/dpereira25/AgendaBarber/pkg/types"
)

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetActiveByBarberAndRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Booking, error) {
	return f.bookings, nil
}

type fakeHoldRepo struct {
	holds []*domain.TemporaryHold
}

func (f *fakeHoldRepo) GetActiveByBarberAndRange(_ context.Context, _ int64, _, _ time.Time, _ string, _ time.Time) ([]*domain.TemporaryHold, error) {
	return f.holds, nil
}

type fakeCatalogRepo struct {
	service    *domain.Service
	serviceErr error
}

func (f *fakeCatalogRepo) GetBarber(_ context.Context, id int64) (*domain.Barber, error) {
	return &domain.Barber{ID: id, Active: true}, nil
}

func (f *fakeCatalogRepo) GetService(_ context.Context, _ int64) (*domain.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

type fakeScheduleService struct {
	window domain.WorkingWindow
	err    error
}

func (f *fakeScheduleService) WorkingHours(_ context.Context, _ int64, _ time.Time) (domain.WorkingWindow, error) {
	if f.err != nil {
		return domain.Closed(), f.err
	}
	return f.window, nil
}

type fakeSweeper struct {
	calls int
}

func (f *fakeSweeper) MaybeSweep(_ context.Context) {
	f.calls++
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

func newTestUseCase(
	bookings []*domain.Booking,
	holds []*domain.TemporaryHold,
	window domain.WorkingWindow,
	duration int,
	now time.Time,
) (*UseCase, *fakeSweeper) {
	sweeper := &fakeSweeper{}
	uc := NewUseCase(
		&fakeBookingRepo{bookings: bookings},
		&fakeHoldRepo{holds: holds},
		&fakeCatalogRepo{service: &domain.Service{ID: 2, Name: "Corte", DurationMinutes: duration, Active: true}},
		&fakeScheduleService{window: window},
		sweeper,
		60,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}
	return uc, sweeper
}

func TestExecute_FullGridWhenDayIsFree(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	window := domain.WorkingWindow{IsOpen: true, StartTime: "18:00", EndTime: "21:00"}

	uc, sweeper := newTestUseCase(nil, nil, window, 60, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: date})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"18:00", "19:00", "20:00"}, resp.Slots)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 1, sweeper.calls)
}

func TestExecute_BookingAndHoldBlockSlots(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	window := domain.WorkingWindow{IsOpen: true, StartTime: "18:00", EndTime: "21:00"}

	bookings := []*domain.Booking{
		{
			Status:    domain.StatusConfirmed,
			StartTime: time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC),
		},
	}
	holds := []*domain.TemporaryHold{
		{
			StartTime: time.Date(2026, 9, 2, 20, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 9, 2, 21, 0, 0, 0, time.UTC),
		},
	}

	uc, _ := newTestUseCase(bookings, holds, window, 60, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: date})
	require.NoError(t, err)

	// Запись закрывает 18:00, удержание - 20:00; граничащий слот 19:00 свободен
	assert.Equal(t, []types.TimeString{"19:00"}, resp.Slots)
}

func TestExecute_ServiceMustFitBeforeClose(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	window := domain.WorkingWindow{IsOpen: true, StartTime: "18:00", EndTime: "21:00"}

	// Услуга 90 минут: слот 20:00 не помещается до закрытия
	uc, _ := newTestUseCase(nil, nil, window, 90, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: date})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"18:00", "19:00"}, resp.Slots)
}

func TestExecute_ServiceCrossingMidnightNotOffered(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	window := domain.WorkingWindow{IsOpen: true, StartTime: "22:00", EndTime: "23:30"}

	// Услуга 120 минут из 22:00 закончилась бы в 00:30 следующего дня:
	// такой слот не предлагается, хотя "00:30" лексикографически меньше "23:30"
	uc, _ := newTestUseCase(nil, nil, window, 120, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: date})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	// Услуга 90 минут помещается в то же окно
	uc, _ = newTestUseCase(nil, nil, window, 90, now)

	resp, err = uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: date})
	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"22:00"}, resp.Slots)
}

func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC) // воскресенье

	uc, _ := newTestUseCase(nil, nil, domain.Closed(), 60, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: date})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_TodayFiltersPastSlots(t *testing.T) {
	// Сейчас 19:00: слоты 18:00 и 19:00 уже не предлагаются
	now := time.Date(2026, 9, 2, 19, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	window := domain.WorkingWindow{IsOpen: true, StartTime: "18:00", EndTime: "21:00"}

	uc, _ := newTestUseCase(nil, nil, window, 60, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: date})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"20:00"}, resp.Slots)
}

func TestExecute_PastDateReturnsEmpty(t *testing.T) {
	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	window := domain.WorkingWindow{IsOpen: true, StartTime: "18:00", EndTime: "21:00"}

	uc, _ := newTestUseCase(nil, nil, window, 60, now)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, Date: date})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	sweeper := &fakeSweeper{}
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeHoldRepo{},
		&fakeCatalogRepo{serviceErr: catalogRepo.ErrServiceNotFound},
		&fakeScheduleService{},
		sweeper,
		60,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}

	_, err := uc.Execute(context.Background(), &Request{
		BarberID:  1,
		ServiceID: 99,
		Date:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_BarberNotFound(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	uc := NewUseCase(
		&fakeBookingRepo{},
		&fakeHoldRepo{},
		&fakeCatalogRepo{service: &domain.Service{ID: 2, DurationMinutes: 60, Active: true}},
		&fakeScheduleService{err: scheduleSvc.ErrBarberNotFound},
		&fakeSweeper{},
		60,
		nopLogger{},
	)
	uc.timeProvider = &fixedTimeProvider{now: now}

	_, err := uc.Execute(context.Background(), &Request{
		BarberID:  99,
		ServiceID: 2,
		Date:      time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrBarberNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc, _ := newTestUseCase(nil, nil, domain.Closed(), 60, time.Now())

	_, err := uc.Execute(context.Background(), &Request{BarberID: 0, ServiceID: 2, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 0, Date: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
