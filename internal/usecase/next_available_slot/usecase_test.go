package next_available_slot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpereira25/AgendaBarber/internal/usecase/get_available_slots"
	"github.com/dpereira25/AgendaBarber/pkg/types"
)

type fakeSlotsProvider struct {
	// slotsByDate свободные слоты по дате в формате YYYY-MM-DD
	slotsByDate map[string][]types.TimeString
	err         error
	calls       int
}

func (f *fakeSlotsProvider) Execute(_ context.Context, req *get_available_slots.Request) (*get_available_slots.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &get_available_slots.Response{
		BarberID:        req.BarberID,
		ServiceID:       req.ServiceID,
		Date:            req.Date,
		Slots:           f.slotsByDate[req.Date.Format("2006-01-02")],
		DurationMinutes: 60,
	}, nil
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

func newTestUseCase(provider *fakeSlotsProvider, horizonDays int) *UseCase {
	uc := NewUseCase(provider, horizonDays, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func TestExecute_FindsSlotToday(t *testing.T) {
	provider := &fakeSlotsProvider{
		slotsByDate: map[string][]types.TimeString{
			"2026-09-01": {"18:00", "19:00"},
		},
	}
	uc := newTestUseCase(provider, 30)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2})
	require.NoError(t, err)

	assert.Equal(t, "2026-09-01", resp.Date.Format("2006-01-02"))
	assert.Equal(t, types.TimeString("18:00"), resp.StartTime)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, 1, provider.calls)
}

func TestExecute_SkipsToLaterDay(t *testing.T) {
	provider := &fakeSlotsProvider{
		slotsByDate: map[string][]types.TimeString{
			"2026-09-03": {"18:00"},
		},
	}
	uc := newTestUseCase(provider, 30)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2})
	require.NoError(t, err)

	assert.Equal(t, "2026-09-03", resp.Date.Format("2006-01-02"))
	assert.Equal(t, 3, provider.calls)
}

func TestExecute_SlotMustStartStrictlyAfterFrom(t *testing.T) {
	// Слот ровно в точке отсчета не подходит, берется следующий
	from := time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC)
	provider := &fakeSlotsProvider{
		slotsByDate: map[string][]types.TimeString{
			"2026-09-02": {"18:00", "19:00"},
		},
	}
	uc := newTestUseCase(provider, 30)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, From: &from})
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("19:00"), resp.StartTime)
}

func TestExecute_FromInPastTreatedAsNow(t *testing.T) {
	past := testNow.Add(-48 * time.Hour)
	provider := &fakeSlotsProvider{
		slotsByDate: map[string][]types.TimeString{
			"2026-09-01": {"18:00"},
		},
	}
	uc := newTestUseCase(provider, 30)

	resp, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2, From: &past})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01", resp.Date.Format("2006-01-02"))
}

func TestExecute_NoSlotWithinHorizon(t *testing.T) {
	provider := &fakeSlotsProvider{slotsByDate: map[string][]types.TimeString{}}
	uc := newTestUseCase(provider, 7)

	_, err := uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 2})
	assert.ErrorIs(t, err, ErrNoSlotAvailable)

	// Горизонт включает сегодняшний день: days+1 обращений
	assert.Equal(t, 8, provider.calls)
}

func TestExecute_PropagatesNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeSlotsProvider{err: get_available_slots.ErrBarberNotFound}, 7)
	_, err := uc.Execute(context.Background(), &Request{BarberID: 99, ServiceID: 2})
	assert.ErrorIs(t, err, ErrBarberNotFound)

	uc = newTestUseCase(&fakeSlotsProvider{err: get_available_slots.ErrServiceNotFound}, 7)
	_, err = uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 99})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeSlotsProvider{}, 7)

	_, err := uc.Execute(context.Background(), &Request{BarberID: 0, ServiceID: 2})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{BarberID: 1, ServiceID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
