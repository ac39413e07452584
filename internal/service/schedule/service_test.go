package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	catalogRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/catalog"
	scheduleRepo "github.com/dpereira25/AgendaBarber/internal/infra/storage/schedule"
	"github.com/dpereira25/AgendaBarber/pkg/ptr"
)

type fakeScheduleRepo struct {
	rule     *domain.ScheduleRule
	rules    []*domain.ScheduleRule
	upserted *domain.ScheduleRule
}

func (f *fakeScheduleRepo) GetByBarberAndWeekday(_ context.Context, _ int64, _ int) (*domain.ScheduleRule, error) {
	if f.rule == nil {
		return nil, scheduleRepo.ErrRuleNotFound
	}
	return f.rule, nil
}

func (f *fakeScheduleRepo) ListByBarber(_ context.Context, _ int64) ([]*domain.ScheduleRule, error) {
	return f.rules, nil
}

func (f *fakeScheduleRepo) Upsert(_ context.Context, rule *domain.ScheduleRule) error {
	f.upserted = rule
	return nil
}

type fakeCatalogRepo struct {
	barberErr error
}

func (f *fakeCatalogRepo) GetBarber(_ context.Context, id int64) (*domain.Barber, error) {
	if f.barberErr != nil {
		return nil, f.barberErr
	}
	return &domain.Barber{ID: id, Name: "Diego", Active: true}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// 2026-09-02 - среда
var wednesday = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

func TestWorkingHours_DefaultWhenNoRule(t *testing.T) {
	svc := NewService(&fakeScheduleRepo{}, &fakeCatalogRepo{}, nopLogger{})

	window, err := svc.WorkingHours(context.Background(), 1, wednesday)
	require.NoError(t, err)

	assert.True(t, window.IsOpen)
	assert.Equal(t, domain.DefaultWorkingWindow(3), window)
}

func TestWorkingHours_ExplicitRuleOverridesDefault(t *testing.T) {
	repo := &fakeScheduleRepo{
		rule: &domain.ScheduleRule{BarberID: 1, Weekday: 3, IsOpen: true, StartTime: "10:00", EndTime: "14:00"},
	}
	svc := NewService(repo, &fakeCatalogRepo{}, nopLogger{})

	window, err := svc.WorkingHours(context.Background(), 1, wednesday)
	require.NoError(t, err)

	assert.Equal(t, domain.WorkingWindow{IsOpen: true, StartTime: "10:00", EndTime: "14:00"}, window)
}

func TestWorkingHours_BarberNotFound(t *testing.T) {
	svc := NewService(&fakeScheduleRepo{}, &fakeCatalogRepo{barberErr: catalogRepo.ErrBarberNotFound}, nopLogger{})

	_, err := svc.WorkingHours(context.Background(), 99, wednesday)
	assert.ErrorIs(t, err, ErrBarberNotFound)
}

func TestWeekSchedule_DefaultsAndOverrides(t *testing.T) {
	repo := &fakeScheduleRepo{
		rules: []*domain.ScheduleRule{
			{BarberID: 1, Weekday: 1, IsOpen: false},
			{BarberID: 1, Weekday: 6, IsOpen: true, StartTime: "10:00", EndTime: "16:00"},
		},
	}
	svc := NewService(repo, &fakeCatalogRepo{}, nopLogger{})

	week, err := svc.WeekSchedule(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, week, 7)

	// Понедельник закрыт явным правилом, суббота сокращена
	assert.False(t, week[1].IsOpen)
	assert.Equal(t, domain.WorkingWindow{IsOpen: true, StartTime: "10:00", EndTime: "16:00"}, week[6])

	// Остальные дни следуют расписанию по умолчанию
	assert.Equal(t, domain.DefaultWorkingWindow(2), week[2])
	assert.False(t, week[7].IsOpen)
}

func TestSetRule_ByOwnerBarber(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewService(repo, &fakeCatalogRepo{}, nopLogger{})

	rule := &domain.ScheduleRule{BarberID: 1, Weekday: 2, IsOpen: true, StartTime: "10:00", EndTime: "19:00"}
	principal := domain.Principal{UserID: 50, Role: domain.RoleBarber, BarberID: ptr.Ptr(int64(1))}

	err := svc.SetRule(context.Background(), rule, principal)
	require.NoError(t, err)
	assert.Equal(t, rule, repo.upserted)
}

func TestSetRule_AccessDenied(t *testing.T) {
	svc := NewService(&fakeScheduleRepo{}, &fakeCatalogRepo{}, nopLogger{})
	rule := &domain.ScheduleRule{BarberID: 1, Weekday: 2, IsOpen: false}

	// Чужой барбер
	err := svc.SetRule(context.Background(), rule, domain.Principal{
		UserID: 51, Role: domain.RoleBarber, BarberID: ptr.Ptr(int64(2)),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Клиент
	err = svc.SetRule(context.Background(), rule, domain.Principal{UserID: 7, Role: domain.RoleClient})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestSetRule_Validation(t *testing.T) {
	svc := NewService(&fakeScheduleRepo{}, &fakeCatalogRepo{}, nopLogger{})
	admin := domain.Principal{UserID: 999, Role: domain.RoleAdmin}

	tests := []struct {
		name string
		rule *domain.ScheduleRule
	}{
		{"weekday too small", &domain.ScheduleRule{BarberID: 1, Weekday: 0, IsOpen: false}},
		{"weekday too big", &domain.ScheduleRule{BarberID: 1, Weekday: 8, IsOpen: false}},
		{"bad start time", &domain.ScheduleRule{BarberID: 1, Weekday: 2, IsOpen: true, StartTime: "abc", EndTime: "19:00"}},
		{"start after end", &domain.ScheduleRule{BarberID: 1, Weekday: 2, IsOpen: true, StartTime: "19:00", EndTime: "10:00"}},
		{"start equals end", &domain.ScheduleRule{BarberID: 1, Weekday: 2, IsOpen: true, StartTime: "10:00", EndTime: "10:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetRule(context.Background(), tt.rule, admin)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestSetRule_ClosedDaySkipsTimeValidation(t *testing.T) {
	repo := &fakeScheduleRepo{}
	svc := NewService(repo, &fakeCatalogRepo{}, nopLogger{})
	admin := domain.Principal{UserID: 999, Role: domain.RoleAdmin}

	// Для закрытого дня времена не обязательны
	rule := &domain.ScheduleRule{BarberID: 1, Weekday: 7, IsOpen: false}
	err := svc.SetRule(context.Background(), rule, admin)
	require.NoError(t, err)
	assert.Equal(t, rule, repo.upserted)
}
