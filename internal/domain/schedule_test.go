package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dpereira25/AgendaBarber/pkg/types"
)

func TestDefaultWorkingWindow(t *testing.T) {
	for weekday := 1; weekday <= 5; weekday++ {
		window := DefaultWorkingWindow(weekday)
		assert.True(t, window.IsOpen)
		assert.Equal(t, types.TimeString("18:00"), window.StartTime)
		assert.Equal(t, types.TimeString("21:00"), window.EndTime)
	}

	saturday := DefaultWorkingWindow(6)
	assert.True(t, saturday.IsOpen)
	assert.Equal(t, types.TimeString("09:00"), saturday.StartTime)
	assert.Equal(t, types.TimeString("18:00"), saturday.EndTime)

	assert.False(t, DefaultWorkingWindow(7).IsOpen)
}

func TestISOWeekday(t *testing.T) {
	// 2026-08-31 - понедельник
	monday := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i+1, ISOWeekday(monday.AddDate(0, 0, i)))
	}
}

func TestScheduleRuleWindow(t *testing.T) {
	open := &ScheduleRule{IsOpen: true, StartTime: "10:00", EndTime: "14:00"}
	window := open.Window()
	assert.True(t, window.IsOpen)
	assert.Equal(t, types.TimeString("10:00"), window.StartTime)
	assert.Equal(t, types.TimeString("14:00"), window.EndTime)

	closed := &ScheduleRule{IsOpen: false, StartTime: "10:00", EndTime: "14:00"}
	assert.False(t, closed.Window().IsOpen)
}
