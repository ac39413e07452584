package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		status   BookingStatus
		endTime  time.Time
		expected BookingStatus
	}{
		{
			name:     "cancelled stays cancelled even after end time",
			status:   StatusCancelled,
			endTime:  now.Add(-time.Hour),
			expected: StatusCancelled,
		},
		{
			name:     "confirmed booking past end time becomes completed",
			status:   StatusConfirmed,
			endTime:  now.Add(-time.Minute),
			expected: StatusCompleted,
		},
		{
			name:     "pending booking past end time becomes completed",
			status:   StatusPending,
			endTime:  now.Add(-time.Minute),
			expected: StatusCompleted,
		},
		{
			name:     "prematurely completed booking reverts to pending",
			status:   StatusCompleted,
			endTime:  now.Add(time.Hour),
			expected: StatusPending,
		},
		{
			name:     "confirmed booking before end time stays confirmed",
			status:   StatusConfirmed,
			endTime:  now.Add(time.Hour),
			expected: StatusConfirmed,
		},
		{
			name:     "booking ending exactly now is not completed yet",
			status:   StatusConfirmed,
			endTime:  now,
			expected: StatusConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.status, EndTime: tt.endTime}
			assert.Equal(t, tt.expected, DeriveStatus(now, b))
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	tests := []struct {
		name     string
		aStart   time.Time
		aEnd     time.Time
		bStart   time.Time
		bEnd     time.Time
		expected bool
	}{
		{"identical intervals", at(0), at(60), at(0), at(60), true},
		{"partial overlap", at(0), at(60), at(30), at(90), true},
		{"contained interval", at(0), at(90), at(30), at(60), true},
		{"touching boundaries do not overlap", at(0), at(60), at(60), at(120), false},
		{"touching boundaries reversed", at(60), at(120), at(0), at(60), false},
		{"disjoint intervals", at(0), at(30), at(60), at(90), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Пересечение симметрично
			assert.Equal(t, tt.expected, Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestBookingIsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).IsActive())
	assert.True(t, (&Booking{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
	assert.False(t, (&Booking{Status: StatusCompleted}).IsActive())
}
