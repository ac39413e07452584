package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("18:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("18:30"), ts)

	for _, invalid := range []string{"25:00", "18:60", "1830", "6pm", ""} {
		_, err := NewTimeStringFromString(invalid)
		assert.ErrorIs(t, err, ErrInvalidTimeString, "input %q", invalid)
	}
}

func TestTimeStringOnDate(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	date := time.Date(2026, 9, 1, 0, 0, 0, 0, loc)
	result, err := TimeString("18:30").OnDate(date)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 1, 18, 30, 0, 0, loc), result)
	assert.Equal(t, loc, result.Location())
}

func TestTimeStringComparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("18:00"))
	assert.False(t, TimeString("18:00").IsBefore("18:00"))
	assert.True(t, TimeString("19:00").IsAfter("18:00"))
}

func TestTimeStringAddMinutes(t *testing.T) {
	result, err := TimeString("18:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("19:15"), result)

	_, err = TimeString("bad").AddMinutes(10)
	assert.Error(t, err)
}
