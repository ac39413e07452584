package types

import (
	"errors"
	"fmt"
	"time"
)

// TimeString строковое представление времени в формате HH:MM
// Используется для рабочих часов и временных слотов без привязки к дате
type TimeString string

const timeStringLayout = "15:04"

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("types: invalid time string format, expected HH:MM")
)

// NewTimeString создает TimeString из time.Time (отбрасывает дату и секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeStringLayout))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := time.Parse(timeStringLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// IsZero возвращает true, если значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeStringLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, t)
	}
	return nil
}

// ToTime парсит TimeString в time.Time (дата 0000-01-01)
func (t TimeString) ToTime() (time.Time, error) {
	parsed, err := time.Parse(timeStringLayout, string(t))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, t)
	}
	return parsed, nil
}

// OnDate совмещает время с датой в указанной временной зоне
func (t TimeString) OnDate(date time.Time) (time.Time, error) {
	parsed, err := t.ToTime()
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		date.Location(),
	), nil
}

// IsBefore возвращает true, если время строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter возвращает true, если время строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// AddMinutes прибавляет минуты и возвращает новое значение
// Возвращает ошибку, если исходное значение некорректно
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := t.ToTime()
	if err != nil {
		return "", err
	}
	return NewTimeString(parsed.Add(time.Duration(minutes) * time.Minute)), nil
}
