package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.SessionKey) == "" {
		return fmt.Errorf("%w: sessionKey is required", ErrInvalidInput)
	}

	if req.BarberID <= 0 {
		return fmt.Errorf("%w: barberID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	email := strings.TrimSpace(req.ClientEmail)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: valid clientEmail is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}

	return nil
}

// validateSlotWindow проверяет, что слот целиком помещается в рабочее окно
func validateSlotWindow(window domain.WorkingWindow, slotStart, slotEnd time.Time, date time.Time) error {
	if !window.IsOpen {
		return ErrBarberClosed
	}

	openAt, err := window.StartTime.OnDate(date)
	if err != nil {
		return fmt.Errorf("%w: invalid working window: %v", ErrInternal, err)
	}
	closeAt, err := window.EndTime.OnDate(date)
	if err != nil {
		return fmt.Errorf("%w: invalid working window: %v", ErrInternal, err)
	}

	if slotStart.Before(openAt) || slotEnd.After(closeAt) {
		return ErrOutsideWorkingHours
	}

	return nil
}
