package bookings

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBookingNotFound возвращается, когда запись не найдена
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда запись не может быть отменена
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// CancelTooLateError возвращается при попытке отменить запись ближе
// минимального лид-тайма к началу; несет оставшееся до начала время,
// чтобы слой API мог сформировать точное сообщение
type CancelTooLateError struct {
	LeadTime       time.Duration
	TimeUntilStart time.Duration
}

func (e *CancelTooLateError) Error() string {
	return fmt.Sprintf("booking cannot be cancelled less than %s before start: %s remaining",
		e.LeadTime, e.TimeUntilStart)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrCannotCancel)
func (e *CancelTooLateError) Is(target error) bool {
	return target == ErrCannotCancel
}
