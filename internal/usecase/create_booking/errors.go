package create_booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBarberNotFound возвращается, когда барбер не найден
	ErrBarberNotFound = errors.New("barber not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrBarberClosed возвращается, когда барбер не работает в указанную дату
	ErrBarberClosed = errors.New("barber is closed on this date")

	// ErrOutsideWorkingHours возвращается, когда слот не помещается в рабочее окно
	ErrOutsideWorkingHours = errors.New("slot is outside working hours")

	// ErrTimeInPast возвращается при попытке занять слот в прошлом
	ErrTimeInPast = errors.New("slot start time is in the past")

	// ErrSlotNotAvailable возвращается, когда слот занят записью
	// или не удалось подтвердить доступность после всех попыток транзакции
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrPaymentSetupFailed возвращается, когда удержание создано,
	// но платежный провайдер не выдал checkout-ссылку
	ErrPaymentSetupFailed = errors.New("failed to set up payment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)

// SlotHeldError возвращается, когда слот занят чужим временным удержанием
// Несет время до истечения удержания для точного сообщения пользователю
type SlotHeldError struct {
	ReleasesIn time.Duration
}

func (e *SlotHeldError) Error() string {
	return fmt.Sprintf("slot is held by another session, releases in %s", e.ReleasesIn)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrSlotNotAvailable)
func (e *SlotHeldError) Is(target error) bool {
	return target == ErrSlotNotAvailable
}
