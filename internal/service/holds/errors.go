package holds

import "errors"

var (
	// ErrHoldNotFound возвращается, когда активное удержание не найдено
	ErrHoldNotFound = errors.New("hold not found")

	// ErrHoldExpired возвращается при попытке продлить истекшее удержание
	ErrHoldExpired = errors.New("hold has expired")

	// ErrAccessDenied возвращается при обращении к удержанию чужой сессии
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
