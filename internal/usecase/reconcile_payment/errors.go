package reconcile_payment

import "errors"

var (
	// ErrVerificationFailed возвращается, когда платеж не удалось
	// подтвердить у провайдера
	ErrVerificationFailed = errors.New("payment verification failed")

	// ErrInvalidSignature возвращается при невалидной подписи вебхука
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
