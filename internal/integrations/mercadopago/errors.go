package mercadopago

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда платеж не найден у провайдера
	ErrPaymentNotFound = errors.New("mercadopago client: payment not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mercadopago client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе провайдера
	ErrInvalidResponse = errors.New("mercadopago client: invalid response")

	// ErrUnauthorized возвращается при отклонении учетных данных провайдером
	ErrUnauthorized = errors.New("mercadopago client: credentials rejected")

	// ErrVerificationFailed возвращается, когда платеж не удалось подтвердить
	// после всех попыток запроса к провайдеру
	ErrVerificationFailed = errors.New("mercadopago client: payment verification failed")

	// ErrInvalidSignature возвращается при невалидной подписи вебхука
	ErrInvalidSignature = errors.New("mercadopago client: invalid webhook signature")
)
