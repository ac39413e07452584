package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// verifyAttempts число попыток запроса платежа у провайдера
	// Сразу после уведомления платеж может быть еще не доступен в API
	verifyAttempts = 3

	// verifyBaseDelay базовая задержка между попытками (1с, 2с, 3с)
	verifyBaseDelay = 1 * time.Second
)

// Client клиент для работы с MercadoPago API
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         Logger
}

// NewClient создает новый экземпляр клиента MercadoPago
func NewClient(baseURL, accessToken string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreatePreference создает checkout-преференцию для оплаты удержания
func (c *Client) CreatePreference(ctx context.Context, pref *PreferenceRequest) (*Preference, error) {
	url := fmt.Sprintf("%s/checkout/preferences", c.baseURL)

	payload, err := json.Marshal(pref)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal preference: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var preference Preference
	if err := json.NewDecoder(resp.Body).Decode(&preference); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if preference.ID == "" || preference.InitPoint == "" {
		return nil, fmt.Errorf("%w: preference response missing id or init_point", ErrInvalidResponse)
	}

	c.log.Info("Created payment preference id=%s external_reference=%s", preference.ID, pref.ExternalReference)

	return &preference, nil
}

// GetPayment получает платеж по ID
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	url := fmt.Sprintf("%s/v1/payments/%s", c.baseURL, paymentID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrPaymentNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &payment, nil
}

// VerifyPayment получает платеж с повторными попытками
// Уведомление провайдера может прийти раньше, чем платеж станет доступен
// через API, поэтому 404 и сетевые ошибки ретраятся с нарастающей задержкой
func (c *Client) VerifyPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var lastErr error

	for attempt := 1; attempt <= verifyAttempts; attempt++ {
		payment, err := c.GetPayment(ctx, paymentID)
		if err == nil {
			return payment, nil
		}

		// Учетные данные отклонены - ретрай бессмыслен
		if err == ErrUnauthorized {
			return nil, err
		}

		lastErr = err
		c.log.Warn("Payment verification attempt %d/%d failed for payment_id=%s: %v",
			attempt, verifyAttempts, paymentID, err)

		if attempt < verifyAttempts {
			delay := time.Duration(attempt) * verifyBaseDelay

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: context cancelled: %v", ErrVerificationFailed, ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("%w: payment_id=%s, last error: %v", ErrVerificationFailed, paymentID, lastErr)
}
