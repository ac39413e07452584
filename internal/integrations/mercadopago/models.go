package mercadopago

// PreferenceItem позиция checkout-преференции
type PreferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

// PreferencePayer плательщик checkout-преференции
type PreferencePayer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// BackURLs адреса возврата после оплаты
type BackURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

// PreferenceRequest запрос на создание checkout-преференции
type PreferenceRequest struct {
	Items             []PreferenceItem `json:"items"`
	Payer             *PreferencePayer `json:"payer,omitempty"`
	ExternalReference string           `json:"external_reference"`
	NotificationURL   string           `json:"notification_url,omitempty"`
	BackURLs          *BackURLs        `json:"back_urls,omitempty"`
	AutoReturn        string           `json:"auto_return,omitempty"`
	// Expires ограничивает время жизни преференции сроком удержания слота
	Expires         bool   `json:"expires,omitempty"`
	ExpirationDateTo string `json:"expiration_date_to,omitempty"`
}

// Preference созданная checkout-преференция
type Preference struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// Payment платеж, полученный от провайдера
type Payment struct {
	ID                int64   `json:"id"`
	Status            string  `json:"status"`
	StatusDetail      string  `json:"status_detail"`
	ExternalReference string  `json:"external_reference"`
	TransactionAmount float64 `json:"transaction_amount"`
	CurrencyID        string  `json:"currency_id"`
	PreferenceID      string  `json:"preference_id,omitempty"`
}

// WebhookNotification тело входящего вебхука провайдера
type WebhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ErrorResponse модель ошибки провайдера
type ErrorResponse struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
