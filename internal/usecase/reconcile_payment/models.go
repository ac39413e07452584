package reconcile_payment

// Outcome итог сверки платежа
type Outcome string

const (
	// OutcomeBookingCreated платеж прошел, удержание сконвертировано в запись
	OutcomeBookingCreated Outcome = "booking_created"

	// OutcomeAlreadyProcessed платеж уже был обработан ранее (идемпотентность)
	OutcomeAlreadyProcessed Outcome = "already_processed"

	// OutcomeHoldReleased платеж не состоялся, удержание снято досрочно
	OutcomeHoldReleased Outcome = "hold_released"

	// OutcomePending платеж еще в обработке у провайдера, решение отложено
	OutcomePending Outcome = "pending"

	// OutcomeIgnored уведомление не относится к нашим удержаниям
	OutcomeIgnored Outcome = "ignored"

	// OutcomeHoldLost платеж прошел, но удержание уже удалено
	// Требуется ручное вмешательство (возврат средств)
	OutcomeHoldLost Outcome = "hold_lost"

	// OutcomeSlotConflict платеж прошел, но слот успели занять
	// Требуется ручное вмешательство (возврат средств)
	OutcomeSlotConflict Outcome = "slot_conflict"

	// OutcomeNeedsAttention возврат или чарджбек по созданной записи,
	// запись помечена для ручного разбора
	OutcomeNeedsAttention Outcome = "needs_attention"

	// OutcomeDuplicate повторное уведомление в окне дедупликации
	OutcomeDuplicate Outcome = "duplicate"
)

// Request модель запроса на сверку платежа
type Request struct {
	PaymentID string // ID платежа у провайдера
}

// Response модель ответа на сверку платежа
type Response struct {
	Outcome   Outcome `json:"outcome"`
	BookingID *int64  `json:"bookingId,omitempty"`
}

// WebhookRequest модель входящего вебхука провайдера
type WebhookRequest struct {
	Topic           string
	ResourceID      string
	RawBody         []byte
	SourceIP        string
	SignatureHeader string
}
