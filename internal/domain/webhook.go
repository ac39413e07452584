package domain

import "time"

// WebhookStatus статус обработки входящего уведомления
type WebhookStatus string

const (
	WebhookStatusReceived   WebhookStatus = "received"
	WebhookStatusProcessing WebhookStatus = "processing"
	WebhookStatusProcessed  WebhookStatus = "processed"
	WebhookStatusFailed     WebhookStatus = "failed"
	WebhookStatusIgnored    WebhookStatus = "ignored"
	WebhookStatusDuplicate  WebhookStatus = "duplicate"
)

// WebhookLog журнал входящих уведомлений платежного провайдера
// Ведется для идемпотентности и отладки, на решения не влияет
type WebhookLog struct {
	ID         int64
	Topic      string
	ResourceID string
	RawBody    string
	SourceIP   *string
	Status     WebhookStatus
	Error      *string
	ReceivedAt time.Time
	UpdatedAt  time.Time
}
