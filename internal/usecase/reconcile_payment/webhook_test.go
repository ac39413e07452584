package reconcile_payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpereira25/AgendaBarber/internal/domain"
)

func signBody(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func webhookRequest() *WebhookRequest {
	return &WebhookRequest{
		Topic:      "payment",
		ResourceID: "123456",
		RawBody:    []byte(`{"type":"payment","data":{"id":"123456"}}`),
		SourceIP:   "200.10.20.30",
	}
}

func TestExecuteWebhook_ProcessesPaymentNotification(t *testing.T) {
	env := newTestEnv(Config{})
	env.client.payment = approvedPayment()
	env.holds.hold = testHold()

	resp, err := env.uc.ExecuteWebhook(context.Background(), webhookRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeBookingCreated, resp.Outcome)

	// Журнал фиксирует жизненный цикл уведомления
	require.NotNil(t, env.webhookLogs.created)
	assert.Equal(t, domain.WebhookStatusReceived, env.webhookLogs.created.Status)
	assert.Equal(t, []domain.WebhookStatus{
		domain.WebhookStatusProcessing,
		domain.WebhookStatusProcessed,
	}, env.webhookLogs.statuses)
}

func TestExecuteWebhook_ForeignTopicAcknowledged(t *testing.T) {
	env := newTestEnv(Config{})

	req := webhookRequest()
	req.Topic = "merchant_order"

	resp, err := env.uc.ExecuteWebhook(context.Background(), req)
	require.NoError(t, err)

	// Чужой топик подтверждается без сверки
	assert.Equal(t, OutcomeIgnored, resp.Outcome)
	assert.Equal(t, []domain.WebhookStatus{domain.WebhookStatusIgnored}, env.webhookLogs.statuses)
}

func TestExecuteWebhook_DuplicateInRecentWindow(t *testing.T) {
	env := newTestEnv(Config{})
	env.webhookLogs.recentProcessed = 1

	resp, err := env.uc.ExecuteWebhook(context.Background(), webhookRequest())
	require.NoError(t, err)

	assert.Equal(t, OutcomeDuplicate, resp.Outcome)
	assert.Equal(t, []domain.WebhookStatus{domain.WebhookStatusDuplicate}, env.webhookLogs.statuses)
	// До сверки дело не дошло
	assert.Nil(t, env.payments.created)
}

func TestExecuteWebhook_ValidSignatureAccepted(t *testing.T) {
	env := newTestEnv(Config{WebhookSecret: "secret"})
	env.client.payment = approvedPayment()
	env.holds.hold = testHold()

	req := webhookRequest()
	req.SignatureHeader = signBody("secret", "1756728000", req.RawBody)

	resp, err := env.uc.ExecuteWebhook(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, OutcomeBookingCreated, resp.Outcome)
}

func TestExecuteWebhook_InvalidSignatureRejected(t *testing.T) {
	env := newTestEnv(Config{WebhookSecret: "secret"})

	req := webhookRequest()
	req.SignatureHeader = signBody("wrong-secret", "1756728000", req.RawBody)

	_, err := env.uc.ExecuteWebhook(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Equal(t, []domain.WebhookStatus{domain.WebhookStatusFailed}, env.webhookLogs.statuses)
}

func TestExecuteWebhook_ReconcileErrorMarksFailed(t *testing.T) {
	env := newTestEnv(Config{})
	env.client.err = assert.AnError

	_, err := env.uc.ExecuteWebhook(context.Background(), webhookRequest())
	require.Error(t, err)

	// failed не подтверждается, провайдер повторит уведомление
	assert.Equal(t, []domain.WebhookStatus{
		domain.WebhookStatusProcessing,
		domain.WebhookStatusFailed,
	}, env.webhookLogs.statuses)
}

func TestExecuteWebhook_MissingResourceID(t *testing.T) {
	env := newTestEnv(Config{})

	req := webhookRequest()
	req.ResourceID = ""

	_, err := env.uc.ExecuteWebhook(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
