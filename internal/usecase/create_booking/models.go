package create_booking

import (
	"time"

	"github.com/dpereira25/AgendaBarber/pkg/types"
)

// Config параметры создания записи
type Config struct {
	// HoldTTL время жизни временного удержания слота
	HoldTTL time.Duration

	// PaymentEnabled false в dev-режиме без платежного провайдера:
	// запись создается сразу подтвержденной и неоплаченной
	PaymentEnabled bool

	// Sandbox true вне production: клиенту отдается sandbox checkout-ссылка
	Sandbox bool

	Currency        string
	NotificationURL string
	SuccessURL      string
	FailureURL      string
	PendingURL      string
}

// Request модель запроса на создание записи
type Request struct {
	ClientID   int64            // ID клиента
	SessionKey string           // Ключ сессии клиента (идемпотентность повторной отправки)
	BarberID   int64            // ID барбера
	ServiceID  int64            // ID услуги
	Date       time.Time        // Дата записи (без времени)
	StartTime  types.TimeString // Время начала слота
	ClientEmail string          // Email для платежа и уведомлений
	ClientName  string          // Имя клиента
}

// HoldResult данные созданного удержания и checkout-ссылка
type HoldResult struct {
	HoldID       string    `json:"holdId"`
	ExpiresAt    time.Time `json:"expiresAt"`
	PreferenceID string    `json:"preferenceId"`
	CheckoutURL  string    `json:"checkoutUrl"`
}

// BookingResult данные записи, созданной в обход оплаты (dev-режим)
type BookingResult struct {
	BookingID int64  `json:"bookingId"`
	Status    string `json:"status"`
	Paid      bool   `json:"paid"`
}

// Response модель ответа на создание записи
// Заполнено ровно одно из полей Hold и Booking
type Response struct {
	Hold    *HoldResult    `json:"hold,omitempty"`
	Booking *BookingResult `json:"booking,omitempty"`
}
