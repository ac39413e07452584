package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseSignatureHeader разбирает заголовок x-signature формата "ts=...,v1=..."
func ParseSignatureHeader(header string) (ts string, v1 string, err error) {
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}

		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}

	if ts == "" || v1 == "" {
		return "", "", fmt.Errorf("%w: header missing ts or v1", ErrInvalidSignature)
	}

	return ts, v1, nil
}

// VerifySignature проверяет HMAC-SHA256 подпись вебхука
// Подписывается строка "<ts>.<body>"; сравнение за константное время
func VerifySignature(secret string, header string, body []byte) error {
	ts, v1, err := ParseSignatureHeader(header)
	if err != nil {
		return err
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(v1))) {
		return fmt.Errorf("%w: signature mismatch", ErrInvalidSignature)
	}

	return nil
}
