package mercadopago

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignatureHeader(t *testing.T) {
	ts, v1, err := ParseSignatureHeader("ts=1756728000,v1=abc123")
	require.NoError(t, err)
	assert.Equal(t, "1756728000", ts)
	assert.Equal(t, "abc123", v1)

	// Пробелы и лишние пары игнорируются
	ts, v1, err = ParseSignatureHeader(" ts = 1756728000 , id=42 , v1 = abc123 ")
	require.NoError(t, err)
	assert.Equal(t, "1756728000", ts)
	assert.Equal(t, "abc123", v1)
}

func TestParseSignatureHeader_Invalid(t *testing.T) {
	for _, header := range []string{"", "ts=1756728000", "v1=abc123", "garbage"} {
		_, _, err := ParseSignatureHeader(header)
		assert.ErrorIs(t, err, ErrInvalidSignature, "header %q", header)
	}
}

func signedHeader(secret, ts string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	return fmt.Sprintf("ts=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"payment","data":{"id":"123"}}`)
	header := signedHeader("secret", "1756728000", body)

	assert.NoError(t, VerifySignature("secret", header, body))

	// Подпись чувствительна к секрету, телу и ts
	assert.ErrorIs(t, VerifySignature("other-secret", header, body), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature("secret", header, []byte(`{}`)), ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature("secret", signedHeader("secret", "999", body), body), ErrInvalidSignature)
}

func TestVerifySignature_UppercaseHexAccepted(t *testing.T) {
	body := []byte(`{"data":{"id":"123"}}`)

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("1756728000"))
	mac.Write([]byte("."))
	mac.Write(body)
	upper := fmt.Sprintf("ts=1756728000,v1=%X", mac.Sum(nil))

	assert.NoError(t, VerifySignature("secret", upper, body))
}
