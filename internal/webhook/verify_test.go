package webhook

import (
	"testing"

	"github.com/alexanderramin/autoplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_RoundTrip(t *testing.T) {
	secret := []byte("shhh")
	body := []byte(`{"action":"closed"}`)

	assert.NoError(t, Verify(secret, body, Sign(secret, body)))
}

func TestVerify_Failures(t *testing.T) {
	secret := []byte("shhh")
	body := []byte(`{"action":"closed"}`)

	tests := []struct {
		name      string
		secret    []byte
		signature string
	}{
		{"missing signature", secret, ""},
		{"missing prefix", secret, "deadbeef"},
		{"wrong secret", []byte("other"), Sign(secret, body)},
		{"tampered body signature", secret, Sign(secret, []byte(`{"action":"opened"}`))},
		{"no secret configured", nil, Sign(secret, body)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.secret, body, tt.signature)
			require.Error(t, err)
			var authErr *domain.AuthError
			assert.ErrorAs(t, err, &authErr)
		})
	}
}
