package strcase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToLowerSnake(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"Phone":      "phone",
		"userID":     "user_id",
		"HTTPServer": "http_server",
		"SecretHash": "secret_hash",
		"already":    "already",
		"Channel2FA": "channel2_fa",
	}

	for in, want := range tests {
		assert.Equal(t, want, ToLowerSnake(in), in)
	}
}
