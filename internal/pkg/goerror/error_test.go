package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewServer(errors.New("boom")), http.StatusInternalServerError},
		{NewDependency(errors.New("boom"), "upstream down"), http.StatusBadGateway},
		{NewBusiness("missing", CodeNotFound), http.StatusNotFound},
		{NewBusiness("lapsed", CodeExpired), http.StatusGone},
		{NewBusiness("slow down", CodeTooManyRequest), http.StatusTooManyRequests},
		{NewBusiness("who are you", CodeUnauthorized), http.StatusUnauthorized},
		{NewInvalidInput(errors.New("bad")), http.StatusUnprocessableEntity},
		{NewInvalidFormat(), http.StatusBadRequest},
	}

	for _, tt := range tests {
		gerr, ok := tt.err.(*Error)
		require.True(t, ok)
		assert.Equal(t, tt.want, gerr.StatusCode(), gerr.Code().String())
	}
}

func TestNewDependency(t *testing.T) {
	cause := errors.New("provider unavailable")
	err := NewDependency(cause, "Failed to deliver verification code")

	gerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, TypeServer, gerr.Type())
	assert.Equal(t, CodeDependency, gerr.Code())
	assert.Equal(t, "Failed to deliver verification code", gerr.Msg())
	assert.ErrorIs(t, err, cause)
}

func TestNewInvalidInputFields(t *testing.T) {
	err := NewInvalidInput(nil, "channel", "channel must be whatsapp")

	gerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidInput, gerr.Code())
	assert.Equal(t, "channel must be whatsapp", gerr.Fields()["channel"])
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", NewServer(errors.New("boom")).Error())
	assert.Equal(t, "slow down", NewBusiness("slow down", CodeTooManyRequest).Error())
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "ERROR_CODE_EXPIRED", CodeExpired.String())
	assert.Equal(t, "ERROR_CODE_DEPENDENCY", CodeDependency.String())
	assert.Equal(t, "ERROR_CODE_TOO_MANY_REQUESTS", CodeTooManyRequest.String())
}
