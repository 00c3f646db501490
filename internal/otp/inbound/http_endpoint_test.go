package inbound

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/otpgate/otpgate/internal/otp/usecase"
	"github.com/otpgate/otpgate/internal/pkg/goerror"
	"github.com/otpgate/otpgate/internal/pkg/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	startIn  usecase.StartInput
	startErr error

	verifyIn  usecase.VerifyInput
	verifyOut *usecase.VerifyOutput
	verifyErr error

	resetIn usecase.AdminResetInput
}

func (f *fakeUsecase) Start(_ context.Context, in usecase.StartInput) error {
	f.startIn = in
	return f.startErr
}

func (f *fakeUsecase) Verify(_ context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	f.verifyIn = in
	return f.verifyOut, f.verifyErr
}

func (f *fakeUsecase) AdminReset(_ context.Context, in usecase.AdminResetInput) error {
	f.resetIn = in
	return nil
}

func jsonRequest(body string) *router.Request {
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	return &router.Request{Request: req}
}

func TestStartEndpoint(t *testing.T) {
	fake := &fakeUsecase{}
	end := &HTTPEndpoint{uc: fake}

	resp, err := end.Start(jsonRequest(`{"phone":"+15551234567","channel":"whatsapp"}`))
	require.NoError(t, err)

	assert.Equal(t, StartResponse{OK: true}, resp)
	assert.Equal(t, "+15551234567", fake.startIn.Phone)
	assert.Equal(t, "whatsapp", fake.startIn.Channel)
}

func TestStartEndpointMalformedBody(t *testing.T) {
	end := &HTTPEndpoint{uc: &fakeUsecase{}}

	tests := map[string]string{
		"not json":         `{"phone":`,
		"unknown field":    `{"phone":"+15551234567","channel":"whatsapp","extra":1}`,
		"trailing content": `{"phone":"+15551234567"}{"again":true}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := end.Start(jsonRequest(body))
			require.Error(t, err)

			gerr, ok := err.(*goerror.Error)
			require.True(t, ok)
			assert.Equal(t, goerror.CodeInvalidFormat, gerr.Code())
		})
	}
}

func TestStartEndpointUsecaseError(t *testing.T) {
	fake := &fakeUsecase{startErr: goerror.NewBusiness("slow down", goerror.CodeTooManyRequest)}
	end := &HTTPEndpoint{uc: fake}

	resp, err := end.Start(jsonRequest(`{"phone":"+15551234567","channel":"whatsapp"}`))
	assert.Nil(t, resp)
	assert.Error(t, err)
}

func TestVerifyEndpoint(t *testing.T) {
	fake := &fakeUsecase{verifyOut: &usecase.VerifyOutput{Credential: "signed.jwt.token"}}
	end := &HTTPEndpoint{uc: fake}

	resp, err := end.Verify(jsonRequest(`{"phone":"+15551234567","code":"123456"}`))
	require.NoError(t, err)

	assert.Equal(t, VerifyResponse{Credential: "signed.jwt.token"}, resp)
	assert.Equal(t, "123456", fake.verifyIn.Code)
}

func TestVerifyEndpointIncorrectCode(t *testing.T) {
	fake := &fakeUsecase{verifyErr: goerror.NewBusiness("Incorrect verification code", goerror.CodeUnauthorized)}
	end := &HTTPEndpoint{uc: fake}

	resp, err := end.Verify(jsonRequest(`{"phone":"+15551234567","code":"000000"}`))
	assert.Nil(t, resp)
	assert.Error(t, err)
}
