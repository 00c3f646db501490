package usecase

import (
	"context"
	"testing"

	"github.com/otpgate/otpgate/internal/otp/entity"
	"github.com/otpgate/otpgate/internal/pkg/goerror"
	"github.com/otpgate/otpgate/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func operatorContext() context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{Phone: "+19998887777"})
}

func TestAdminReset(t *testing.T) {
	f := newFixture(t)
	ctx := operatorContext()
	phone := "+15551234567"

	require.NoError(t, f.db.CreateUser(ctx, entity.User{ID: 42, Phone: phone}))
	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))

	err := f.uc.AdminReset(ctx, AdminResetInput{Phone: phone})
	require.NoError(t, err)

	assert.Equal(t, 0, f.store.challengeCount())
	assert.Equal(t, 0, f.db.userCount())

	// The reset also releases the resend cooldown.
	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))
}

func TestAdminResetChallengeOnly(t *testing.T) {
	f := newFixture(t)
	ctx := operatorContext()
	phone := "+15551234567"

	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))

	err := f.uc.AdminReset(ctx, AdminResetInput{Phone: phone})
	require.NoError(t, err)
	assert.Equal(t, 0, f.store.challengeCount())
}

func TestAdminResetNothingToReset(t *testing.T) {
	f := newFixture(t)

	err := f.uc.AdminReset(operatorContext(), AdminResetInput{Phone: "+15551234567"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeNotFound, asGoError(t, err).Code())
}

func TestAdminResetUnauthenticated(t *testing.T) {
	f := newFixture(t)

	err := f.uc.AdminReset(context.Background(), AdminResetInput{Phone: "+15551234567"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, asGoError(t, err).Code())
}
