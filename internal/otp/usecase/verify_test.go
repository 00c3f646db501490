package usecase

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/otpgate/otpgate/internal/otp/entity"
	"github.com/otpgate/otpgate/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := "+15551234567"

	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))

	out, err := f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.NoError(t, err)
	require.NotNil(t, out)
	require.NotEmpty(t, out.Credential)

	claims, err := f.jwt.Verify(out.Credential)
	require.NoError(t, err)
	assert.Equal(t, phone, claims.Phone)
	assert.Equal(t, strconv.FormatInt(claims.UserID, 10), claims.Subject)

	user, err := f.db.GetUserByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// The record is gone once verified.
	assert.Equal(t, 0, f.store.challengeCount())

	require.NoError(t, f.manager.Wait())
	events := f.broker.published()
	require.Len(t, events, 1)
	assert.Equal(t, user.ID, events[0].UserID)
	assert.Equal(t, phone, events[0].Subject)
	assert.Equal(t, entity.ChannelWhatsApp, events[0].Channel)
}

func TestVerifyNoChallenge(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Verify(context.Background(), VerifyInput{Phone: "+15551234567", Code: "123456"})
	require.Error(t, err)
	assert.Nil(t, out)

	gerr := asGoError(t, err)
	assert.Equal(t, goerror.CodeNotFound, gerr.Code())
	assert.Equal(t, http.StatusNotFound, gerr.StatusCode())
}

func TestVerifySingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := "+15551234567"

	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))

	_, err := f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.NoError(t, err)

	// The same code never verifies twice.
	_, err = f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeNotFound, asGoError(t, err).Code())
}

func TestVerifyExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := "+15551234567"

	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))
	f.clock.Advance(5 * time.Minute)

	// Even the correct code fails once the window has lapsed, and the lapsed
	// record is destroyed on the spot.
	out, err := f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.Error(t, err)
	assert.Nil(t, out)

	gerr := asGoError(t, err)
	assert.Equal(t, goerror.CodeExpired, gerr.Code())
	assert.Equal(t, http.StatusGone, gerr.StatusCode())
	assert.Equal(t, 0, f.store.challengeCount())

	_, err = f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeNotFound, asGoError(t, err).Code())
}

func TestVerifyIncorrectThenCorrect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := "+15551234567"

	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))

	out, err := f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "000000"})
	require.Error(t, err)
	assert.Nil(t, out)

	gerr := asGoError(t, err)
	assert.Equal(t, goerror.CodeUnauthorized, gerr.Code())
	assert.Equal(t, http.StatusUnauthorized, gerr.StatusCode())

	// The failed attempt is persisted before the response goes out.
	key, err := f.uc.subjectKey(phone)
	require.NoError(t, err)
	rec, err := f.store.GetChallenge(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Attempts)

	out, err = f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Credential)
}

func TestVerifyAttemptBudgetExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := "+15551234567"

	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))

	for i := 0; i < 5; i++ {
		_, err := f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "000000"})
		require.Error(t, err)
		assert.Equal(t, goerror.CodeUnauthorized, asGoError(t, err).Code())
	}

	// The sixth attempt trips the budget and destroys the record, even though
	// it carries the correct code.
	_, err := f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeTooManyRequest, asGoError(t, err).Code())
	assert.Equal(t, 0, f.store.challengeCount())

	_, err = f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, goerror.CodeNotFound, asGoError(t, err).Code())
}

func TestVerifyExistingUserReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	phone := "+15551234567"

	require.NoError(t, f.db.CreateUser(ctx, entity.User{ID: 42, Phone: phone}))
	require.NoError(t, f.uc.Start(ctx, StartInput{Phone: phone, Channel: "whatsapp"}))

	out, err := f.uc.Verify(ctx, VerifyInput{Phone: phone, Code: "123456"})
	require.NoError(t, err)

	claims, err := f.jwt.Verify(out.Credential)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, 1, f.db.userCount())
}

func TestVerifyInvalidInput(t *testing.T) {
	f := newFixture(t)

	tests := map[string]VerifyInput{
		"missing plus": {Phone: "15551234567", Code: "123456"},
		"short code":   {Phone: "+15551234567", Code: "12"},
		"empty code":   {Phone: "+15551234567", Code: ""},
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Verify(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, goerror.TypeValidation, asGoError(t, err).Type())
		})
	}
}
