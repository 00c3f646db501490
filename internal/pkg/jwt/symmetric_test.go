package jwt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

type stubUUID struct{}

func (stubUUID) Generate() string { return "0198f2a4-stub-jti" }

func newTestSymmetric(t *testing.T, clk *stubClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		Issuer:    "otpgate",
		Audiences: []string{"otpgate"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      stubUUID{},
	})
	require.NoError(t, err)

	return s
}

func TestNewHS512RejectsShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("too-short")})
	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestSymmetricGenerateVerify(t *testing.T) {
	// Verification checks expiry against the wall clock, so the issuing clock
	// has to sit near real time.
	clk := &stubClock{now: time.Now()}
	s := newTestSymmetric(t, clk)

	token, err := s.Generate(42, "+15551234567")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "+15551234567", claims.Phone)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "otpgate", claims.Issuer)
	assert.Equal(t, "0198f2a4-stub-jti", claims.ID)
	assert.Equal(t, clk.Now().Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestSymmetricVerifyExpired(t *testing.T) {
	// Issue far enough in the past that the one hour TTL has already lapsed.
	clk := &stubClock{now: time.Now().Add(-3 * time.Hour)}
	s := newTestSymmetric(t, clk)

	token, err := s.Generate(42, "+15551234567")
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSymmetricVerifyTamperedSignature(t *testing.T) {
	clk := &stubClock{now: time.Now()}
	s := newTestSymmetric(t, clk)

	token, err := s.Generate(42, "+15551234567")
	require.NoError(t, err)

	other, err := NewHS512(Config{
		Secret:    []byte("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"),
		Issuer:    "otpgate",
		Audiences: []string{"otpgate"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      stubUUID{},
	})
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestSymmetricVerifyGarbage(t *testing.T) {
	s := newTestSymmetric(t, &stubClock{now: time.Now()})

	_, err := s.Verify("not-a-token")
	assert.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetAuth(ctx))

	ctx = SetAuth(ctx, Claims{UserID: 42, Phone: "+15551234567"})
	clm := GetAuth(ctx)
	require.NotNil(t, clm)
	assert.Equal(t, int64(42), clm.UserID)
}
