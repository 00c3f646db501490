package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaltedSHA256Sum(t *testing.T) {
	h := NewSaltedSHA256()

	first := h.Sum("483920", "5f8c1d2e3a4b5c6d7e8f90a1b2c3d4e5")
	second := h.Sum("483920", "5f8c1d2e3a4b5c6d7e8f90a1b2c3d4e5")

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.NotContains(t, first, "483920")
}

func TestSaltedSHA256SumDiffersBySalt(t *testing.T) {
	h := NewSaltedSHA256()

	assert.NotEqual(t,
		h.Sum("483920", "5f8c1d2e3a4b5c6d7e8f90a1b2c3d4e5"),
		h.Sum("483920", "a1b2c3d4e5f60718293a4b5c6d7e8f90"),
	)
}

func TestSaltedSHA256Verify(t *testing.T) {
	h := NewSaltedSHA256()
	digest := h.Sum("483920", "5f8c1d2e3a4b5c6d7e8f90a1b2c3d4e5")

	assert.True(t, h.Verify(digest, "483920", "5f8c1d2e3a4b5c6d7e8f90a1b2c3d4e5"))
	assert.False(t, h.Verify(digest, "483921", "5f8c1d2e3a4b5c6d7e8f90a1b2c3d4e5"))
	assert.False(t, h.Verify(digest, "483920", "a1b2c3d4e5f60718293a4b5c6d7e8f90"))
}

func TestSaltedSHA256VerifyEmptyDigest(t *testing.T) {
	h := NewSaltedSHA256()

	assert.False(t, h.Verify("", "483920", "5f8c1d2e3a4b5c6d7e8f90a1b2c3d4e5"))
}
