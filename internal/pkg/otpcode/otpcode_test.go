package otpcode

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	g := NewRandom()

	for i := 0; i < 200; i++ {
		code, err := g.Code()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestRandomSalt(t *testing.T) {
	g := NewRandom()

	first, err := g.Salt()
	require.NoError(t, err)
	second, err := g.Salt()
	require.NoError(t, err)

	assert.Len(t, first, 32)
	assert.Regexp(t, "^[0-9a-f]{32}$", first)
	assert.NotEqual(t, first, second)
}
