package otpcode

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strconv"
)

// Generator produces one-time challenge codes and per-issuance salts.
type Generator interface {
	// Code returns a fixed-width numeric code.
	Code() (string, error)
	// Salt returns a random hex salt unique per issuance.
	Salt() (string, error)
}

const (
	// codeMin and codeMax bound the 6-digit code space (inclusive).
	codeMin = 100000
	codeMax = 999999

	// saltBytes is the salt entropy in bytes (128 bits).
	saltBytes = 16
)

// Random generates codes and salts from crypto/rand.
//
// The code is a security-relevant secret despite its small space, so it must
// not come from a seedable general-purpose generator.
type Random struct{}

// NewRandom returns a crypto/rand backed Generator.
func NewRandom() *Random {
	return &Random{}
}

// Code returns a uniformly random 6-digit code in [100000, 999999].
func (*Random) Code() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(codeMin+n.Int64(), 10), nil
}

// Salt returns 16 random bytes rendered as a 32-char hex string.
func (*Random) Salt() (string, error) {
	var b [saltBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
