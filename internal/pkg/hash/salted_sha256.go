package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SaltedSHA256 digests a secret together with a per-issuance salt as
// SHA-256(secret ":" salt), hex-encoded. It is keyless on purpose: the digest
// must verify against records written by any past process instance.
type SaltedSHA256 struct{}

// NewSaltedSHA256 returns a SaltedSHA256 digest.
func NewSaltedSHA256() *SaltedSHA256 {
	return &SaltedSHA256{}
}

// Sum returns the hex digest of secret and salt.
func (*SaltedSHA256) Sum(secret, salt string) string {
	sum := sha256.Sum256([]byte(secret + ":" + salt))
	return hex.EncodeToString(sum[:])
}

// Verify checks whether secret and salt produce the given digest.
//
// An empty digest never verifies, so records missing their hash fail closed.
func (s *SaltedSHA256) Verify(digest, secret, salt string) bool {
	if digest == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(s.Sum(secret, salt))) == 1
}
