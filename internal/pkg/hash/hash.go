package hash

// Hash is a deterministic one-way digest over a single input string.
type Hash interface {
	// Hash returns the digest of the input string (hex-encoded).
	Hash(str string) ([]byte, error)
	// Verify checks whether the plaintext string matches the given digest.
	Verify(hashed, str string) bool
}
