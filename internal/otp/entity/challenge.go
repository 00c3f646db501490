package entity

import "time"

// Challenge is the single active challenge record for a subject. At most one
// exists per subject at any time; the store key is derived from the normalized
// subject address, never the plaintext address itself.
type Challenge struct {
	Subject    string
	Channel    Channel
	SecretHash string
	Salt       string
	Attempts   int64
	CreatedAt  time.Time
	LastSentAt time.Time
	ExpiresAt  time.Time
}

// User is a durable identity bound to a verified subject address.
type User struct {
	ID    int64
	Phone string
}
