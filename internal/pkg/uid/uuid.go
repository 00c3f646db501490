package uid

import "github.com/google/uuid"

// UUID produces RFC 4122 identifier strings, preferring the time-ordered V7
// form so IDs sort roughly by creation time.
type UUID struct{}

// NewUUID returns a UUID string generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a fresh UUID string. When V7 generation fails it degrades
// to a random V4, which never errors.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
