package types

import (
	"time"

	"github.com/google/uuid"
)

// NewQueryID generates a UUIDv7 saved-query identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewQueryID() QueryID {
	return QueryID(uuid.Must(uuid.NewV7()).String())
}

// ParseQueryID validates and converts a string to QueryID.
// Rejects malformed UUIDs to prevent invalid IDs from reaching the store.
func ParseQueryID(s string) (QueryID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return QueryID(s), nil
}

// QueryIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func QueryIDTime(id QueryID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
