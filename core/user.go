package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered library user.
// Instances are immutable after construction.
type User struct {
	ID           uuid.UUID
	FullName     string
	RegisteredAt time.Time
}

// NewUser creates a User, validating all invariants eagerly.
// The registration timestamp is normalized to UTC.
func NewUser(id uuid.UUID, fullName string, registeredAt time.Time) (User, error) {
	if id == uuid.Nil {
		return User{}, NewInvalidArgument("id", "must not be empty")
	}

	if strings.TrimSpace(fullName) == "" {
		return User{}, NewInvalidArgument("fullName", "must not be empty")
	}

	if registeredAt.IsZero() {
		return User{}, NewInvalidArgument("registeredAt", "must not be the zero time")
	}

	return User{
		ID:           id,
		FullName:     fullName,
		RegisteredAt: registeredAt.UTC(),
	}, nil
}
