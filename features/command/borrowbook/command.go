package borrowbook

import (
	"time"

	"github.com/google/uuid"
)

const requestType = "BorrowBook"

// Command represents the intent to borrow a book for a user.
type Command struct {
	UserID     uuid.UUID
	BookID     uuid.UUID
	BorrowedAt time.Time
}

// BuildCommand creates a new Command with the provided parameters.
// The borrow timestamp is normalized to UTC.
func BuildCommand(userID uuid.UUID, bookID uuid.UUID, borrowedAt time.Time) Command {
	return Command{
		UserID:     userID,
		BookID:     bookID,
		BorrowedAt: borrowedAt.UTC(),
	}
}

// RequestType returns the type identifier for this command, used for
// observability and routing. Commands are never cacheable.
func (c Command) RequestType() string {
	return requestType
}

// Result carries the id of the newly created loan.
type Result struct {
	LoanID uuid.UUID
}
