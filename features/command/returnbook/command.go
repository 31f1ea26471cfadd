package returnbook

import (
	"time"

	"github.com/google/uuid"
)

const requestType = "ReturnBook"

// Command represents the intent to return a borrowed book.
type Command struct {
	LoanID     uuid.UUID
	ReturnedAt time.Time
}

// BuildCommand creates a new Command with the provided parameters.
// The return timestamp is normalized to UTC.
func BuildCommand(loanID uuid.UUID, returnedAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		ReturnedAt: returnedAt.UTC(),
	}
}

// RequestType returns the type identifier for this command, used for
// observability and routing. Commands are never cacheable.
func (c Command) RequestType() string {
	return requestType
}

// Result reports whether the loan transitioned to Returned.
type Result struct {
	Success bool
}
