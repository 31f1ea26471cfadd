package core

import (
	"strings"

	"github.com/google/uuid"
)

// Book represents a book in the library catalog.
// Instances are immutable after construction; NewBook is the only way
// to obtain a valid one. PublishedYear is optional, zero means unknown.
type Book struct {
	ID            uuid.UUID
	ISBN          string
	Title         string
	Author        string
	PageCount     int
	PublishedYear int
}

// NewBook creates a Book, validating all invariants eagerly.
// It fails with an InvalidArgumentError naming the offending field when
// the id is the zero value, any required string is empty or
// whitespace-only, or the page count is not positive.
func NewBook(id uuid.UUID, isbn string, title string, author string, pageCount int, publishedYear int) (Book, error) {
	if id == uuid.Nil {
		return Book{}, NewInvalidArgument("id", "must not be empty")
	}

	if strings.TrimSpace(isbn) == "" {
		return Book{}, NewInvalidArgument("isbn", "must not be empty")
	}

	if strings.TrimSpace(title) == "" {
		return Book{}, NewInvalidArgument("title", "must not be empty")
	}

	if strings.TrimSpace(author) == "" {
		return Book{}, NewInvalidArgument("author", "must not be empty")
	}

	if pageCount <= 0 {
		return Book{}, NewInvalidArgument("pageCount", "must be positive")
	}

	return Book{
		ID:            id,
		ISBN:          isbn,
		Title:         title,
		Author:        author,
		PageCount:     pageCount,
		PublishedYear: publishedYear,
	}, nil
}
