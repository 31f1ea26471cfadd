package core

import (
	"sort"

	"github.com/google/uuid"
)

// BookBorrowCount is one row of the most-borrowed ranking.
type BookBorrowCount struct {
	BookID    uuid.UUID
	Title     string
	Author    string
	PageCount int
	Count     int
}

// UserBorrowCount is one row of the top-borrowers ranking.
type UserBorrowCount struct {
	UserID   uuid.UUID
	FullName string
	Count    int
}

// RelatedBook is one row of the also-borrowed co-occurrence ranking.
type RelatedBook struct {
	BookID uuid.UUID
	Title  string
	Author string
	Count  int
}

// MostBorrowed groups the loans within the window by book, counts them,
// and returns the top books by descending loan count. Ties keep the
// order in which a book first appears in the loan sequence, which makes
// the result deterministic for ledger scans ordered by borrow time.
// Loans must carry resolved Book references. Zero matching loans yield
// an empty result, not an error.
func MostBorrowed(loans []Loan, window Window, top int) []BookBorrowCount {
	counts := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0)
	books := make(map[uuid.UUID]*Book)

	for i := range loans {
		loan := loans[i]
		if !window.Contains(loan.BorrowedAt) || loan.Book == nil {
			continue
		}

		if _, seen := counts[loan.BookID]; !seen {
			order = append(order, loan.BookID)
			books[loan.BookID] = loan.Book
		}

		counts[loan.BookID]++
	}

	result := make([]BookBorrowCount, 0, len(order))
	for _, bookID := range order {
		book := books[bookID]
		result = append(result, BookBorrowCount{
			BookID:    bookID,
			Title:     book.Title,
			Author:    book.Author,
			PageCount: book.PageCount,
			Count:     counts[bookID],
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return truncate(result, top)
}

// TopBorrowers groups the loans within the window by user, counts them,
// and returns the top users by descending loan count. Loans must carry
// resolved User references. Tie handling matches MostBorrowed.
func TopBorrowers(loans []Loan, window Window, top int) []UserBorrowCount {
	counts := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0)
	users := make(map[uuid.UUID]*User)

	for i := range loans {
		loan := loans[i]
		if !window.Contains(loan.BorrowedAt) || loan.User == nil {
			continue
		}

		if _, seen := counts[loan.UserID]; !seen {
			order = append(order, loan.UserID)
			users[loan.UserID] = loan.User
		}

		counts[loan.UserID]++
	}

	result := make([]UserBorrowCount, 0, len(order))
	for _, userID := range order {
		result = append(result, UserBorrowCount{
			UserID:   userID,
			FullName: users[userID].FullName,
			Count:    counts[userID],
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return truncate(result, top)
}

// AlsoBorrowed runs the two-phase co-occurrence query over the loans
// within the window:
//
//  1. Collect the distinct users who borrowed bookID within the window.
//  2. Among the same window, count the other books those users borrowed,
//     excluding bookID itself, and return the top books by count.
//
// A book borrowed by nobody yields an empty result, not an error. The
// target book is never part of its own result set.
func AlsoBorrowed(loans []Loan, bookID uuid.UUID, window Window, top int) []RelatedBook {
	borrowers := make(map[uuid.UUID]struct{})
	for i := range loans {
		loan := loans[i]
		if loan.BookID == bookID && window.Contains(loan.BorrowedAt) {
			borrowers[loan.UserID] = struct{}{}
		}
	}

	if len(borrowers) == 0 {
		return []RelatedBook{}
	}

	counts := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0)
	books := make(map[uuid.UUID]*Book)

	for i := range loans {
		loan := loans[i]
		if loan.BookID == bookID || loan.Book == nil || !window.Contains(loan.BorrowedAt) {
			continue
		}

		if _, isBorrower := borrowers[loan.UserID]; !isBorrower {
			continue
		}

		if _, seen := counts[loan.BookID]; !seen {
			order = append(order, loan.BookID)
			books[loan.BookID] = loan.Book
		}

		counts[loan.BookID]++
	}

	result := make([]RelatedBook, 0, len(order))
	for _, relatedID := range order {
		book := books[relatedID]
		result = append(result, RelatedBook{
			BookID: relatedID,
			Title:  book.Title,
			Author: book.Author,
			Count:  counts[relatedID],
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return truncate(result, top)
}

// truncate bounds a ranking to its top entries.
func truncate[T any](rows []T, top int) []T {
	if top > 0 && len(rows) > top {
		return rows[:top]
	}

	return rows
}
