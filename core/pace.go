package core

import (
	"time"

	"github.com/google/uuid"
)

// hoursPerDay converts elapsed durations to fractional days.
const hoursPerDay = 24.0

// LoanPace is the per-loan reading pace record reported by CalculateUserPace.
// Days is the raw elapsed time between borrow and return in fractional
// days; PagesPerDay is computed with the one-day floor regardless.
type LoanPace struct {
	LoanID      uuid.UUID
	BookID      uuid.UUID
	BookTitle   string
	PageCount   int
	Days        float64
	PagesPerDay float64
	BorrowedAt  time.Time
	ReturnedAt  time.Time
}

// UserPace aggregates the reading pace over a user's returned loans.
// PagesPerDay is the arithmetic mean of the per-loan paces; it is
// deliberately not pages-weighted so long books do not dominate.
type UserPace struct {
	PagesPerDay float64
	Loans       []LoanPace
}

// CalculatePace computes pages per day for a finished reading span.
// Elapsed days are fractional (4 hours = ~0.167 days) but floored to a
// minimum of one day before dividing, so same-day returns never inflate
// the pace to "infinite pages per day".
// It fails with InvalidArgumentError when returnedAt is earlier than borrowedAt.
func CalculatePace(pageCount int, borrowedAt time.Time, returnedAt time.Time) (float64, error) {
	if returnedAt.Before(borrowedAt) {
		return 0, NewInvalidArgument("returnedAt", "must not be earlier than borrowedAt")
	}

	return float64(pageCount) / flooredDays(borrowedAt, returnedAt), nil
}

// CalculateLoanPace computes the pace for a single loan.
// The second return value is false when the loan is not returned yet.
// The loan must carry a resolved Book reference; this is a precondition
// guaranteed by the repositories on the read paths that reach here.
func CalculateLoanPace(loan Loan) (float64, bool) {
	if !loan.IsReturned() || loan.Book == nil {
		return 0, false
	}

	return float64(loan.Book.PageCount) / flooredDays(loan.BorrowedAt, loan.ReturnedAt), true
}

// CalculateUserPace computes the aggregate reading pace over the given
// loans, considering only returned ones. The per-loan records preserve
// the input order; the policy itself does not sort. With zero returned
// loans the result is an aggregate pace of 0 and an empty record list.
func CalculateUserPace(loans []Loan) UserPace {
	paces := make([]LoanPace, 0, len(loans))
	paceSum := 0.0

	for _, loan := range loans {
		pace, ok := CalculateLoanPace(loan)
		if !ok {
			continue
		}

		paces = append(paces, LoanPace{
			LoanID:      loan.ID,
			BookID:      loan.BookID,
			BookTitle:   loan.Book.Title,
			PageCount:   loan.Book.PageCount,
			Days:        elapsedDays(loan.BorrowedAt, loan.ReturnedAt),
			PagesPerDay: pace,
			BorrowedAt:  loan.BorrowedAt,
			ReturnedAt:  loan.ReturnedAt,
		})

		paceSum += pace
	}

	if len(paces) == 0 {
		return UserPace{PagesPerDay: 0, Loans: paces}
	}

	return UserPace{
		PagesPerDay: paceSum / float64(len(paces)),
		Loans:       paces,
	}
}

// elapsedDays returns the raw fractional days between two instants.
func elapsedDays(from time.Time, to time.Time) float64 {
	return to.Sub(from).Hours() / hoursPerDay
}

// flooredDays returns the elapsed days floored to a minimum of one day.
func flooredDays(from time.Time, to time.Time) float64 {
	days := elapsedDays(from, to)
	if days < 1 {
		return 1
	}

	return days
}
