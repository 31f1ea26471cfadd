package topborrowers_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/features/query/topborrowers"
	"github.com/librarylab/lending-go/memstore"
)

func Test_TopBorrowers_RanksUsersByLoanCount(t *testing.T) {
	books := memstore.NewBookStore()
	users := memstore.NewUserStore()
	loans := memstore.NewLoanStore(books, users)
	handler := topborrowers.NewQueryHandler(loans)

	alice, err := core.NewUser(uuid.New(), "Alice", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.NoError(t, users.Add(context.Background(), alice))

	bob, err := core.NewUser(uuid.New(), "Bob", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.NoError(t, users.Add(context.Background(), bob))

	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	borrow := func(user core.User) {
		clock = clock.Add(time.Hour)
		book, bookErr := core.NewBook(uuid.New(), "isbn-"+uuid.NewString(), "Book", "Author", 100, 0)
		assert.NoError(t, bookErr)
		assert.NoError(t, books.Add(context.Background(), book))

		loan, loanErr := core.NewLoan(uuid.New(), user.ID, book.ID, clock)
		assert.NoError(t, loanErr)
		assert.NoError(t, loans.Add(context.Background(), loan))
	}

	borrow(alice)
	borrow(alice)
	borrow(alice)
	borrow(bob)

	result, err := handler.Handle(context.Background(), topborrowers.BuildQuery(10, nil, nil))

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, alice.ID, result.Borrowers[0].UserID)
	assert.Equal(t, "Alice", result.Borrowers[0].FullName)
	assert.Equal(t, 3, result.Borrowers[0].Count)
	assert.Equal(t, bob.ID, result.Borrowers[1].UserID)
	assert.Equal(t, 1, result.Borrowers[1].Count)
}

func Test_TopBorrowers_EmptyLedger(t *testing.T) {
	books := memstore.NewBookStore()
	users := memstore.NewUserStore()
	handler := topborrowers.NewQueryHandler(memstore.NewLoanStore(books, users))

	result, err := handler.Handle(context.Background(), topborrowers.BuildQuery(10, nil, nil))

	assert.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Borrowers)
}
