package alsoborrowed_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/features/query/alsoborrowed"
	"github.com/librarylab/lending-go/memstore"
)

type fixture struct {
	handler alsoborrowed.QueryHandler
	books   *memstore.BookStore
	users   *memstore.UserStore
	loans   *memstore.LoanStore
	clock   time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()

	books := memstore.NewBookStore()
	users := memstore.NewUserStore()
	loans := memstore.NewLoanStore(books, users)

	return &fixture{
		handler: alsoborrowed.NewQueryHandler(loans),
		books:   books,
		users:   users,
		loans:   loans,
		clock:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) addBook(t *testing.T, title string) core.Book {
	t.Helper()

	book, err := core.NewBook(uuid.New(), "isbn-"+title, title, "Author", 150, 0)
	assert.NoError(t, err)
	assert.NoError(t, f.books.Add(context.Background(), book))

	return book
}

func (f *fixture) addUser(t *testing.T, name string) core.User {
	t.Helper()

	user, err := core.NewUser(uuid.New(), name, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.NoError(t, f.users.Add(context.Background(), user))

	return user
}

func (f *fixture) borrow(t *testing.T, user core.User, book core.Book) {
	t.Helper()

	f.clock = f.clock.Add(time.Hour)
	loan, err := core.NewLoan(uuid.New(), user.ID, book.ID, f.clock)
	assert.NoError(t, err)
	assert.NoError(t, f.loans.Add(context.Background(), loan))
}

func Test_AlsoBorrowed_FindsCompanionBooks(t *testing.T) {
	f := setup(t)
	reference := f.addBook(t, "Reference")
	companion := f.addBook(t, "Companion")
	rare := f.addBook(t, "Rare")
	alice := f.addUser(t, "Alice")
	bob := f.addUser(t, "Bob")

	f.borrow(t, alice, reference)
	f.borrow(t, alice, companion)
	f.borrow(t, bob, reference)
	f.borrow(t, bob, companion)
	f.borrow(t, bob, rare)

	result, err := f.handler.Handle(context.Background(), alsoborrowed.BuildQuery(reference.ID, 10, nil, nil))

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, companion.ID, result.Books[0].BookID)
	assert.Equal(t, 2, result.Books[0].Count)
	assert.Equal(t, rare.ID, result.Books[1].BookID)
	assert.Equal(t, 1, result.Books[1].Count)
}

func Test_AlsoBorrowed_ReferenceBookNeverInResult(t *testing.T) {
	f := setup(t)
	reference := f.addBook(t, "Reference")
	alice := f.addUser(t, "Alice")

	f.borrow(t, alice, reference)

	result, err := f.handler.Handle(context.Background(), alsoborrowed.BuildQuery(reference.ID, 10, nil, nil))

	assert.NoError(t, err)
	assert.Empty(t, result.Books)
}

func Test_AlsoBorrowed_BookWithoutBorrowers_YieldsEmptyResult(t *testing.T) {
	f := setup(t)
	lonely := f.addBook(t, "Lonely")
	other := f.addBook(t, "Other")
	alice := f.addUser(t, "Alice")

	f.borrow(t, alice, other)

	result, err := f.handler.Handle(context.Background(), alsoborrowed.BuildQuery(lonely.ID, 10, nil, nil))

	assert.NoError(t, err)
	assert.Zero(t, result.Count)
	assert.Empty(t, result.Books)
}

func Test_AlsoBorrowed_Validator_RequiresBookID(t *testing.T) {
	validator := alsoborrowed.NewValidator()

	violations := validator.Validate(context.Background(), alsoborrowed.BuildQuery(uuid.Nil, 10, nil, nil))

	assert.Len(t, violations, 1)
	assert.Equal(t, "bookId", violations[0].Field)
}
