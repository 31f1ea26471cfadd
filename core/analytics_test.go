package core_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/librarylab/lending-go/core"
)

type ledgerBuilder struct {
	t     *testing.T
	clock time.Time
	loans []core.Loan
}

func newLedger(t *testing.T) *ledgerBuilder {
	return &ledgerBuilder{
		t:     t,
		clock: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

// borrow appends a loan one hour after the previous one, so the ledger
// is ordered by borrow time ascending like the storage read path.
func (b *ledgerBuilder) borrow(user core.User, book core.Book) *ledgerBuilder {
	b.clock = b.clock.Add(time.Hour)

	loan, err := core.NewLoan(uuid.New(), user.ID, book.ID, b.clock)
	assert.NoError(b.t, err)

	b.loans = append(b.loans, loan.WithBook(book).WithUser(user))

	return b
}

func testBook(title string) core.Book {
	return core.Book{ID: uuid.New(), ISBN: "isbn-" + title, Title: title, Author: "Author", PageCount: 250}
}

func testUser(name string) core.User {
	return core.User{ID: uuid.New(), FullName: name, RegisteredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func Test_MostBorrowed_RanksByCountDescending(t *testing.T) {
	gopher := testBook("The Go Programming Language")
	sicp := testBook("SICP")
	alice, bob, carol := testUser("Alice"), testUser("Bob"), testUser("Carol")

	ledger := newLedger(t).
		borrow(alice, sicp).
		borrow(alice, gopher).
		borrow(bob, gopher).
		borrow(carol, gopher).
		borrow(bob, sicp)

	result := core.MostBorrowed(ledger.loans, core.Window{}, 10)

	assert.Len(t, result, 2)
	assert.Equal(t, gopher.ID, result[0].BookID)
	assert.Equal(t, 3, result[0].Count)
	assert.Equal(t, sicp.ID, result[1].BookID)
	assert.Equal(t, 2, result[1].Count)
}

func Test_MostBorrowed_TieKeepsFirstAppearanceOrder(t *testing.T) {
	first := testBook("Borrowed First")
	second := testBook("Borrowed Second")
	alice, bob := testUser("Alice"), testUser("Bob")

	ledger := newLedger(t).
		borrow(alice, first).
		borrow(alice, second).
		borrow(bob, first).
		borrow(bob, second)

	result := core.MostBorrowed(ledger.loans, core.Window{}, 10)

	assert.Len(t, result, 2)
	assert.Equal(t, first.ID, result[0].BookID)
	assert.Equal(t, second.ID, result[1].BookID)
}

func Test_MostBorrowed_TruncatesToTop(t *testing.T) {
	alice := testUser("Alice")
	ledger := newLedger(t)
	for i := 0; i < 5; i++ {
		ledger.borrow(alice, testBook(string(rune('A'+i))))
	}

	result := core.MostBorrowed(ledger.loans, core.Window{}, 3)

	assert.Len(t, result, 3)
}

func Test_MostBorrowed_WindowExcludesOutsideLoans(t *testing.T) {
	book := testBook("Windowed")
	alice := testUser("Alice")
	ledger := newLedger(t).borrow(alice, book)

	afterAll := ledger.clock.Add(time.Hour)
	window := core.BuildWindow(&afterAll, nil)

	result := core.MostBorrowed(ledger.loans, window, 10)

	assert.Empty(t, result)
}

func Test_MostBorrowed_EmptyLedger(t *testing.T) {
	result := core.MostBorrowed(nil, core.Window{}, 10)

	assert.Empty(t, result)
}

func Test_TopBorrowers_RanksByCountDescending(t *testing.T) {
	gopher := testBook("Gopher")
	sicp := testBook("SICP")
	alice, bob := testUser("Alice"), testUser("Bob")

	ledger := newLedger(t).
		borrow(alice, gopher).
		borrow(alice, sicp).
		borrow(bob, gopher)

	result := core.TopBorrowers(ledger.loans, core.Window{}, 10)

	assert.Len(t, result, 2)
	assert.Equal(t, alice.ID, result[0].UserID)
	assert.Equal(t, 2, result[0].Count)
	assert.Equal(t, "Alice", result[0].FullName)
	assert.Equal(t, bob.ID, result[1].UserID)
}

func Test_AlsoBorrowed_ExcludesReferenceBook(t *testing.T) {
	reference := testBook("Reference")
	companion := testBook("Companion")
	unrelated := testBook("Unrelated")
	alice, bob, dave := testUser("Alice"), testUser("Bob"), testUser("Dave")

	ledger := newLedger(t).
		borrow(alice, reference).
		borrow(alice, companion).
		borrow(bob, reference).
		borrow(bob, companion).
		borrow(dave, unrelated) // dave never borrowed the reference book

	result := core.AlsoBorrowed(ledger.loans, reference.ID, core.Window{}, 10)

	assert.Len(t, result, 1)
	assert.Equal(t, companion.ID, result[0].BookID)
	assert.Equal(t, 2, result[0].Count)

	for _, row := range result {
		assert.NotEqual(t, reference.ID, row.BookID)
	}
}

func Test_AlsoBorrowed_NoBorrowers(t *testing.T) {
	lonely := testBook("Never Borrowed")
	alice := testUser("Alice")
	ledger := newLedger(t).borrow(alice, testBook("Other"))

	result := core.AlsoBorrowed(ledger.loans, lonely.ID, core.Window{}, 10)

	assert.Empty(t, result)
}

func Test_AlsoBorrowed_CountsOnlyCoBorrowerLoans(t *testing.T) {
	reference := testBook("Reference")
	companion := testBook("Companion")
	alice, eve := testUser("Alice"), testUser("Eve")

	ledger := newLedger(t).
		borrow(alice, reference).
		borrow(alice, companion).
		borrow(eve, companion) // eve is not a borrower of the reference book

	result := core.AlsoBorrowed(ledger.loans, reference.ID, core.Window{}, 10)

	assert.Len(t, result, 1)
	assert.Equal(t, 1, result[0].Count)
}
