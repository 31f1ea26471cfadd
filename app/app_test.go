package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/librarylab/lending-go/app"
	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/features/command/borrowbook"
	"github.com/librarylab/lending-go/features/command/returnbook"
	"github.com/librarylab/lending-go/features/query/mostborrowed"
	"github.com/librarylab/lending-go/features/query/readingpace"
	"github.com/librarylab/lending-go/memstore"
	"github.com/librarylab/lending-go/shell/memcache"
	"github.com/librarylab/lending-go/testutil/testdoubles"
)

type world struct {
	app *app.App
}

func setup(options ...app.Option) world {
	books := memstore.NewBookStore()
	users := memstore.NewUserStore()
	loans := memstore.NewLoanStore(books, users)

	return world{app: app.New(books, users, loans, options...)}
}

func Test_App_BorrowConflictReturnBorrow_Lifecycle(t *testing.T) {
	w := setup()
	ctx := context.Background()

	book, err := w.app.CreateBook(ctx, "978-0134190440", "The Go Programming Language", "Donovan & Kernighan", 380, 2015)
	assert.NoError(t, err)

	user, err := w.app.CreateUser(ctx, "Ada Lovelace", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	borrowedAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	borrowed, err := w.app.BorrowBook(ctx, borrowbook.BuildCommand(user.ID, book.ID, borrowedAt))
	assert.NoError(t, err)

	// A second borrow of the same book while the loan is active conflicts.
	_, err = w.app.BorrowBook(ctx, borrowbook.BuildCommand(user.ID, book.ID, borrowedAt.Add(time.Hour)))
	assert.True(t, core.IsConflict(err))

	returned, err := w.app.ReturnBook(ctx, returnbook.BuildCommand(borrowed.LoanID, borrowedAt.Add(5*24*time.Hour)))
	assert.NoError(t, err)
	assert.True(t, returned.Success)

	// Second return of the same loan is rejected without changing state.
	_, err = w.app.ReturnBook(ctx, returnbook.BuildCommand(borrowed.LoanID, borrowedAt.Add(6*24*time.Hour)))
	assert.True(t, core.IsAlreadyReturned(err))

	// After the return, the same pair can borrow again.
	_, err = w.app.BorrowBook(ctx, borrowbook.BuildCommand(user.ID, book.ID, borrowedAt.Add(7*24*time.Hour)))
	assert.NoError(t, err)
}

func Test_App_ValidationRunsBeforeTheHandler(t *testing.T) {
	w := setup()

	_, err := w.app.BorrowBook(context.Background(), borrowbook.Command{})

	var validationFailed core.ValidationFailedError
	assert.ErrorAs(t, err, &validationFailed)
	assert.Len(t, validationFailed.Violations, 3)
}

func Test_App_QueryValidation_RejectsOutOfRangeTop(t *testing.T) {
	w := setup()

	_, err := w.app.MostBorrowed(context.Background(), mostborrowed.BuildQuery(0, nil, nil))

	assert.True(t, core.IsValidationFailed(err))
}

func Test_App_ReadingPaceThroughThePipeline(t *testing.T) {
	w := setup()
	ctx := context.Background()

	book, err := w.app.CreateBook(ctx, "isbn", "Some Book", "Author", 300, 0)
	assert.NoError(t, err)

	user, err := w.app.CreateUser(ctx, "Ada Lovelace", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	borrowedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	borrowed, err := w.app.BorrowBook(ctx, borrowbook.BuildCommand(user.ID, book.ID, borrowedAt))
	assert.NoError(t, err)

	_, err = w.app.ReturnBook(ctx, returnbook.BuildCommand(borrowed.LoanID, borrowedAt.Add(10*24*time.Hour)))
	assert.NoError(t, err)

	result, err := w.app.ReadingPace(ctx, readingpace.BuildQuery(user.ID))

	assert.NoError(t, err)
	assert.InDelta(t, 30.0, result.PagesPerDay, 0.0001)
	assert.Len(t, result.Loans, 1)
}

func Test_App_CachedQuery_HitsStorageOnce(t *testing.T) {
	cache := memcache.New()
	w := setup(app.WithCache(cache))
	ctx := context.Background()

	book, err := w.app.CreateBook(ctx, "isbn", "Some Book", "Author", 300, 0)
	assert.NoError(t, err)

	user, err := w.app.CreateUser(ctx, "Ada Lovelace", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	_, err = w.app.BorrowBook(ctx, borrowbook.BuildCommand(user.ID, book.ID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.NoError(t, err)

	first, err := w.app.MostBorrowed(ctx, mostborrowed.BuildQuery(10, nil, nil))
	assert.NoError(t, err)
	assert.Equal(t, 1, first.Count)

	// A new borrow within the TTL is not visible to the cached query.
	_, err = w.app.BorrowBook(ctx, borrowbook.BuildCommand(user.ID, uuidMust(w.app.CreateBook(ctx, "isbn2", "Other", "Author", 100, 0)), time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.NoError(t, err)

	second, err := w.app.MostBorrowed(ctx, mostborrowed.BuildQuery(10, nil, nil))
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
}

func Test_App_CommandsAreNeverCached(t *testing.T) {
	cache := memcache.New()
	w := setup(app.WithCache(cache))
	ctx := context.Background()

	book, err := w.app.CreateBook(ctx, "isbn", "Some Book", "Author", 300, 0)
	assert.NoError(t, err)

	user, err := w.app.CreateUser(ctx, "Ada Lovelace", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)

	_, err = w.app.BorrowBook(ctx, borrowbook.BuildCommand(user.ID, book.ID, time.Now()))
	assert.NoError(t, err)

	assert.Equal(t, 0, cache.Len())
}

func Test_App_PipelineLogsEveryRequest(t *testing.T) {
	logger := testdoubles.NewLoggerSpy()
	w := setup(app.WithLogger(logger))

	_, err := w.app.MostBorrowed(context.Background(), mostborrowed.BuildQuery(10, nil, nil))
	assert.NoError(t, err)

	records := logger.Records()
	assert.Len(t, records, 2)
	assert.Equal(t, "handling request", records[0].Message)
	assert.Equal(t, "request handled", records[1].Message)
}

func uuidMust(book core.Book, err error) uuid.UUID {
	if err != nil {
		panic(err)
	}

	return book.ID
}
