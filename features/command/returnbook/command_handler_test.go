package returnbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/features/command/returnbook"
	"github.com/librarylab/lending-go/memstore"
)

func setup(t *testing.T) (returnbook.CommandHandler, *memstore.LoanStore, core.Loan) {
	t.Helper()

	books := memstore.NewBookStore()
	users := memstore.NewUserStore()
	loans := memstore.NewLoanStore(books, users)

	loan, err := core.NewLoan(uuid.New(), uuid.New(), uuid.New(), time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.NoError(t, loans.Add(context.Background(), loan))

	return returnbook.NewCommandHandler(loans), loans, loan
}

func Test_ReturnBook_Success(t *testing.T) {
	handler, loans, loan := setup(t)
	returnedAt := loan.BorrowedAt.Add(72 * time.Hour)

	result, err := handler.Handle(context.Background(), returnbook.BuildCommand(loan.ID, returnedAt))

	assert.NoError(t, err)
	assert.True(t, result.Success)

	stored, err := loans.GetByID(context.Background(), loan.ID)
	assert.NoError(t, err)
	assert.True(t, stored.IsReturned())
	assert.Equal(t, returnedAt, stored.ReturnedAt)
}

func Test_ReturnBook_UnknownLoan_FailsNotFound(t *testing.T) {
	handler, _, _ := setup(t)

	_, err := handler.Handle(context.Background(), returnbook.BuildCommand(uuid.New(), time.Now()))

	assert.True(t, core.IsNotFound(err))
}

func Test_ReturnBook_SecondReturn_FailsAlreadyReturned(t *testing.T) {
	handler, _, loan := setup(t)
	returnedAt := loan.BorrowedAt.Add(time.Hour)

	_, err := handler.Handle(context.Background(), returnbook.BuildCommand(loan.ID, returnedAt))
	assert.NoError(t, err)

	_, err = handler.Handle(context.Background(), returnbook.BuildCommand(loan.ID, returnedAt.Add(time.Hour)))

	assert.True(t, core.IsAlreadyReturned(err))
}

func Test_ReturnBook_ReturnBeforeBorrow_FailsInvalidArgument(t *testing.T) {
	handler, loans, loan := setup(t)

	_, err := handler.Handle(context.Background(), returnbook.BuildCommand(loan.ID, loan.BorrowedAt.Add(-time.Hour)))

	assert.True(t, core.IsInvalidArgument(err))

	stored, err := loans.GetByID(context.Background(), loan.ID)
	assert.NoError(t, err)
	assert.False(t, stored.IsReturned())
}

func Test_ReturnBook_Validator_ReportsEveryViolation(t *testing.T) {
	validator := returnbook.NewValidator()

	violations := validator.Validate(context.Background(), returnbook.Command{})

	assert.Len(t, violations, 2)
	assert.Equal(t, "loanId", violations[0].Field)
	assert.Equal(t, "returnedAt", violations[1].Field)
}
