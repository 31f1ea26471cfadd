package postgresengine

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
)

const (
	colLoanID         = "id"
	colLoanUserID     = "user_id"
	colLoanBookID     = "book_id"
	colLoanBorrowedAt = "borrowed_at"
	colLoanReturnedAt = "returned_at"

	actionLoanSelect = "loan select"
	actionLoanInsert = "loan insert"
	actionLoanUpdate = "loan update"

	loanAlias = "l"
	bookAlias = "b"
	userAlias = "u"
)

// LoanRepository implements shell.LoanRepository on PostgreSQL.
//
// Add relies on the partial unique index over (user_id, book_id) for
// rows where returned_at IS NULL and translates the resulting unique
// violation into core.ConflictError. This is what closes the
// check-then-act race between concurrent borrow calls for the same
// user and book.
type LoanRepository struct {
	store *Store
}

// GetByID returns the loan with the given id, failing with
// core.NotFoundError when no row matches. Book and User references are
// not resolved.
func (r *LoanRepository) GetByID(ctx context.Context, id uuid.UUID) (core.Loan, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(r.store.loansTable).
		Select(colLoanID, colLoanUserID, colLoanBookID, colLoanBorrowedAt, colLoanReturnedAt).
		Where(goqu.C(colLoanID).Eq(id.String())).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return core.Loan{}, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionLoanSelect, sqlQuery)
	if err != nil {
		return core.Loan{}, err
	}
	defer r.store.closeRows(rows)

	if !rows.Next() {
		return core.Loan{}, core.NewNotFound("Loan", id)
	}

	return r.scanLoan(rows)
}

// GetActiveLoan returns the single Active loan for the (user, book)
// pair, if one exists. The second return value reports whether a loan
// was found.
func (r *LoanRepository) GetActiveLoan(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (core.Loan, bool, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(r.store.loansTable).
		Select(colLoanID, colLoanUserID, colLoanBookID, colLoanBorrowedAt, colLoanReturnedAt).
		Where(
			goqu.C(colLoanUserID).Eq(userID.String()),
			goqu.C(colLoanBookID).Eq(bookID.String()),
			goqu.C(colLoanReturnedAt).IsNull(),
		).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return core.Loan{}, false, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionLoanSelect, sqlQuery)
	if err != nil {
		return core.Loan{}, false, err
	}
	defer r.store.closeRows(rows)

	if !rows.Next() {
		return core.Loan{}, false, nil
	}

	loan, err := r.scanLoan(rows)
	if err != nil {
		return core.Loan{}, false, err
	}

	return loan, true, nil
}

// GetLoansByUser returns the user's loans ordered by borrow time
// descending, with the Book reference resolved on every loan.
func (r *LoanRepository) GetLoansByUser(ctx context.Context, userID uuid.UUID, window core.Window) ([]core.Loan, error) {
	dataset := r.joinedBookDataset().
		Where(goqu.T(loanAlias).Col(colLoanUserID).Eq(userID.String())).
		Order(goqu.T(loanAlias).Col(colLoanBorrowedAt).Desc())

	return r.queryLoansWithBook(ctx, r.applyWindow(dataset, window))
}

// GetLoansByBook returns the book's loans ordered by borrow time
// descending, with the Book reference resolved on every loan.
func (r *LoanRepository) GetLoansByBook(ctx context.Context, bookID uuid.UUID, window core.Window) ([]core.Loan, error) {
	dataset := r.joinedBookDataset().
		Where(goqu.T(loanAlias).Col(colLoanBookID).Eq(bookID.String())).
		Order(goqu.T(loanAlias).Col(colLoanBorrowedAt).Desc())

	return r.queryLoansWithBook(ctx, r.applyWindow(dataset, window))
}

// GetLoansInWindow returns the ledger slice for the given window ordered
// by borrow time ascending, with both Book and User resolved. This is
// the read path the analytics queries aggregate over.
func (r *LoanRepository) GetLoansInWindow(ctx context.Context, window core.Window) ([]core.Loan, error) {
	dataset := r.joinedBookDataset().
		Join(
			goqu.T(r.store.usersTable).As(userAlias),
			goqu.On(goqu.T(userAlias).Col(colUserID).Eq(goqu.T(loanAlias).Col(colLoanUserID))),
		).
		SelectAppend(
			goqu.T(userAlias).Col(colUserFullName),
			goqu.T(userAlias).Col(colUserRegisteredAt),
		).
		Order(goqu.T(loanAlias).Col(colLoanBorrowedAt).Asc())

	sqlQuery, _, err := r.applyWindow(dataset, window).ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return nil, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionLoanSelect, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer r.store.closeRows(rows)

	loans := make([]core.Loan, 0)
	for rows.Next() {
		loan, scanErr := r.scanLoanWithBookAndUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		loans = append(loans, loan)
	}

	return loans, nil
}

// Add inserts a new loan. A unique violation on the active-pair index
// is translated into core.ConflictError.
func (r *LoanRepository) Add(ctx context.Context, loan core.Loan) error {
	record := goqu.Record{
		colLoanID:         loan.ID.String(),
		colLoanUserID:     loan.UserID.String(),
		colLoanBookID:     loan.BookID.String(),
		colLoanBorrowedAt: loan.BorrowedAt,
	}

	if loan.IsReturned() {
		record[colLoanReturnedAt] = loan.ReturnedAt
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Insert(r.store.loansTable).
		Rows(record).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return core.WrapInternal(err)
	}

	if _, err := r.store.exec(ctx, actionLoanInsert, sqlQuery); err != nil {
		if isUniqueViolation(err) {
			return core.ConflictError{UserID: loan.UserID, BookID: loan.BookID}
		}

		return classifyStorageError(err)
	}

	return nil
}

// Update persists the loan's current state, failing with
// core.NotFoundError when no row matches the id.
func (r *LoanRepository) Update(ctx context.Context, loan core.Loan) error {
	record := goqu.Record{
		colLoanUserID:     loan.UserID.String(),
		colLoanBookID:     loan.BookID.String(),
		colLoanBorrowedAt: loan.BorrowedAt,
	}

	if loan.IsReturned() {
		record[colLoanReturnedAt] = loan.ReturnedAt
	} else {
		record[colLoanReturnedAt] = nil
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Update(r.store.loansTable).
		Set(record).
		Where(goqu.C(colLoanID).Eq(loan.ID.String())).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return core.WrapInternal(err)
	}

	rowsAffected, err := r.store.exec(ctx, actionLoanUpdate, sqlQuery)
	if err != nil {
		return classifyStorageError(err)
	}

	if rowsAffected == 0 {
		return core.NewNotFound("Loan", loan.ID)
	}

	return nil
}

func (r *LoanRepository) joinedBookDataset() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(goqu.T(r.store.loansTable).As(loanAlias)).
		Join(
			goqu.T(r.store.booksTable).As(bookAlias),
			goqu.On(goqu.T(bookAlias).Col(colBookID).Eq(goqu.T(loanAlias).Col(colLoanBookID))),
		).
		Select(
			goqu.T(loanAlias).Col(colLoanID),
			goqu.T(loanAlias).Col(colLoanUserID),
			goqu.T(loanAlias).Col(colLoanBookID),
			goqu.T(loanAlias).Col(colLoanBorrowedAt),
			goqu.T(loanAlias).Col(colLoanReturnedAt),
			goqu.T(bookAlias).Col(colBookISBN),
			goqu.T(bookAlias).Col(colBookTitle),
			goqu.T(bookAlias).Col(colBookAuthor),
			goqu.T(bookAlias).Col(colBookPageCount),
			goqu.T(bookAlias).Col(colBookPublishedYear),
		)
}

func (r *LoanRepository) applyWindow(dataset *goqu.SelectDataset, window core.Window) *goqu.SelectDataset {
	if window.Start != nil {
		dataset = dataset.Where(goqu.T(loanAlias).Col(colLoanBorrowedAt).Gte(*window.Start))
	}

	if window.End != nil {
		dataset = dataset.Where(goqu.T(loanAlias).Col(colLoanBorrowedAt).Lte(*window.End))
	}

	return dataset
}

func (r *LoanRepository) queryLoansWithBook(ctx context.Context, dataset *goqu.SelectDataset) ([]core.Loan, error) {
	sqlQuery, _, err := dataset.ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return nil, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionLoanSelect, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer r.store.closeRows(rows)

	loans := make([]core.Loan, 0)
	for rows.Next() {
		loan, scanErr := r.scanLoanWithBook(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		loans = append(loans, loan)
	}

	return loans, nil
}

type loanRow struct {
	rawID      string
	rawUserID  string
	rawBookID  string
	borrowedAt time.Time
	returnedAt sql.NullTime
}

func (row loanRow) toLoan() (core.Loan, error) {
	id, err := uuid.Parse(row.rawID)
	if err != nil {
		return core.Loan{}, core.WrapInternal(err)
	}

	userID, err := uuid.Parse(row.rawUserID)
	if err != nil {
		return core.Loan{}, core.WrapInternal(err)
	}

	bookID, err := uuid.Parse(row.rawBookID)
	if err != nil {
		return core.Loan{}, core.WrapInternal(err)
	}

	returnedAt := time.Time{}
	if row.returnedAt.Valid {
		returnedAt = row.returnedAt.Time
	}

	return core.RehydrateLoan(id, userID, bookID, row.borrowedAt, returnedAt), nil
}

func (r *LoanRepository) scanLoan(rows interface{ Scan(dest ...any) error }) (core.Loan, error) {
	var row loanRow

	if err := rows.Scan(&row.rawID, &row.rawUserID, &row.rawBookID, &row.borrowedAt, &row.returnedAt); err != nil {
		r.store.logError(logMsgScanRowFailed, err)
		return core.Loan{}, core.WrapInternal(err)
	}

	return row.toLoan()
}

func (r *LoanRepository) scanLoanWithBook(rows interface{ Scan(dest ...any) error }) (core.Loan, error) {
	var (
		row           loanRow
		isbn          string
		title         string
		author        string
		pageCount     int
		publishedYear sql.NullInt64
	)

	err := rows.Scan(
		&row.rawID, &row.rawUserID, &row.rawBookID, &row.borrowedAt, &row.returnedAt,
		&isbn, &title, &author, &pageCount, &publishedYear,
	)
	if err != nil {
		r.store.logError(logMsgScanRowFailed, err)
		return core.Loan{}, core.WrapInternal(err)
	}

	loan, err := row.toLoan()
	if err != nil {
		return core.Loan{}, err
	}

	return loan.WithBook(core.Book{
		ID:            loan.BookID,
		ISBN:          isbn,
		Title:         title,
		Author:        author,
		PageCount:     pageCount,
		PublishedYear: int(publishedYear.Int64),
	}), nil
}

func (r *LoanRepository) scanLoanWithBookAndUser(rows interface{ Scan(dest ...any) error }) (core.Loan, error) {
	var (
		row           loanRow
		isbn          string
		title         string
		author        string
		pageCount     int
		publishedYear sql.NullInt64
		fullName      string
		registeredAt  time.Time
	)

	err := rows.Scan(
		&row.rawID, &row.rawUserID, &row.rawBookID, &row.borrowedAt, &row.returnedAt,
		&isbn, &title, &author, &pageCount, &publishedYear,
		&fullName, &registeredAt,
	)
	if err != nil {
		r.store.logError(logMsgScanRowFailed, err)
		return core.Loan{}, core.WrapInternal(err)
	}

	loan, err := row.toLoan()
	if err != nil {
		return core.Loan{}, err
	}

	loan = loan.WithBook(core.Book{
		ID:            loan.BookID,
		ISBN:          isbn,
		Title:         title,
		Author:        author,
		PageCount:     pageCount,
		PublishedYear: int(publishedYear.Int64),
	})

	return loan.WithUser(core.User{
		ID:           loan.UserID,
		FullName:     fullName,
		RegisteredAt: registeredAt.UTC(),
	}), nil
}
