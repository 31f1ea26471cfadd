// Package memstore provides in-memory implementations of the storage
// ports. They are used by the test suites and as a storage mode for
// running the service without Postgres. All stores are safe for
// concurrent use and observe context cancellation.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
	"github.com/librarylab/lending-go/shell"
)

const (
	entityBook = "Book"
	entityUser = "User"
	entityLoan = "Loan"
)

// BookStore is an in-memory shell.BookRepository.
type BookStore struct {
	mu    sync.RWMutex
	books map[uuid.UUID]core.Book
	order []uuid.UUID
}

// NewBookStore creates an empty BookStore.
func NewBookStore() *BookStore {
	return &BookStore{books: make(map[uuid.UUID]core.Book)}
}

// GetByID returns the book with the given id.
func (s *BookStore) GetByID(ctx context.Context, id uuid.UUID) (core.Book, error) {
	if err := ctx.Err(); err != nil {
		return core.Book{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	book, exists := s.books[id]
	if !exists {
		return core.Book{}, core.NewNotFound(entityBook, id)
	}

	return book, nil
}

// Exists reports whether a book with the given id is stored.
func (s *BookStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.books[id]

	return exists, nil
}

// Add stores a new book.
func (s *BookStore) Add(ctx context.Context, book core.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.books[book.ID]; !exists {
		s.order = append(s.order, book.ID)
	}
	s.books[book.ID] = book

	return nil
}

// GetAll returns all books in insertion order.
func (s *BookStore) GetAll(ctx context.Context) ([]core.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]core.Book, 0, len(s.order))
	for _, id := range s.order {
		books = append(books, s.books[id])
	}

	return books, nil
}

func (s *BookStore) lookup(id uuid.UUID) (core.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, exists := s.books[id]

	return book, exists
}

// UserStore is an in-memory shell.UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]core.User
	order []uuid.UUID
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]core.User)}
}

// GetByID returns the user with the given id.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (core.User, error) {
	if err := ctx.Err(); err != nil {
		return core.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return core.User{}, core.NewNotFound(entityUser, id)
	}

	return user, nil
}

// Exists reports whether a user with the given id is stored.
func (s *UserStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.users[id]

	return exists, nil
}

// Add stores a new user.
func (s *UserStore) Add(ctx context.Context, user core.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; !exists {
		s.order = append(s.order, user.ID)
	}
	s.users[user.ID] = user

	return nil
}

// GetAll returns all users in insertion order.
func (s *UserStore) GetAll(ctx context.Context) ([]core.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]core.User, 0, len(s.order))
	for _, id := range s.order {
		users = append(users, s.users[id])
	}

	return users, nil
}

func (s *UserStore) lookup(id uuid.UUID) (core.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]

	return user, exists
}

// LoanStore is an in-memory shell.LoanRepository. Add enforces the
// "at most one Active loan per (user, book) pair" rule under its lock,
// giving the same guarantee the Postgres partial unique index provides.
type LoanStore struct {
	mu    sync.RWMutex
	loans map[uuid.UUID]core.Loan
	order []uuid.UUID

	books *BookStore
	users *UserStore
}

// NewLoanStore creates an empty LoanStore resolving references against
// the given book and user stores.
func NewLoanStore(books *BookStore, users *UserStore) *LoanStore {
	return &LoanStore{
		loans: make(map[uuid.UUID]core.Loan),
		books: books,
		users: users,
	}
}

// GetByID returns the loan with the given id, without resolved references.
func (s *LoanStore) GetByID(ctx context.Context, id uuid.UUID) (core.Loan, error) {
	if err := ctx.Err(); err != nil {
		return core.Loan{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	loan, exists := s.loans[id]
	if !exists {
		return core.Loan{}, core.NewNotFound(entityLoan, id)
	}

	return loan, nil
}

// GetActiveLoan returns the Active loan for the (user, book) pair if one exists.
func (s *LoanStore) GetActiveLoan(ctx context.Context, userID uuid.UUID, bookID uuid.UUID) (core.Loan, bool, error) {
	if err := ctx.Err(); err != nil {
		return core.Loan{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		loan := s.loans[id]
		if loan.UserID == userID && loan.BookID == bookID && !loan.IsReturned() {
			return loan, true, nil
		}
	}

	return core.Loan{}, false, nil
}

// GetLoansByUser returns the user's loans within the window, most recent
// borrow first, with resolved Book references.
func (s *LoanStore) GetLoansByUser(ctx context.Context, userID uuid.UUID, window core.Window) ([]core.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loans := s.collect(func(loan core.Loan) bool {
		return loan.UserID == userID && window.Contains(loan.BorrowedAt)
	})

	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].BorrowedAt.After(loans[j].BorrowedAt)
	})

	return s.resolve(loans), nil
}

// GetLoansByBook returns the book's loans within the window, most recent
// borrow first, with resolved Book references.
func (s *LoanStore) GetLoansByBook(ctx context.Context, bookID uuid.UUID, window core.Window) ([]core.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loans := s.collect(func(loan core.Loan) bool {
		return loan.BookID == bookID && window.Contains(loan.BorrowedAt)
	})

	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].BorrowedAt.After(loans[j].BorrowedAt)
	})

	return s.resolve(loans), nil
}

// GetLoansInWindow returns the ledger slice for the window ordered by
// borrow time ascending, with resolved Book and User references.
func (s *LoanStore) GetLoansInWindow(ctx context.Context, window core.Window) ([]core.Loan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loans := s.collect(func(loan core.Loan) bool {
		return window.Contains(loan.BorrowedAt)
	})

	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].BorrowedAt.Before(loans[j].BorrowedAt)
	})

	return s.resolve(loans), nil
}

// Add stores a new loan. It fails with core.ConflictError when an Active
// loan already exists for the (user, book) pair; the check and insert
// happen under one lock, so concurrent conflicting borrows cannot both
// succeed.
func (s *LoanStore) Add(ctx context.Context, loan core.Loan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !loan.IsReturned() {
		for _, id := range s.order {
			existing := s.loans[id]
			if existing.UserID == loan.UserID && existing.BookID == loan.BookID && !existing.IsReturned() {
				return core.ConflictError{UserID: loan.UserID, BookID: loan.BookID}
			}
		}
	}

	if _, exists := s.loans[loan.ID]; !exists {
		s.order = append(s.order, loan.ID)
	}
	s.loans[loan.ID] = stripped(loan)

	return nil
}

// Update persists the state of an existing loan.
func (s *LoanStore) Update(ctx context.Context, loan core.Loan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.loans[loan.ID]; !exists {
		return core.NewNotFound(entityLoan, loan.ID)
	}

	s.loans[loan.ID] = stripped(loan)

	return nil
}

// collect snapshots the loans matching the predicate in insertion order.
func (s *LoanStore) collect(match func(core.Loan) bool) []core.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := make([]core.Loan, 0)
	for _, id := range s.order {
		loan := s.loans[id]
		if match(loan) {
			loans = append(loans, loan)
		}
	}

	return loans
}

// resolve attaches Book and User references to each loan.
func (s *LoanStore) resolve(loans []core.Loan) []core.Loan {
	resolved := make([]core.Loan, 0, len(loans))
	for _, loan := range loans {
		if book, found := s.books.lookup(loan.BookID); found {
			loan = loan.WithBook(book)
		}
		if user, found := s.users.lookup(loan.UserID); found {
			loan = loan.WithUser(user)
		}
		resolved = append(resolved, loan)
	}

	return resolved
}

// stripped drops resolved references before storing, they are rebuilt on read.
func stripped(loan core.Loan) core.Loan {
	loan.Book = nil
	loan.User = nil

	return loan
}

// Interface guards.
var (
	_ shell.BookRepository = (*BookStore)(nil)
	_ shell.UserRepository = (*UserStore)(nil)
	_ shell.LoanRepository = (*LoanStore)(nil)
)
