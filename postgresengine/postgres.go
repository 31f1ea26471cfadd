package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/librarylab/lending-go/postgresengine/internal/adapters"
	"github.com/librarylab/lending-go/shell"
)

const (
	defaultBooksTableName = "books"
	defaultUsersTableName = "users"
	defaultLoansTableName = "loans"

	dialectPostgres = "postgres"

	logMsgBuildQueryFailed = "failed to build sql statement"
	logMsgQueryFailed      = "database query execution failed"
	logMsgExecFailed       = "database execution failed"
	logMsgCloseRowsFailed  = "failed to close database rows"
	logMsgScanRowFailed    = "failed to scan database row"
	logMsgSQLExecuted      = "executed sql for: "
	logAttrError           = "error"
	logAttrQuery           = "query"
	logAttrDurationMS      = "duration_ms"
)

// ErrNilDatabaseConnection is returned when a nil connection is supplied
// to one of the Store constructors.
var ErrNilDatabaseConnection = errors.New("nil database connection supplied")

// ErrEmptyTableName is returned when an empty table name is configured.
var ErrEmptyTableName = errors.New("empty table name supplied")

// Store holds the shared database access used by the repository views.
type Store struct {
	db         adapters.DBAdapter
	logger     shell.Logger
	booksTable string
	usersTable string
	loansTable string
}

// Option defines a functional option for configuring the Store.
type Option func(*Store) error

// WithLogger sets the logger for the Store. SQL statements are logged at
// debug level with execution timing; failures at error level.
func WithLogger(logger shell.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithTableNames overrides the default table names.
func WithTableNames(books string, users string, loans string) Option {
	return func(s *Store) error {
		if books == "" || users == "" || loans == "" {
			return ErrEmptyTableName
		}

		s.booksTable = books
		s.usersTable = users
		s.loansTable = loans

		return nil
	}
}

// NewStoreFromPGXPool creates a new Store using a pgx pool with optional configuration.
func NewStoreFromPGXPool(pool *pgxpool.Pool, options ...Option) (*Store, error) {
	if pool == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(pool), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (*Store, error) {
	store := &Store{
		db:         db,
		booksTable: defaultBooksTableName,
		usersTable: defaultUsersTableName,
		loansTable: defaultLoansTableName,
	}

	for _, option := range options {
		if err := option(store); err != nil {
			return nil, err
		}
	}

	return store, nil
}

// Books returns the shell.BookRepository view of the store.
func (s *Store) Books() *BookRepository {
	return &BookRepository{store: s}
}

// Users returns the shell.UserRepository view of the store.
func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

// Loans returns the shell.LoanRepository view of the store.
func (s *Store) Loans() *LoanRepository {
	return &LoanRepository{store: s}
}

// logSQLWithDuration logs the executed statement with timing at debug level.
func (s *Store) logSQLWithDuration(action string, sqlQuery string, duration time.Duration) {
	if s.logger == nil {
		return
	}

	s.logger.Debug(logMsgSQLExecuted+action,
		logAttrQuery, sqlQuery,
		logAttrDurationMS, float64(duration.Nanoseconds())/1e6)
}

// logError logs a failure at error level.
func (s *Store) logError(msg string, err error) {
	if s.logger == nil {
		return
	}

	s.logger.Error(msg, logAttrError, err.Error())
}

// query executes a select statement with timing and logging.
func (s *Store) query(ctx context.Context, action string, sqlQuery string) (adapters.DBRows, error) {
	start := time.Now()
	rows, err := s.db.Query(ctx, sqlQuery)
	s.logSQLWithDuration(action, sqlQuery, time.Since(start))

	if err != nil {
		s.logError(logMsgQueryFailed, err)
		return nil, classifyStorageError(err)
	}

	return rows, nil
}

// exec executes a statement with timing and logging, returning the
// number of affected rows. The raw driver error is passed through the
// classifier unless the caller translates it first.
func (s *Store) exec(ctx context.Context, action string, sqlQuery string) (int64, error) {
	start := time.Now()
	result, err := s.db.Exec(ctx, sqlQuery)
	s.logSQLWithDuration(action, sqlQuery, time.Since(start))

	if err != nil {
		s.logError(logMsgExecFailed, err)
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logError(logMsgExecFailed, err)
		return 0, classifyStorageError(err)
	}

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (s *Store) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}
