package postgresengine

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
)

const (
	colBookID            = "id"
	colBookISBN          = "isbn"
	colBookTitle         = "title"
	colBookAuthor        = "author"
	colBookPageCount     = "page_count"
	colBookPublishedYear = "published_year"

	actionBookSelect = "book select"
	actionBookInsert = "book insert"
)

// BookRepository implements shell.BookRepository on PostgreSQL.
type BookRepository struct {
	store *Store
}

// GetByID returns the book with the given id, failing with
// core.NotFoundError when no row matches.
func (r *BookRepository) GetByID(ctx context.Context, id uuid.UUID) (core.Book, error) {
	sqlQuery, _, err := r.selectDataset().
		Where(goqu.C(colBookID).Eq(id.String())).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return core.Book{}, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionBookSelect, sqlQuery)
	if err != nil {
		return core.Book{}, err
	}
	defer r.store.closeRows(rows)

	if !rows.Next() {
		return core.Book{}, core.NewNotFound("Book", id)
	}

	return r.scanBook(rows)
}

// Exists reports whether a book with the given id is stored.
func (r *BookRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(r.store.booksTable).
		Select(goqu.L("1")).
		Where(goqu.C(colBookID).Eq(id.String())).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return false, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionBookSelect, sqlQuery)
	if err != nil {
		return false, err
	}
	defer r.store.closeRows(rows)

	return rows.Next(), nil
}

// Add inserts a new book.
func (r *BookRepository) Add(ctx context.Context, book core.Book) error {
	record := goqu.Record{
		colBookID:        book.ID.String(),
		colBookISBN:      book.ISBN,
		colBookTitle:     book.Title,
		colBookAuthor:    book.Author,
		colBookPageCount: book.PageCount,
	}

	if book.PublishedYear != 0 {
		record[colBookPublishedYear] = book.PublishedYear
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Insert(r.store.booksTable).
		Rows(record).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return core.WrapInternal(err)
	}

	if _, err := r.store.exec(ctx, actionBookInsert, sqlQuery); err != nil {
		return classifyStorageError(err)
	}

	return nil
}

// GetAll returns all books ordered by title.
func (r *BookRepository) GetAll(ctx context.Context) ([]core.Book, error) {
	sqlQuery, _, err := r.selectDataset().
		Order(goqu.C(colBookTitle).Asc()).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return nil, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionBookSelect, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer r.store.closeRows(rows)

	books := make([]core.Book, 0)
	for rows.Next() {
		book, scanErr := r.scanBook(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		books = append(books, book)
	}

	return books, nil
}

func (r *BookRepository) selectDataset() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(r.store.booksTable).
		Select(colBookID, colBookISBN, colBookTitle, colBookAuthor, colBookPageCount, colBookPublishedYear)
}

func (r *BookRepository) scanBook(rows interface{ Scan(dest ...any) error }) (core.Book, error) {
	var (
		rawID         string
		isbn          string
		title         string
		author        string
		pageCount     int
		publishedYear sql.NullInt64
	)

	if err := rows.Scan(&rawID, &isbn, &title, &author, &pageCount, &publishedYear); err != nil {
		r.store.logError(logMsgScanRowFailed, err)
		return core.Book{}, core.WrapInternal(err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return core.Book{}, core.WrapInternal(err)
	}

	return core.Book{
		ID:            id,
		ISBN:          isbn,
		Title:         title,
		Author:        author,
		PageCount:     pageCount,
		PublishedYear: int(publishedYear.Int64),
	}, nil
}
