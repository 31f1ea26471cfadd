package postgresengine

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/librarylab/lending-go/core"
)

const (
	colUserID           = "id"
	colUserFullName     = "full_name"
	colUserRegisteredAt = "registered_at"

	actionUserSelect = "user select"
	actionUserInsert = "user insert"
)

// UserRepository implements shell.UserRepository on PostgreSQL.
type UserRepository struct {
	store *Store
}

// GetByID returns the user with the given id, failing with
// core.NotFoundError when no row matches.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (core.User, error) {
	sqlQuery, _, err := r.selectDataset().
		Where(goqu.C(colUserID).Eq(id.String())).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return core.User{}, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionUserSelect, sqlQuery)
	if err != nil {
		return core.User{}, err
	}
	defer r.store.closeRows(rows)

	if !rows.Next() {
		return core.User{}, core.NewNotFound("User", id)
	}

	return r.scanUser(rows)
}

// Exists reports whether a user with the given id is stored.
func (r *UserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(r.store.usersTable).
		Select(goqu.L("1")).
		Where(goqu.C(colUserID).Eq(id.String())).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return false, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionUserSelect, sqlQuery)
	if err != nil {
		return false, err
	}
	defer r.store.closeRows(rows)

	return rows.Next(), nil
}

// Add inserts a new user.
func (r *UserRepository) Add(ctx context.Context, user core.User) error {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Insert(r.store.usersTable).
		Rows(goqu.Record{
			colUserID:           user.ID.String(),
			colUserFullName:     user.FullName,
			colUserRegisteredAt: user.RegisteredAt,
		}).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return core.WrapInternal(err)
	}

	if _, err := r.store.exec(ctx, actionUserInsert, sqlQuery); err != nil {
		return classifyStorageError(err)
	}

	return nil
}

// GetAll returns all users ordered by registration time.
func (r *UserRepository) GetAll(ctx context.Context) ([]core.User, error) {
	sqlQuery, _, err := r.selectDataset().
		Order(goqu.C(colUserRegisteredAt).Asc()).
		ToSQL()
	if err != nil {
		r.store.logError(logMsgBuildQueryFailed, err)
		return nil, core.WrapInternal(err)
	}

	rows, err := r.store.query(ctx, actionUserSelect, sqlQuery)
	if err != nil {
		return nil, err
	}
	defer r.store.closeRows(rows)

	users := make([]core.User, 0)
	for rows.Next() {
		user, scanErr := r.scanUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		users = append(users, user)
	}

	return users, nil
}

func (r *UserRepository) selectDataset() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(r.store.usersTable).
		Select(colUserID, colUserFullName, colUserRegisteredAt)
}

func (r *UserRepository) scanUser(rows interface{ Scan(dest ...any) error }) (core.User, error) {
	var (
		rawID        string
		fullName     string
		registeredAt time.Time
	)

	if err := rows.Scan(&rawID, &fullName, &registeredAt); err != nil {
		r.store.logError(logMsgScanRowFailed, err)
		return core.User{}, core.WrapInternal(err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return core.User{}, core.WrapInternal(err)
	}

	return core.User{
		ID:           id,
		FullName:     fullName,
		RegisteredAt: registeredAt.UTC(),
	}, nil
}
