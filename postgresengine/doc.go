// Package postgresengine implements the storage ports on PostgreSQL.
//
// SQL statements are built with goqu and executed through a small
// database adapter abstraction, so the engine works with a pgx pool,
// a sqlx.DB, or a plain database/sql DB without changing the
// repositories.
//
// The lending ledger relies on a partial unique index
//
//	CREATE UNIQUE INDEX loans_one_active_per_pair
//	    ON loans (user_id, book_id) WHERE returned_at IS NULL
//
// to guarantee at most one Active loan per (user, book) pair. A unique
// violation on insert is translated into core.ConflictError so the
// borrow handler can surface it, closing the check-then-act race between
// concurrent borrow calls.
package postgresengine
