package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBTX is the persistence interface every store is written against.
// It is satisfied by both *sqlx.DB and *sqlx.Tx:
//
//	GetContext    fetch one row (sql.ErrNoRows when absent)
//	SelectContext fetch all rows
//	ExecContext   execute, RowsAffected on the result
type DBTX interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Beginner starts transactions. *sqlx.DB implements it.
type Beginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// RunInTx runs fn in a transaction: COMMIT when fn returns nil, ROLLBACK otherwise.
// The error from fn is returned unchanged.
func RunInTx(ctx context.Context, db Beginner, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := db.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func ReadOnly(ctx context.Context, db Beginner, fn func(ctx context.Context, tx DBTX) error) error {
	return RunInTx(ctx, db, &sql.TxOptions{ReadOnly: true}, fn)
}

// RequireOne checks that an UPDATE/DELETE touched exactly one row.
func RequireOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
