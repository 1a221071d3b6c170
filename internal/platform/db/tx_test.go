package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libris-backend/internal/platform/db"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func Test_RunInTx_CommitsWhenFnSucceeds(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE book_copies").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, "UPDATE book_copies SET status = 'borrowed' WHERE copy_id = ?", 1)
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_RunInTx_RollsBackAndReturnsFnError(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO borrow_transactions").WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectRollback()
	sentinel := errors.New("copy transition failed")

	err := db.RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO borrow_transactions (copy_id) VALUES (?)", 1); err != nil {
			return err
		}
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_RunInTx_WrapsCommitFailure(t *testing.T) {
	conn, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("deadlock"))

	err := db.RunInTx(context.Background(), conn, nil, func(ctx context.Context, tx db.DBTX) error { return nil })

	assert.ErrorContains(t, err, "commit tx")
}

func Test_Migrate_ExecutesEveryStatement(t *testing.T) {
	conn, mock := newMock(t)
	stmts := db.Statements()
	require.Len(t, stmts, 8)
	for range stmts {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, db.Migrate(context.Background(), conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}
