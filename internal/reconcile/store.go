package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"libris-backend/internal/platform/db"
)

// Candidate is a borrowed loan whose due date has passed.
type Candidate struct {
	TransactionID int64     `db:"transaction_id"`
	UserID        int64     `db:"user_id"`
	DueDate       time.Time `db:"due_date"`
}

type Repo interface {
	// Candidates locks every borrowed loan due before today. Loans already
	// marked overdue are not rescanned.
	Candidates(ctx context.Context, today time.Time) ([]Candidate, error)
	MarkOverdue(ctx context.Context, id int64, fine decimal.Decimal) error
}

type Store interface {
	Atomic(ctx context.Context, fn func(ctx context.Context, r Repo) error) error
}

type SQLStore struct{ db *sqlx.DB }

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) Atomic(ctx context.Context, fn func(ctx context.Context, r Repo) error) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, txRepo{tx: tx})
	})
}

type txRepo struct{ tx db.DBTX }

func (r txRepo) Candidates(ctx context.Context, today time.Time) ([]Candidate, error) {
	const q = `
SELECT transaction_id, user_id, due_date
FROM borrow_transactions
WHERE status = 'borrowed' AND due_date < ?
ORDER BY transaction_id
FOR UPDATE`
	out := []Candidate{}
	if err := r.tx.SelectContext(ctx, &out, q, today); err != nil {
		return nil, err
	}
	return out, nil
}

func (r txRepo) MarkOverdue(ctx context.Context, id int64, fine decimal.Decimal) error {
	const q = `
UPDATE borrow_transactions
SET status = 'overdue', fine_amount = ?
WHERE transaction_id = ? AND status = 'borrowed'`
	res, err := r.tx.ExecContext(ctx, q, fine.StringFixed(2), id)
	if err != nil {
		return err
	}
	ok, err := db.RequireOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("mark overdue %d: no row updated", id)
	}
	return nil
}
