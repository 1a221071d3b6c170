package loans

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"libris-backend/internal/platform/db"
)

// Repo is the set of statements available inside one transaction.
type Repo interface {
	BookExists(ctx context.Context, bookID int64) (bool, error)
	// LockUserFines locks the user row and returns its fine balance.
	LockUserFines(ctx context.Context, userID int64) (decimal.Decimal, bool, error)
	CountOpenLoans(ctx context.Context, userID int64) (int, error)
	// LockAvailableCopy locks the lowest-id available copy of the book.
	LockAvailableCopy(ctx context.Context, bookID int64) (int64, bool, error)
	InsertLoan(ctx context.Context, l *Loan) error
	// TransitionCopy moves a copy from one status to another and fails with
	// ErrCopyState unless exactly that copy was in status from.
	TransitionCopy(ctx context.Context, copyID int64, from, to string) error
	// LockLoan returns (nil, nil) when the loan does not exist.
	LockLoan(ctx context.Context, id int64) (*Loan, error)
	CloseLoan(ctx context.Context, id int64, returned time.Time, fine decimal.Decimal) error
	AddUserFine(ctx context.Context, userID int64, fine decimal.Decimal) error
}

type Store interface {
	// Atomic runs fn in one transaction; any error rolls everything back.
	Atomic(ctx context.Context, fn func(ctx context.Context, r Repo) error) error
	ActiveLoans(ctx context.Context, userID int64) ([]LoanView, error)
	History(ctx context.Context, userID int64, limit int) ([]LoanView, error)
	GetLoan(ctx context.Context, id int64) (*LoanView, error)
}

type SQLStore struct {
	db *sqlx.DB
}

func NewStore(conn *sqlx.DB) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) Atomic(ctx context.Context, fn func(ctx context.Context, r Repo) error) error {
	return db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

const loanViewSelect = `
SELECT t.transaction_id, t.copy_id, t.user_id, t.borrow_date, t.due_date, t.return_date,
       t.status, t.fine_amount, b.book_id, b.title
FROM borrow_transactions t
JOIN book_copies c ON c.copy_id = t.copy_id
JOIN books b ON b.book_id = c.book_id
`

func (s *SQLStore) ActiveLoans(ctx context.Context, userID int64) ([]LoanView, error) {
	q := loanViewSelect + `
WHERE t.user_id = ? AND t.status IN ('borrowed', 'overdue')
ORDER BY t.due_date ASC, t.transaction_id ASC`
	out := []LoanView{}
	if err := s.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) History(ctx context.Context, userID int64, limit int) ([]LoanView, error) {
	q := loanViewSelect + `
WHERE t.user_id = ?
ORDER BY t.borrow_date DESC, t.transaction_id DESC
LIMIT ?`
	out := []LoanView{}
	if err := s.db.SelectContext(ctx, &out, q, userID, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) GetLoan(ctx context.Context, id int64) (*LoanView, error) {
	var v LoanView
	err := s.db.GetContext(ctx, &v, loanViewSelect+`WHERE t.transaction_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type txRepo struct {
	tx db.DBTX
}

func (r *txRepo) BookExists(ctx context.Context, bookID int64) (bool, error) {
	var n int
	if err := r.tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM books WHERE book_id = ?`, bookID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *txRepo) LockUserFines(ctx context.Context, userID int64) (decimal.Decimal, bool, error) {
	var fines decimal.Decimal
	err := r.tx.GetContext(ctx, &fines, `SELECT total_fines FROM users WHERE user_id = ? FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return fines, true, nil
}

func (r *txRepo) CountOpenLoans(ctx context.Context, userID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM borrow_transactions WHERE user_id = ? AND status IN ('borrowed', 'overdue')`
	var n int
	if err := r.tx.GetContext(ctx, &n, q, userID); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *txRepo) LockAvailableCopy(ctx context.Context, bookID int64) (int64, bool, error) {
	const q = `
SELECT copy_id FROM book_copies
WHERE book_id = ? AND status = 'available'
ORDER BY copy_id ASC
LIMIT 1
FOR UPDATE`
	var id int64
	err := r.tx.GetContext(ctx, &id, q, bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (r *txRepo) InsertLoan(ctx context.Context, l *Loan) error {
	const q = `
INSERT INTO borrow_transactions (copy_id, user_id, borrow_date, due_date, status, fine_amount)
VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.tx.ExecContext(ctx, q,
		l.CopyID, l.UserID, l.BorrowDate, l.DueDate, l.Status, l.FineAmount.StringFixed(2))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.TransactionID = id
	return nil
}

func (r *txRepo) TransitionCopy(ctx context.Context, copyID int64, from, to string) error {
	const q = `UPDATE book_copies SET status = ? WHERE copy_id = ? AND status = ?`
	res, err := r.tx.ExecContext(ctx, q, to, copyID, from)
	if err != nil {
		return err
	}
	ok, err := db.RequireOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("copy %d %s->%s: %w", copyID, from, to, ErrCopyState)
	}
	return nil
}

func (r *txRepo) LockLoan(ctx context.Context, id int64) (*Loan, error) {
	const q = `
SELECT transaction_id, copy_id, user_id, borrow_date, due_date, return_date, status, fine_amount
FROM borrow_transactions
WHERE transaction_id = ?
FOR UPDATE`
	var l Loan
	err := r.tx.GetContext(ctx, &l, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *txRepo) CloseLoan(ctx context.Context, id int64, returned time.Time, fine decimal.Decimal) error {
	const q = `
UPDATE borrow_transactions
SET return_date = ?, status = 'returned', fine_amount = ?
WHERE transaction_id = ? AND status IN ('borrowed', 'overdue')`
	res, err := r.tx.ExecContext(ctx, q, returned, fine.StringFixed(2), id)
	if err != nil {
		return err
	}
	ok, err := db.RequireOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("close loan %d: no open row", id)
	}
	return nil
}

func (r *txRepo) AddUserFine(ctx context.Context, userID int64, fine decimal.Decimal) error {
	// MySQL reports 0 affected rows for a no-op update
	if fine.IsZero() {
		return nil
	}
	const q = `UPDATE users SET total_fines = total_fines + ? WHERE user_id = ?`
	res, err := r.tx.ExecContext(ctx, q, fine.StringFixed(2), userID)
	if err != nil {
		return err
	}
	ok, err := db.RequireOne(res)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("add fine: user %d not updated", userID)
	}
	return nil
}
