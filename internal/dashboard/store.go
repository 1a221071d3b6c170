package dashboard

import (
	"context"

	"libris-backend/internal/platform/db"
)

type Store interface {
	Metrics(ctx context.Context) (metricsRow, error)
	TopBorrowed(ctx context.Context, limit int) ([]TopBook, error)
	OverdueLoans(ctx context.Context, limit int) ([]overdueRow, error)
}

type SQLStore struct{ db db.DBTX }

func NewStore(conn db.DBTX) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) Metrics(ctx context.Context) (metricsRow, error) {
	const q = `
SELECT
    (SELECT COUNT(*) FROM borrow_transactions WHERE status IN ('borrowed', 'overdue')) AS active_loans,
    (SELECT COUNT(*) FROM borrow_transactions WHERE status = 'overdue') AS overdue,
    (SELECT COUNT(*) FROM reservations WHERE status = 'pending') AS reservations,
    (SELECT COALESCE(SUM(fine_amount), 0) FROM borrow_transactions) AS total_fines`
	var m metricsRow
	err := s.db.GetContext(ctx, &m, q)
	return m, err
}

func (s *SQLStore) TopBorrowed(ctx context.Context, limit int) ([]TopBook, error) {
	const q = `
SELECT b.book_id, b.title, COUNT(*) AS times_borrowed
FROM borrow_transactions t
JOIN book_copies c ON c.copy_id = t.copy_id
JOIN books b ON b.book_id = c.book_id
GROUP BY b.book_id, b.title
ORDER BY times_borrowed DESC, b.title ASC
LIMIT ?`
	out := []TopBook{}
	if err := s.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) OverdueLoans(ctx context.Context, limit int) ([]overdueRow, error) {
	const q = `
SELECT t.transaction_id, u.user_id, u.full_name, b.title, t.due_date, t.fine_amount
FROM borrow_transactions t
JOIN users u ON u.user_id = t.user_id
JOIN book_copies c ON c.copy_id = t.copy_id
JOIN books b ON b.book_id = c.book_id
WHERE t.status = 'overdue'
ORDER BY t.due_date ASC, t.transaction_id ASC
LIMIT ?`
	out := []overdueRow{}
	if err := s.db.SelectContext(ctx, &out, q, limit); err != nil {
		return nil, err
	}
	return out, nil
}
