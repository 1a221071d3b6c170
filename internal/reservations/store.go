package reservations

import (
	"context"
	"database/sql"
	"errors"

	"libris-backend/internal/platform/db"
)

type Store interface {
	BookExists(ctx context.Context, bookID int64) (bool, error)
	HasPending(ctx context.Context, userID, bookID int64) (bool, error)
	Insert(ctx context.Context, r *Reservation) error
	ListByUser(ctx context.Context, userID int64) ([]ReservationView, error)
	// Get returns (nil, nil) when absent.
	Get(ctx context.Context, id int64) (*Reservation, error)
	// SetStatus moves the reservation only if it is currently in status from.
	SetStatus(ctx context.Context, id int64, from, to string) (bool, error)
}

type SQLStore struct{ db db.DBTX }

func NewStore(conn db.DBTX) *SQLStore { return &SQLStore{db: conn} }

func (s *SQLStore) BookExists(ctx context.Context, bookID int64) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM books WHERE book_id = ?`, bookID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) HasPending(ctx context.Context, userID, bookID int64) (bool, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE user_id = ? AND book_id = ? AND status = 'pending'`
	var n int
	if err := s.db.GetContext(ctx, &n, q, userID, bookID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) Insert(ctx context.Context, r *Reservation) error {
	const q = `INSERT INTO reservations (book_id, user_id, status, created_at) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, r.BookID, r.UserID, r.Status, r.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ReservationID = id
	return nil
}

func (s *SQLStore) ListByUser(ctx context.Context, userID int64) ([]ReservationView, error) {
	const q = `
SELECT r.reservation_id, r.book_id, r.user_id, r.status, r.created_at, b.title
FROM reservations r
JOIN books b ON b.book_id = r.book_id
WHERE r.user_id = ?
ORDER BY r.created_at DESC, r.reservation_id DESC`
	out := []ReservationView{}
	if err := s.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLStore) Get(ctx context.Context, id int64) (*Reservation, error) {
	const q = `SELECT reservation_id, book_id, user_id, status, created_at FROM reservations WHERE reservation_id = ?`
	var r Reservation
	err := s.db.GetContext(ctx, &r, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLStore) SetStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	const q = `UPDATE reservations SET status = ? WHERE reservation_id = ? AND status = ?`
	res, err := s.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return false, err
	}
	return db.RequireOne(res)
}
