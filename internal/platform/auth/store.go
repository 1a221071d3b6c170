package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"libris-backend/internal/platform/db"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	UserID       int64           `db:"user_id"`
	FullName     string          `db:"full_name"`
	Email        string          `db:"email"`
	Role         string          `db:"role"`
	PasswordHash string          `db:"password_hash"`
	TotalFines   decimal.Decimal `db:"total_fines"`
	CreatedAt    time.Time       `db:"created_at"`
}

type AccountStore interface {
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Create(ctx context.Context, a *Account) error
	List(ctx context.Context, limit, offset int) ([]Account, error)
}

type Store struct{ db db.DBTX }

func NewStore(conn db.DBTX) AccountStore {
	return &Store{db: conn}
}

const accountColumns = `user_id, full_name, email, role, password_hash, total_fines, created_at`

func (s *Store) GetByID(ctx context.Context, id int64) (*Account, error) {
	return s.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE user_id = ? LIMIT 1`, id)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Account, error) {
	return s.getOne(ctx, `SELECT `+accountColumns+` FROM users WHERE email = ? LIMIT 1`, email)
}

// getOne returns (nil, nil) when no row matches.
func (s *Store) getOne(ctx context.Context, q string, arg any) (*Account, error) {
	var a Account
	err := s.db.GetContext(ctx, &a, q, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *Account) error {
	const q = `
INSERT INTO users (full_name, email, role, password_hash, total_fines)
VALUES (?, ?, ?, ?, 0.00)
`
	res, err := s.db.ExecContext(ctx, q, a.FullName, a.Email, a.Role, a.PasswordHash)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.UserID = id
	a.TotalFines = decimal.Zero
	return nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM users ORDER BY created_at DESC, user_id DESC LIMIT ? OFFSET ?`
	out := []Account{}
	if err := s.db.SelectContext(ctx, &out, q, limit, offset); err != nil {
		return nil, err
	}
	return out, nil
}
