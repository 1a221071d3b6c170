package dashboard

import (
	"time"

	"github.com/shopspring/decimal"
)

type metricsRow struct {
	ActiveLoans  int             `db:"active_loans"`
	Overdue      int             `db:"overdue"`
	Reservations int             `db:"reservations"`
	TotalFines   decimal.Decimal `db:"total_fines"`
}

type Metrics struct {
	ActiveLoans  int    `json:"active_loans"`
	Overdue      int    `json:"overdue"`
	Reservations int    `json:"reservations"`
	TotalFines   string `json:"total_fines"`
}

type TopBook struct {
	BookID        int64  `db:"book_id" json:"book_id"`
	Title         string `db:"title" json:"title"`
	TimesBorrowed int    `db:"times_borrowed" json:"times_borrowed"`
}

type overdueRow struct {
	TransactionID int64           `db:"transaction_id"`
	UserID        int64           `db:"user_id"`
	FullName      string          `db:"full_name"`
	Title         string          `db:"title"`
	DueDate       time.Time       `db:"due_date"`
	FineAmount    decimal.Decimal `db:"fine_amount"`
}

type OverdueLoan struct {
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	FullName      string    `json:"full_name"`
	Title         string    `json:"title"`
	DueDate       time.Time `json:"due_date"`
	FineAmount    string    `json:"fine_amount"`
}
