package loans

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusBorrowed = "borrowed"
	StatusOverdue  = "overdue"
	StatusReturned = "returned"
)

const (
	CopyAvailable = "available"
	CopyBorrowed  = "borrowed"
)

// Loan is one row of borrow_transactions. Rows are never deleted.
type Loan struct {
	TransactionID int64           `db:"transaction_id"`
	CopyID        int64           `db:"copy_id"`
	UserID        int64           `db:"user_id"`
	BorrowDate    time.Time       `db:"borrow_date"`
	DueDate       time.Time       `db:"due_date"`
	ReturnDate    *time.Time      `db:"return_date"`
	Status        string          `db:"status"`
	FineAmount    decimal.Decimal `db:"fine_amount"`
}

func (l Loan) IsOpen() bool {
	return l.Status == StatusBorrowed || l.Status == StatusOverdue
}

// LoanView is a loan joined with its book for listings.
type LoanView struct {
	Loan
	BookID int64  `db:"book_id"`
	Title  string `db:"title"`
}
