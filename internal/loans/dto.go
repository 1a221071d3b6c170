package loans

import "time"

type BorrowRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

type BorrowResponse struct {
	TransactionID int64     `json:"transaction_id"`
	BookID        int64     `json:"book_id"`
	CopyID        int64     `json:"copy_id"`
	BorrowDate    time.Time `json:"borrow_date"`
	DueDate       time.Time `json:"due_date"`
	Message       string    `json:"message"`
}

type ReturnResponse struct {
	TransactionID int64     `json:"transaction_id"`
	ReturnDate    time.Time `json:"return_date"`
	DaysOverdue   int       `json:"days_overdue"`
	FineAmount    string    `json:"fine_amount"`
	Message       string    `json:"message"`
}

type LoanResponse struct {
	TransactionID int64      `json:"transaction_id"`
	BookID        int64      `json:"book_id"`
	Title         string     `json:"title"`
	CopyID        int64      `json:"copy_id"`
	UserID        int64      `json:"user_id"`
	BorrowDate    time.Time  `json:"borrow_date"`
	DueDate       time.Time  `json:"due_date"`
	ReturnDate    *time.Time `json:"return_date,omitempty"`
	Status        string     `json:"status"`
	FineAmount    string     `json:"fine_amount"`
}

func toLoanResponse(v LoanView) LoanResponse {
	return LoanResponse{
		TransactionID: v.TransactionID,
		BookID:        v.BookID,
		Title:         v.Title,
		CopyID:        v.CopyID,
		UserID:        v.UserID,
		BorrowDate:    v.BorrowDate,
		DueDate:       v.DueDate,
		ReturnDate:    v.ReturnDate,
		Status:        v.Status,
		FineAmount:    v.FineAmount.StringFixed(2),
	}
}

func toLoanResponses(vs []LoanView) []LoanResponse {
	out := make([]LoanResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, toLoanResponse(v))
	}
	return out
}
