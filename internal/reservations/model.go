package reservations

import "time"

const (
	StatusPending   = "pending"
	StatusFulfilled = "fulfilled"
	StatusCancelled = "cancelled"
)

type Reservation struct {
	ReservationID int64     `db:"reservation_id"`
	BookID        int64     `db:"book_id"`
	UserID        int64     `db:"user_id"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

type ReservationView struct {
	Reservation
	Title string `db:"title"`
}

type CreateRequest struct {
	BookID int64 `json:"book_id" binding:"required"`
}

type ReservationResponse struct {
	ReservationID int64     `json:"reservation_id"`
	BookID        int64     `json:"book_id"`
	Title         string    `json:"title,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	Message       string    `json:"message,omitempty"`
}
