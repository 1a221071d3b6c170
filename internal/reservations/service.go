// Package reservations records a patron's intent to borrow a book later.
// Fulfillment is not handled here.
package reservations

import (
	"context"
	"log/slog"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/clock"
)

type Service struct {
	store Store
	clock clock.Clock
	log   *slog.Logger
}

func NewService(store Store, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{store: store, clock: clk, log: log}
}

func errDuplicate() error {
	return apierr.New(apierr.CodeDuplicateReservation, "You already have an active reservation for this book.")
}

func (s *Service) Create(ctx context.Context, userID, bookID int64) (*ReservationResponse, error) {
	if bookID <= 0 {
		return nil, apierr.New(apierr.CodeInvalidSelection, "Invalid book selection.")
	}
	ok, err := s.store.BookExists(ctx, bookID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if !ok {
		return nil, apierr.New(apierr.CodeInvalidSelection, "Invalid book selection.")
	}

	dup, err := s.store.HasPending(ctx, userID, bookID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if dup {
		return nil, errDuplicate()
	}

	r := &Reservation{BookID: bookID, UserID: userID, Status: StatusPending, CreatedAt: s.clock.Now()}
	if err := s.store.Insert(ctx, r); err != nil {
		// lost a race against a concurrent request for the same pair
		if apierr.IsDuplicateKey(err) {
			return nil, errDuplicate()
		}
		s.log.ErrorContext(ctx, "insert reservation failed", "user_id", userID, "book_id", bookID, "err", err)
		return nil, apierr.Persistence(err)
	}

	s.log.InfoContext(ctx, "reservation placed", "reservation_id", r.ReservationID, "user_id", userID, "book_id", bookID)
	return &ReservationResponse{
		ReservationID: r.ReservationID,
		BookID:        r.BookID,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		Message:       "Reservation placed successfully.",
	}, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]ReservationResponse, error) {
	vs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	out := make([]ReservationResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, ReservationResponse{
			ReservationID: v.ReservationID,
			BookID:        v.BookID,
			Title:         v.Title,
			Status:        v.Status,
			CreatedAt:     v.CreatedAt,
		})
	}
	return out, nil
}

// Cancel withdraws one of the caller's pending reservations. Reservations of
// other users are reported as not found.
func (s *Service) Cancel(ctx context.Context, userID, reservationID int64) error {
	r, err := s.store.Get(ctx, reservationID)
	if err != nil {
		return apierr.Persistence(err)
	}
	if r == nil || r.UserID != userID {
		return apierr.ErrNotFound("Reservation not found.")
	}
	if r.Status != StatusPending {
		return apierr.ErrConflict("Only pending reservations can be cancelled.")
	}
	ok, err := s.store.SetStatus(ctx, reservationID, StatusPending, StatusCancelled)
	if err != nil {
		return apierr.Persistence(err)
	}
	if !ok {
		return apierr.ErrConflict("Only pending reservations can be cancelled.")
	}
	return nil
}
