// Package dashboard serves the admin overview counters and reports.
package dashboard

import (
	"context"
	"log/slog"

	"libris-backend/internal/platform/apierr"
)

const (
	defaultTopLimit     = 10
	defaultOverdueLimit = 20
	maxReportLimit      = 100
)

type Service struct {
	store Store
	log   *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

func clampLimit(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > maxReportLimit {
		return maxReportLimit
	}
	return n
}

// Metrics: total_fines is the sum of fine_amount over all loans, returned or not.
func (s *Service) Metrics(ctx context.Context) (*Metrics, error) {
	row, err := s.store.Metrics(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "dashboard metrics failed", "err", err)
		return nil, apierr.Persistence(err)
	}
	return &Metrics{
		ActiveLoans:  row.ActiveLoans,
		Overdue:      row.Overdue,
		Reservations: row.Reservations,
		TotalFines:   row.TotalFines.StringFixed(2),
	}, nil
}

func (s *Service) TopBorrowed(ctx context.Context, limit int) ([]TopBook, error) {
	out, err := s.store.TopBorrowed(ctx, clampLimit(limit, defaultTopLimit))
	if err != nil {
		s.log.ErrorContext(ctx, "top borrowed report failed", "err", err)
		return nil, apierr.Persistence(err)
	}
	return out, nil
}

func (s *Service) OverdueLoans(ctx context.Context, limit int) ([]OverdueLoan, error) {
	rows, err := s.store.OverdueLoans(ctx, clampLimit(limit, defaultOverdueLimit))
	if err != nil {
		s.log.ErrorContext(ctx, "overdue report failed", "err", err)
		return nil, apierr.Persistence(err)
	}
	out := make([]OverdueLoan, 0, len(rows))
	for _, r := range rows {
		out = append(out, OverdueLoan{
			TransactionID: r.TransactionID,
			UserID:        r.UserID,
			FullName:      r.FullName,
			Title:         r.Title,
			DueDate:       r.DueDate,
			FineAmount:    r.FineAmount.StringFixed(2),
		})
	}
	return out, nil
}
