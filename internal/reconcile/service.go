// Package reconcile recomputes overdue status and accrued fines for open
// loans. It never charges the borrower; that happens on return.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"libris-backend/internal/loans"
	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/clock"
)

type Report struct {
	RunDate      time.Time `json:"run_date"`
	Scanned      int       `json:"scanned"`
	Updated      int       `json:"updated"`
	AccruedFines string    `json:"accrued_fines"`
}

type Service struct {
	store Store
	clock clock.Clock
	rate  decimal.Decimal
	log   *slog.Logger
}

func NewService(store Store, clk clock.Clock, finePerDay decimal.Decimal, log *slog.Logger) *Service {
	return &Service{store: store, clock: clk, rate: finePerDay, log: log}
}

// ReconcileOverdue marks every borrowed loan past due as overdue with its
// fine as of today. Loans already overdue are not revisited, so a run with
// no newly overdue loans writes nothing.
func (s *Service) ReconcileOverdue(ctx context.Context) (*Report, error) {
	today := clock.Today(s.clock)
	rep := &Report{RunDate: today}
	total := decimal.Zero

	err := s.store.Atomic(ctx, func(ctx context.Context, r Repo) error {
		cands, err := r.Candidates(ctx, today)
		if err != nil {
			return err
		}
		rep.Scanned = len(cands)
		for _, c := range cands {
			fine := loans.ComputeFine(c.DueDate, today, s.rate)
			total = total.Add(fine)
			if err := r.MarkOverdue(ctx, c.TransactionID, fine); err != nil {
				return err
			}
			rep.Updated++
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "fine reconciliation failed", "err", err)
		return nil, apierr.FromStore(err)
	}

	rep.AccruedFines = total.StringFixed(2)
	s.log.InfoContext(ctx, "fine reconciliation done",
		"run_date", today.Format("2006-01-02"), "scanned", rep.Scanned, "updated", rep.Updated)
	return rep, nil
}
