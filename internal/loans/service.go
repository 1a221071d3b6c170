package loans

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/clock"
	"libris-backend/internal/platform/config"
)

const historyLimit = 100

type Service struct {
	store Store
	clock clock.Clock
	rules config.Rules
	log   *slog.Logger
}

func NewService(store Store, clk clock.Clock, rules config.Rules, log *slog.Logger) *Service {
	return &Service{store: store, clock: clk, rules: rules, log: log}
}

// Borrow lends the lowest-id available copy of bookID to userID.
// The first failing check wins: book exists, fines under the threshold,
// open loans under the limit, a copy is available.
func (s *Service) Borrow(ctx context.Context, userID, bookID int64) (*BorrowResponse, error) {
	if bookID <= 0 {
		return nil, errInvalidSelection()
	}
	today := clock.Today(s.clock)

	var loan Loan
	err := s.store.Atomic(ctx, func(ctx context.Context, r Repo) error {
		ok, err := r.BookExists(ctx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return errInvalidSelection()
		}

		fines, found, err := r.LockUserFines(ctx, userID)
		if err != nil {
			return err
		}
		if !found {
			return apierr.ErrNotFound("User not found.")
		}
		if fines.GreaterThan(s.rules.FineBlockThreshold) {
			return errFinesBlocked()
		}

		open, err := r.CountOpenLoans(ctx, userID)
		if err != nil {
			return err
		}
		if open >= s.rules.MaxActiveLoans {
			return errLoanLimit()
		}

		copyID, ok, err := r.LockAvailableCopy(ctx, bookID)
		if err != nil {
			return err
		}
		if !ok {
			return errNoCopy()
		}

		loan = Loan{
			CopyID:     copyID,
			UserID:     userID,
			BorrowDate: today,
			DueDate:    today.AddDate(0, 0, s.rules.LoanDays),
			Status:     StatusBorrowed,
			FineAmount: decimal.Zero,
		}
		if err := r.InsertLoan(ctx, &loan); err != nil {
			return err
		}
		if err := r.TransitionCopy(ctx, copyID, CopyAvailable, CopyBorrowed); err != nil {
			if errors.Is(err, ErrCopyState) {
				return errNoCopy()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "borrow", err, "user_id", userID, "book_id", bookID)
	}

	s.log.InfoContext(ctx, "book borrowed",
		"transaction_id", loan.TransactionID, "user_id", userID, "book_id", bookID, "copy_id", loan.CopyID)
	return &BorrowResponse{
		TransactionID: loan.TransactionID,
		BookID:        bookID,
		CopyID:        loan.CopyID,
		BorrowDate:    loan.BorrowDate,
		DueDate:       loan.DueDate,
		Message:       fmt.Sprintf("Book borrowed successfully. Due date: %s", loan.DueDate.Format("2006-01-02")),
	}, nil
}

// Return closes the loan, frees the copy and charges any overdue fine to
// the borrower, all in one transaction.
func (s *Service) Return(ctx context.Context, transactionID int64) (*ReturnResponse, error) {
	if transactionID <= 0 {
		return nil, errLoanNotFound()
	}
	today := clock.Today(s.clock)

	var (
		fine decimal.Decimal
		days int
	)
	err := s.store.Atomic(ctx, func(ctx context.Context, r Repo) error {
		loan, err := r.LockLoan(ctx, transactionID)
		if err != nil {
			return err
		}
		if loan == nil {
			return errLoanNotFound()
		}
		if loan.Status == StatusReturned {
			return errAlreadyReturned()
		}

		days = OverdueDays(loan.DueDate, today)
		fine = ComputeFine(loan.DueDate, today, s.rules.FinePerDay)

		if err := r.CloseLoan(ctx, loan.TransactionID, today, fine); err != nil {
			return err
		}
		if err := r.TransitionCopy(ctx, loan.CopyID, CopyBorrowed, CopyAvailable); err != nil {
			if errors.Is(err, ErrCopyState) {
				return apierr.ErrConflict("Copy is not marked as borrowed.")
			}
			return err
		}
		if fine.IsPositive() {
			return r.AddUserFine(ctx, loan.UserID, fine)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "return", err, "transaction_id", transactionID)
	}

	msg := "Book returned successfully."
	if fine.IsPositive() {
		msg = fmt.Sprintf("Book returned. Overdue by %d day(s); fine charged: %s", days, fine.StringFixed(2))
	}
	s.log.InfoContext(ctx, "book returned", "transaction_id", transactionID, "fine", fine.StringFixed(2))
	return &ReturnResponse{
		TransactionID: transactionID,
		ReturnDate:    today,
		DaysOverdue:   days,
		FineAmount:    fine.StringFixed(2),
		Message:       msg,
	}, nil
}

func (s *Service) ActiveLoans(ctx context.Context, userID int64) ([]LoanResponse, error) {
	vs, err := s.store.ActiveLoans(ctx, userID)
	if err != nil {
		return nil, s.fail(ctx, "active loans", err, "user_id", userID)
	}
	return toLoanResponses(vs), nil
}

func (s *Service) History(ctx context.Context, userID int64) ([]LoanResponse, error) {
	vs, err := s.store.History(ctx, userID, historyLimit)
	if err != nil {
		return nil, s.fail(ctx, "history", err, "user_id", userID)
	}
	return toLoanResponses(vs), nil
}

func (s *Service) GetLoan(ctx context.Context, id int64) (*LoanResponse, error) {
	v, err := s.store.GetLoan(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "get loan", err, "transaction_id", id)
	}
	if v == nil {
		return nil, errLoanNotFound()
	}
	res := toLoanResponse(*v)
	return &res, nil
}

// fail converts err for the caller and logs storage faults.
func (s *Service) fail(ctx context.Context, op string, err error, attrs ...any) error {
	out := apierr.FromStore(err)
	if apierr.Is(out, apierr.CodePersistenceFailure) {
		s.log.ErrorContext(ctx, op+" failed", append(attrs, "err", err)...)
	}
	return out
}
