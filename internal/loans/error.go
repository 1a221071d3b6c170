package loans

import (
	"errors"

	"libris-backend/internal/platform/apierr"
)

// ErrCopyState is returned by Repo.TransitionCopy when the copy was not in
// the expected status.
var ErrCopyState = errors.New("copy not in expected status")

func errInvalidSelection() error {
	return apierr.New(apierr.CodeInvalidSelection, "Invalid book selection.")
}

func errFinesBlocked() error {
	return apierr.New(apierr.CodeFinesBlocked, "You have outstanding fines above the allowed limit.")
}

func errLoanLimit() error {
	return apierr.New(apierr.CodeLoanLimitReached, "Maximum active loans reached.")
}

func errNoCopy() error {
	return apierr.New(apierr.CodeNoCopyAvailable, "No available copies at the moment.")
}

func errLoanNotFound() error {
	return apierr.ErrNotFound("Transaction not found.")
}

func errAlreadyReturned() error {
	return apierr.New(apierr.CodeAlreadyReturned, "Book already returned.")
}
