package loans_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"libris-backend/internal/loans"
)

type copyRow struct {
	BookID int64
	Status string
}

type memState struct {
	Books    map[int64]string
	Users    map[int64]decimal.Decimal
	Copies   map[int64]copyRow
	Loans    map[int64]loans.Loan
	NextLoan int64
}

func (s memState) clone() memState {
	out := memState{
		Books:    map[int64]string{},
		Users:    map[int64]decimal.Decimal{},
		Copies:   map[int64]copyRow{},
		Loans:    map[int64]loans.Loan{},
		NextLoan: s.NextLoan,
	}
	for k, v := range s.Books {
		out.Books[k] = v
	}
	for k, v := range s.Users {
		out.Users[k] = v
	}
	for k, v := range s.Copies {
		out.Copies[k] = v
	}
	for k, v := range s.Loans {
		out.Loans[k] = v
	}
	return out
}

var errInjected = errors.New("injected storage failure")

// memStore serializes transactions with one mutex and restores a snapshot
// when fn fails.
type memStore struct {
	mu sync.Mutex
	st memState

	failOn string
	// stealCopy flips the locked copy to borrowed behind the transaction's back.
	stealCopy bool
}

func newMemStore() *memStore {
	return &memStore{st: memState{}.clone()}
}

func (m *memStore) snapshot() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.clone()
}

func (m *memStore) Atomic(ctx context.Context, fn func(ctx context.Context, r loans.Repo) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := m.st.clone()
	if err := fn(ctx, &memRepo{m: m}); err != nil {
		m.st = before
		return err
	}
	return nil
}

func (m *memStore) views(filter func(loans.Loan) bool) []loans.LoanView {
	out := []loans.LoanView{}
	for _, l := range m.st.Loans {
		if filter(l) {
			b := m.st.Copies[l.CopyID].BookID
			out = append(out, loans.LoanView{Loan: l, BookID: b, Title: m.st.Books[b]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out
}

func (m *memStore) ActiveLoans(_ context.Context, userID int64) ([]loans.LoanView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.views(func(l loans.Loan) bool { return l.UserID == userID && l.IsOpen() }), nil
}

func (m *memStore) History(_ context.Context, userID int64, limit int) ([]loans.LoanView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vs := m.views(func(l loans.Loan) bool { return l.UserID == userID })
	sort.Slice(vs, func(i, j int) bool { return vs[i].TransactionID > vs[j].TransactionID })
	if len(vs) > limit {
		vs = vs[:limit]
	}
	return vs, nil
}

func (m *memStore) GetLoan(_ context.Context, id int64) (*loans.LoanView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vs := m.views(func(l loans.Loan) bool { return l.TransactionID == id })
	if len(vs) == 0 {
		return nil, nil
	}
	return &vs[0], nil
}

type memRepo struct{ m *memStore }

func (r *memRepo) fail(op string) error {
	if r.m.failOn == op {
		return errInjected
	}
	return nil
}

func (r *memRepo) BookExists(_ context.Context, bookID int64) (bool, error) {
	if err := r.fail("BookExists"); err != nil {
		return false, err
	}
	_, ok := r.m.st.Books[bookID]
	return ok, nil
}

func (r *memRepo) LockUserFines(_ context.Context, userID int64) (decimal.Decimal, bool, error) {
	if err := r.fail("LockUserFines"); err != nil {
		return decimal.Zero, false, err
	}
	f, ok := r.m.st.Users[userID]
	return f, ok, nil
}

func (r *memRepo) CountOpenLoans(_ context.Context, userID int64) (int, error) {
	n := 0
	for _, l := range r.m.st.Loans {
		if l.UserID == userID && l.IsOpen() {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) LockAvailableCopy(_ context.Context, bookID int64) (int64, bool, error) {
	ids := make([]int64, 0, len(r.m.st.Copies))
	for id, c := range r.m.st.Copies {
		if c.BookID == bookID && c.Status == loans.CopyAvailable {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, false, nil
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if r.m.stealCopy {
		c := r.m.st.Copies[ids[0]]
		c.Status = loans.CopyBorrowed
		r.m.st.Copies[ids[0]] = c
	}
	return ids[0], true, nil
}

func (r *memRepo) InsertLoan(_ context.Context, l *loans.Loan) error {
	if err := r.fail("InsertLoan"); err != nil {
		return err
	}
	r.m.st.NextLoan++
	l.TransactionID = r.m.st.NextLoan
	r.m.st.Loans[l.TransactionID] = *l
	return nil
}

func (r *memRepo) TransitionCopy(_ context.Context, copyID int64, from, to string) error {
	if err := r.fail("TransitionCopy"); err != nil {
		return err
	}
	c, ok := r.m.st.Copies[copyID]
	if !ok || c.Status != from {
		return loans.ErrCopyState
	}
	c.Status = to
	r.m.st.Copies[copyID] = c
	return nil
}

func (r *memRepo) LockLoan(_ context.Context, id int64) (*loans.Loan, error) {
	l, ok := r.m.st.Loans[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memRepo) CloseLoan(_ context.Context, id int64, returned time.Time, fine decimal.Decimal) error {
	if err := r.fail("CloseLoan"); err != nil {
		return err
	}
	l := r.m.st.Loans[id]
	l.ReturnDate = &returned
	l.Status = loans.StatusReturned
	l.FineAmount = fine
	r.m.st.Loans[id] = l
	return nil
}

func (r *memRepo) AddUserFine(_ context.Context, userID int64, fine decimal.Decimal) error {
	if err := r.fail("AddUserFine"); err != nil {
		return err
	}
	r.m.st.Users[userID] = r.m.st.Users[userID].Add(fine)
	return nil
}
