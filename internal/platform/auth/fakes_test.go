package auth_test

import (
	"context"
	"sync"
	"time"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/auth"
)

type memAccounts struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*auth.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[int64]*auth.Account{}}
}

func (m *memAccounts) GetByID(_ context.Context, id int64) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) Create(_ context.Context, a *auth.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.Email == a.Email {
			return apierr.ErrConflict("dup")
		}
	}
	m.nextID++
	a.UserID = m.nextID
	cp := *a
	m.byID[a.UserID] = &cp
	return nil
}

func (m *memAccounts) List(_ context.Context, limit, offset int) ([]auth.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []auth.Account{}
	for id := int64(1); id <= m.nextID; id++ {
		if a, ok := m.byID[id]; ok {
			out = append(out, *a)
		}
	}
	if offset >= len(out) {
		return []auth.Account{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAccounts) put(a auth.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.UserID > m.nextID {
		m.nextID = a.UserID
	}
	m.byID[a.UserID] = &a
}

type memSessions struct {
	mu   sync.Mutex
	data map[string]auth.Session
}

func newMemSessions() *memSessions { return &memSessions{data: map[string]auth.Session{}} }

func (m *memSessions) Get(_ context.Context, id string) (*auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Save(_ context.Context, s auth.Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = s
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func (m *memSessions) has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[id]
	return ok
}

// stepClock is a settable clock.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
