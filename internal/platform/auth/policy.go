package auth

import (
	"context"
	"time"

	"libris-backend/internal/platform/clock"
)

// Policy decides whether a session is still fresh. Freshness is measured
// from the last activity, using the injected clock only.
type Policy struct {
	sessions SessionStore
	accounts AccountStore
	clock    clock.Clock
	timeout  time.Duration
}

func NewPolicy(sessions SessionStore, accounts AccountStore, clk clock.Clock, timeout time.Duration) *Policy {
	return &Policy{sessions: sessions, accounts: accounts, clock: clk, timeout: timeout}
}

// CurrentSession returns the active user for sessionID, or nil when the
// session is unknown, idle for longer than the timeout, or its user is gone.
// Stale sessions are deleted. The account is always re-read from the store.
func (p *Policy) CurrentSession(ctx context.Context, sessionID string) (*Account, error) {
	if sessionID == "" {
		return nil, nil
	}
	sess, err := p.sessions.Get(ctx, sessionID)
	if err != nil || sess == nil {
		return nil, err
	}

	now := p.clock.Now()
	if now.Sub(sess.LastActive) > p.timeout {
		return nil, p.sessions.Delete(ctx, sessionID)
	}

	acct, err := p.accounts.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, p.sessions.Delete(ctx, sessionID)
	}

	sess.LastActive = now
	if err := p.sessions.Save(ctx, *sess, p.timeout); err != nil {
		return nil, err
	}
	return acct, nil
}

// Authorize grants access only on an exact role match.
func Authorize(acct *Account, role string) bool {
	return acct != nil && role != "" && acct.Role == role
}
