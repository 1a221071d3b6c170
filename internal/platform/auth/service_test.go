package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/auth"
	"libris-backend/internal/platform/logging"
)

type svcFixture struct {
	svc      *auth.Service
	accounts *memAccounts
	sessions *memSessions
	clock    *stepClock
}

func newSvcFixture() *svcFixture {
	f := &svcFixture{
		accounts: newMemAccounts(),
		sessions: newMemSessions(),
		clock:    &stepClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.svc = auth.NewService(f.accounts, f.sessions, auth.Options{
		Secret:         []byte("test-secret"),
		TokenTTL:       24 * time.Hour,
		SessionTimeout: time.Hour,
		Clock:          f.clock,
		Hasher:         auth.BcryptHasher(bcrypt.MinCost),
		Logger:         logging.Discard(),
	})
	return f
}

func (f *svcFixture) register(t *testing.T, email string) *auth.Account {
	t.Helper()
	acct, err := f.svc.Register(context.Background(), auth.RegisterInput{
		FullName: "Grace Hopper", Email: email, Password: "Passw0rdOK",
	})
	require.NoError(t, err)
	return acct
}

func Test_Register_CreatesUserRoleWithHashedPassword(t *testing.T) {
	f := newSvcFixture()

	acct := f.register(t, "  Grace@Example.com ")

	assert.Equal(t, auth.RoleUser, acct.Role)
	assert.Equal(t, "grace@example.com", acct.Email)
	assert.NotEqual(t, "Passw0rdOK", acct.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte("Passw0rdOK")))
}

func Test_Register_Validation(t *testing.T) {
	f := newSvcFixture()
	cases := []auth.RegisterInput{
		{FullName: "", Email: "a@b.co", Password: "Passw0rdOK"},
		{FullName: "A", Email: "not-an-email", Password: "Passw0rdOK"},
		{FullName: "A", Email: "a@b.co", Password: "Sh0rt"},
		{FullName: "A", Email: "a@b.co", Password: "alllowercase1"},
		{FullName: "A", Email: "a@b.co", Password: "NoDigitsHere"},
	}
	for _, in := range cases {
		_, err := f.svc.Register(context.Background(), in)
		assert.True(t, apierr.Is(err, apierr.CodeInvalidArgument), "%+v", in)
	}
}

func Test_Register_DuplicateEmailIsConflict(t *testing.T) {
	f := newSvcFixture()
	f.register(t, "dup@example.com")

	_, err := f.svc.Register(context.Background(), auth.RegisterInput{
		FullName: "Other", Email: "DUP@example.com", Password: "Passw0rdOK",
	})

	assert.True(t, apierr.Is(err, apierr.CodeConflict))
}

func Test_Login_CreatesSession(t *testing.T) {
	f := newSvcFixture()
	acct := f.register(t, "grace@example.com")

	res, err := f.svc.Login(context.Background(), "grace@example.com", "Passw0rdOK")

	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), res.ExpiresAt)
	assert.Equal(t, acct.UserID, res.Account.UserID)
	assert.Len(t, f.sessions.data, 1)
}

func Test_Login_WrongPasswordOrUnknownEmail(t *testing.T) {
	f := newSvcFixture()
	f.register(t, "grace@example.com")

	_, err := f.svc.Login(context.Background(), "grace@example.com", "wrong")
	assert.True(t, apierr.Is(err, apierr.CodeUnauthorized))

	_, err = f.svc.Login(context.Background(), "nobody@example.com", "Passw0rdOK")
	assert.True(t, apierr.Is(err, apierr.CodeUnauthorized))
	assert.Empty(t, f.sessions.data)
}

func Test_Logout_DeletesSession(t *testing.T) {
	f := newSvcFixture()
	f.register(t, "grace@example.com")
	_, err := f.svc.Login(context.Background(), "grace@example.com", "Passw0rdOK")
	require.NoError(t, err)

	var sid string
	for id := range f.sessions.data {
		sid = id
	}
	require.NoError(t, f.svc.Logout(context.Background(), sid))

	assert.False(t, f.sessions.has(sid))
}

func Test_ListUsers_ClampsLimit(t *testing.T) {
	f := newSvcFixture()
	f.register(t, "a@example.com")
	f.register(t, "b@example.com")

	users, err := f.svc.ListUsers(context.Background(), 0, -3)

	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func Test_EnsureAdmin_CreatesOnce(t *testing.T) {
	f := newSvcFixture()
	in := auth.RegisterInput{FullName: "Admin", Email: "Admin@Library.test", Password: "Adm1nPassword"}

	created, err := f.svc.EnsureAdmin(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, created)

	acct, err := f.accounts.GetByEmail(context.Background(), "admin@library.test")
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.Equal(t, auth.RoleAdmin, acct.Role)

	created, err = f.svc.EnsureAdmin(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, created)
}
