package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"libris-backend/internal/platform/apierr"
	"libris-backend/internal/platform/clock"
)

// Hasher is the password hashing collaborator.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type bcryptHasher struct{ cost int }

func BcryptHasher(cost int) Hasher { return bcryptHasher{cost: cost} }

func (h bcryptHasher) Hash(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), h.cost)
	return string(b), err
}

func (h bcryptHasher) Compare(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}

type Options struct {
	Secret         []byte
	TokenTTL       time.Duration
	SessionTimeout time.Duration
	Clock          clock.Clock
	Hasher         Hasher
	Logger         *slog.Logger
}

type Service struct {
	accounts AccountStore
	sessions SessionStore
	policy   *Policy
	secret   []byte
	tokenTTL time.Duration
	timeout  time.Duration
	clock    clock.Clock
	hasher   Hasher
	log      *slog.Logger
}

func NewService(accounts AccountStore, sessions SessionStore, opt Options) *Service {
	if opt.Clock == nil {
		opt.Clock = clock.Real()
	}
	if opt.Hasher == nil {
		opt.Hasher = BcryptHasher(bcrypt.DefaultCost)
	}
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &Service{
		accounts: accounts,
		sessions: sessions,
		policy:   NewPolicy(sessions, accounts, opt.Clock, opt.SessionTimeout),
		secret:   opt.Secret,
		tokenTTL: opt.TokenTTL,
		timeout:  opt.SessionTimeout,
		clock:    opt.Clock,
		hasher:   opt.Hasher,
		log:      opt.Logger,
	}
}

func (s *Service) Policy() *Policy { return s.policy }

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	acct, err := s.create(ctx, in, RoleUser)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "account registered", "user_id", acct.UserID)
	return acct, nil
}

// EnsureAdmin creates an admin account for in.Email unless one with that
// email already exists. It reports whether a new account was created.
func (s *Service) EnsureAdmin(ctx context.Context, in RegisterInput) (bool, error) {
	exists, err := s.accounts.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return false, apierr.Persistence(err)
	}
	if exists != nil {
		return false, nil
	}
	acct, err := s.create(ctx, in, RoleAdmin)
	if err != nil {
		return false, err
	}
	s.log.InfoContext(ctx, "admin account created", "user_id", acct.UserID)
	return true, nil
}

func (s *Service) create(ctx context.Context, in RegisterInput, role string) (*Account, error) {
	name := strings.TrimSpace(in.FullName)
	email := normalizeEmail(in.Email)
	if name == "" {
		return nil, apierr.ErrInvalid("Full name is required.")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	exists, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if exists != nil {
		return nil, apierr.ErrConflict("Email is already registered.")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apierr.ErrInternal("could not hash password")
	}
	acct := &Account{FullName: name, Email: email, Role: role, PasswordHash: hash}
	if err := s.accounts.Create(ctx, acct); err != nil {
		if apierr.IsDuplicateKey(err) {
			return nil, apierr.ErrConflict("Email is already registered.")
		}
		return nil, apierr.Persistence(err)
	}
	return acct, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *Account
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	acct, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	if acct == nil || s.hasher.Compare(acct.PasswordHash, password) != nil {
		return nil, apierr.ErrUnauthorized("Invalid email or password.")
	}

	now := s.clock.Now()
	sess := Session{
		ID:         ulid.Make().String(),
		UserID:     acct.UserID,
		IssuedAt:   now,
		LastActive: now,
	}
	if err := s.sessions.Save(ctx, sess, s.timeout); err != nil {
		return nil, apierr.Persistence(err)
	}

	exp := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(acct.UserID, 10),
		"role": acct.Role,
		"sid":  sess.ID,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, apierr.ErrInternal("could not sign token")
	}
	return &LoginResult{Token: signed, ExpiresAt: exp, Account: acct}, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apierr.Persistence(err)
	}
	return nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]Account, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	out, err := s.accounts.List(ctx, limit, offset)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return out, nil
}

type tokenClaims struct {
	UserID    int64
	SessionID string
}

// parseToken validates signature, algorithm and expiry (against the service
// clock) and extracts sub/sid.
func (s *Service) parseToken(raw string) (*tokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || tok == nil || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	if sub == "" || sid == "" {
		return nil, errors.New("missing sub or sid")
	}
	uid, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid sub: %w", err)
	}
	return &tokenClaims{UserID: uid, SessionID: sid}, nil
}
