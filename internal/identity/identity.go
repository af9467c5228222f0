// Package identity signs users up and in, and issues and verifies the bearer
// tokens that carry an account id into the rest of the service.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLen = 72
)

// Provider is what the HTTP layer needs from an identity provider.
type Provider interface {
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (uuid.UUID, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type SignUpInput struct {
	Email       string
	Password    string
	DisplayName *string
}

// Session is the result of a successful sign-up or sign-in. Profile is only
// set on sign-up.
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	AccountID uuid.UUID       `json:"-"`
	Profile   *models.Profile `json:"profile,omitempty"`
}

type Options struct {
	Secret string
	Issuer string
	TTL    time.Duration
	// Revocations defaults to NoRevocations, which makes sign-out stateless.
	Revocations RevocationStore
	Logger      *slog.Logger
	// Cost is the bcrypt cost; zero means bcrypt.DefaultCost.
	Cost int
	Now  func() time.Time
}

// Local is a Provider backed by the accounts table.
type Local struct {
	store   repository.Store
	secret  []byte
	issuer  string
	ttl     time.Duration
	revoked RevocationStore
	logger  *slog.Logger
	cost    int
	now     func() time.Time
}

var _ Provider = (*Local)(nil)

func NewLocal(store repository.Store, opts Options) (*Local, error) {
	if store == nil {
		return nil, errors.New("identity: store is required")
	}
	if opts.Secret == "" {
		return nil, errors.New("identity: secret is required")
	}
	if opts.TTL <= 0 {
		return nil, errors.New("identity: token ttl must be positive")
	}

	l := &Local{
		store:   store,
		secret:  []byte(opts.Secret),
		issuer:  opts.Issuer,
		ttl:     opts.TTL,
		revoked: opts.Revocations,
		logger:  opts.Logger,
		cost:    opts.Cost,
		now:     opts.Now,
	}
	if l.revoked == nil {
		l.revoked = NoRevocations{}
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	if l.cost == 0 {
		l.cost = bcrypt.DefaultCost
	}
	if l.now == nil {
		l.now = time.Now
	}

	return l, nil
}

// SignUp creates the account and its empty profile in one transaction and
// returns a session for the new account.
func (l *Local) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}

	var displayName *string
	if in.DisplayName != nil {
		if v := strings.TrimSpace(*in.DisplayName); v != "" {
			displayName = &v
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), l.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    l.now().UTC().Truncate(time.Millisecond),
	}
	profile := &models.Profile{ID: account.ID, DisplayName: displayName}

	err = l.store.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		_, err := tx.GetAccountByEmail(ctx, email)
		switch {
		case err == nil:
			return errEmailTaken
		case !errors.Is(err, models.ErrNotFound):
			return err
		}

		if err := tx.CreateAccount(ctx, account); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return errEmailTaken
			}
			return err
		}
		return tx.CreateProfile(ctx, profile)
	})
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: sign up: %v", models.ErrStore, err)
	}

	l.logger.Info("account created", slog.String("account_id", account.ID.String()))

	s, err := l.issue(account.ID)
	if err != nil {
		return nil, err
	}
	s.Profile = profile

	return s, nil
}

// SignIn checks the credentials. An unknown email and a wrong password fail
// the same way.
func (l *Local) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", models.ErrValidation)
	}

	account, err := l.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("%w: sign in: %v", models.ErrStore, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, errBadCredentials
	}

	return l.issue(account.ID)
}

// SignOut revokes token until it would have expired anyway.
func (l *Local) SignOut(ctx context.Context, token string) error {
	claims, err := l.parse(token)
	if err != nil {
		return err
	}

	remaining := claims.ExpiresAt.Sub(l.now())
	if remaining <= 0 {
		return nil
	}
	if err := l.revoked.Revoke(ctx, claims.ID, remaining); err != nil {
		return fmt.Errorf("%w: revoke token: %v", models.ErrStore, err)
	}

	return nil
}

// Verify returns the account id carried by a valid, unrevoked token.
func (l *Local) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	claims, err := l.parse(token)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", models.ErrAuth)
	}

	revoked, err := l.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: check revocation: %v", models.ErrStore, err)
	}
	if revoked {
		return uuid.Nil, fmt.Errorf("%w: token revoked", models.ErrAuth)
	}

	return id, nil
}

// DeleteAccount removes the account. The schema cascades the delete to the
// profile and every job it owns.
func (l *Local) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if err := l.store.DeleteAccount(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: delete account: %v", models.ErrStore, err)
	}

	l.logger.Info("account deleted", slog.String("account_id", id.String()))
	return nil
}

var (
	errEmailTaken     = fmt.Errorf("%w: email already registered", models.ErrValidation)
	errBadCredentials = fmt.Errorf("%w: invalid email or password", models.ErrAuth)
)

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", models.ErrValidation)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", models.ErrValidation)
	}

	return strings.ToLower(addr.Address), nil
}

func checkPassword(pw string) error {
	switch {
	case len(pw) < minPasswordLen:
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrValidation, minPasswordLen)
	case len(pw) > maxPasswordLen:
		return fmt.Errorf("%w: password must be at most %d bytes", models.ErrValidation, maxPasswordLen)
	}
	return nil
}
