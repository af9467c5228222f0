package identity

import (
	"fmt"
	"time"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type claims struct {
	jwt.RegisteredClaims
}

func (l *Local) issue(accountID uuid.UUID) (*Session, error) {
	now := l.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			Issuer:    l.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(l.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(l.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{
		Token:     signed,
		ExpiresAt: c.ExpiresAt.Time.UTC(),
		AccountID: accountID,
	}, nil
}

// parsed is the subset of a verified token the provider needs.
type parsed struct {
	Subject   string
	ID        string
	ExpiresAt time.Time
}

func (l *Local) parse(tokenString string) (*parsed, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: missing token", models.ErrAuth)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(l.now),
	}
	if l.issuer != "" {
		opts = append(opts, jwt.WithIssuer(l.issuer))
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return l.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid or expired token", models.ErrAuth)
	}
	if c.ID == "" || c.Subject == "" {
		return nil, fmt.Errorf("%w: incomplete token claims", models.ErrAuth)
	}

	return &parsed{Subject: c.Subject, ID: c.ID, ExpiresAt: c.ExpiresAt.Time}, nil
}
