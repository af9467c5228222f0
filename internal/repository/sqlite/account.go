package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/google/uuid"
)

func (r *SQLiteRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now()
	}

	_, err := r.q.ExecContext(ctx, `INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		a.ID, strings.ToLower(a.Email), a.PasswordHash, toMillis(a.CreatedAt))
	if err != nil {
		return dbErr(err)
	}

	return nil
}

func (r *SQLiteRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *SQLiteRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?`, strings.ToLower(email))
	return scanAccount(row)
}

// DeleteAccount removes the account; the schema cascades to its profile and jobs.
func (r *SQLiteRepo) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return dbErr(err)
	}

	return affected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	var created int64
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &created); err != nil {
		return nil, dbErr(err)
	}
	a.CreatedAt = fromMillis(created)

	return &a, nil
}
