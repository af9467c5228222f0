package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/google/uuid"
)

func (r *PostgresRepo) CreateAccount(ctx context.Context, a *models.Account) error {
	if a == nil {
		return fmt.Errorf("account is nil")
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO accounts (id, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`

	if _, err := r.q.ExecContext(ctx, query, a.ID, strings.ToLower(a.Email), a.PasswordHash, a.CreatedAt); err != nil {
		return dbErr(err)
	}

	return nil
}

func (r *PostgresRepo) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *PostgresRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`, strings.ToLower(email))
	return scanAccount(row)
}

func (r *PostgresRepo) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return dbErr(err)
	}

	return affected(res)
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var a models.Account
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		return nil, dbErr(err)
	}
	a.CreatedAt = a.CreatedAt.UTC()

	return &a, nil
}
