// Package postgres implements the repository interfaces on PostgreSQL
// through the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/garnizeh/jobtracker/internal/db"
	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type PostgresRepo struct {
	conn   *db.DB
	q      db.DBTX
	logger *slog.Logger
}

var _ repository.Store = (*PostgresRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *PostgresRepo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PostgresRepo{conn: conn, q: conn.GetConn(), logger: logger}
}

// WithTx runs fn with a repo bound to one transaction. A repo that is already
// transactional reuses its transaction.
func (r *PostgresRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repos) error) error {
	if r.conn == nil {
		return fn(ctx, r)
	}

	return r.conn.WithTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &PostgresRepo{q: tx, logger: r.logger})
	})
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Ping(ctx)
}

func dbErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: referenced row does not exist", models.ErrNotFound)
		}
	}

	return fmt.Errorf("db error: %w", err)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func ptr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

type rowScanner interface {
	Scan(dest ...any) error
}
