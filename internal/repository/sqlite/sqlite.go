package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/garnizeh/jobtracker/internal/db"
	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepo implements the repository interfaces on top of modernc sqlite.
// Timestamps are stored as UTC unix milliseconds.
type SQLiteRepo struct {
	conn   *db.DB
	q      db.DBTX
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.Store = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteRepo{conn: conn, q: conn.GetConn(), logger: logger}
}

// WithTx runs fn with a repo bound to one transaction. Calls made on a repo
// that is already transactional reuse the open transaction.
func (r *SQLiteRepo) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repos) error) error {
	if r.conn == nil {
		return fn(ctx, r)
	}

	return r.conn.WithTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &SQLiteRepo{q: tx, logger: r.logger})
	})
}

func (r *SQLiteRepo) Ping(ctx context.Context) error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Ping(ctx)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func ptr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

// dbErr maps driver errors onto the repository error kinds.
func dbErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}

	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", repository.ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: referenced row does not exist", models.ErrNotFound)
		}
	}

	// extended result codes are not guaranteed on every build
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", repository.ErrConflict, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: referenced row does not exist", models.ErrNotFound)
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
