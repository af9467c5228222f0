package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

var gooseDialects = map[string]string{
	DriverSQLite:   "sqlite3",
	DriverPostgres: "postgres",
}

// Migrate applies the goose migrations found under migrations/<driver> in
// migrationFS. Goose keeps package-level state, so concurrent calls are not
// supported.
func Migrate(ctx context.Context, d *DB, migrationFS fs.FS, logger *slog.Logger) error {
	dialect, ok := gooseDialects[d.driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", d.driver)
	}

	goose.SetBaseFS(migrationFS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{logger: logger})

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	dir := path.Join("migrations", d.driver)
	if err := gooseUpContext(ctx, d.conn, dir); err != nil {
		return fmt.Errorf("apply migrations from %s: %w", dir, err)
	}

	return nil
}

// gooseLogger routes goose progress messages into slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	if l.logger == nil {
		return
	}
	l.logger.Info("migrate", slog.String("msg", fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	if l.logger != nil {
		l.logger.Error("migrate", slog.String("msg", fmt.Sprintf(format, v...)))
	}
	os.Exit(1)
}
