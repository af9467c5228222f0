package db_test

import (
	"context"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/jobtracker/db"
	"github.com/garnizeh/jobtracker/internal/db"
)

// TestMigrate_FileDatabase applies the embedded sqlite migrations to a file
// database in a temp dir, twice, and checks the resulting schema rules.
func TestMigrate_FileDatabase(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	d, err := db.New(ctx, db.DriverSQLite, dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations, nil); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations, nil); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	for _, table := range []string{"accounts", "profiles", "jobs", "goose_db_version"} {
		var n int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err := row.Scan(&n); err != nil || n != 1 {
			t.Fatalf("table %s: count=%d err=%v", table, n, err)
		}
	}

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := d.Exec(ctx, q, args...); err != nil {
			t.Fatalf("exec %q: %v", q, err)
		}
	}
	mustExec(`INSERT INTO accounts (id, email, password_hash, created_at) VALUES ('a1', 'a@example.com', 'x', 1)`)
	mustExec(`INSERT INTO profiles (id, updated_at) VALUES ('a1', 1)`)
	mustExec(`INSERT INTO jobs (id, user_id, company, position, created_at, updated_at) VALUES ('j1', 'a1', 'Acme', 'Engineer', 1, 1)`)

	// status column defaults to Applying and rejects values outside the pipeline
	var status string
	if err := d.QueryRow(ctx, `SELECT status FROM jobs WHERE id = 'j1'`).Scan(&status); err != nil || status != "Applying" {
		t.Fatalf("default status = %q, %v", status, err)
	}
	if _, err := d.Exec(ctx, `UPDATE jobs SET status = 'Ghosted' WHERE id = 'j1'`); err == nil {
		t.Fatalf("expected check constraint to reject unknown status")
	}

	// orphan job rejected
	if _, err := d.Exec(ctx, `INSERT INTO jobs (id, user_id, company, position, created_at, updated_at) VALUES ('j2', 'nobody', 'Acme', 'Engineer', 1, 1)`); err == nil {
		t.Fatalf("expected foreign key violation for unknown owner")
	}

	// deleting the account cascades through the profile to the jobs
	mustExec(`DELETE FROM accounts WHERE id = 'a1'`)
	var jobs int
	if err := d.QueryRow(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&jobs); err != nil || jobs != 0 {
		t.Fatalf("expected cascade to remove jobs, got %d (%v)", jobs, err)
	}
}
