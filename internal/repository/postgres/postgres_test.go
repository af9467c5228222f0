package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/garnizeh/jobtracker/internal/db"
	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jobCols = []string{"id", "user_id", "company", "position", "status", "url", "salary", "description", "note", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepo, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})
	return New(db.Wrap(conn, db.DriverPostgres), nil), mock
}

func TestCreateAccount_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+accounts\s*\(id,\s*email,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)`).
		WithArgs(id, "alice@example.com", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	a := &models.Account{ID: id, Email: "Alice@Example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateAccount(context.Background(), a))
	assert.False(t, a.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccount_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+accounts`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	err := repo.CreateAccount(context.Background(), &models.Account{ID: uuid.New(), Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestGetAccountByEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()
	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	q := `(?s)SELECT\s+id,\s*email,\s*password_hash,\s*created_at\s+FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1`
	mock.ExpectQuery(q).
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
			AddRow(id.String(), "bob@example.com", "hash", created))

	got, err := repo.GetAccountByEmail(context.Background(), "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.True(t, created.Equal(got.CreatedAt))

	mock.ExpectQuery(q).WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))
	_, err = repo.GetAccountByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteAccount(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectExec(`DELETE\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1`).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteAccount(context.Background(), id))

	mock.ExpectExec(`DELETE\s+FROM\s+accounts`).WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteAccount(context.Background(), id), models.ErrNotFound)
}

func TestProfile_CreateAndUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)INSERT\s+INTO\s+profiles.*RETURNING\s+updated_at`).
		WithArgs(id, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(ts))

	p := &models.Profile{ID: id}
	require.NoError(t, repo.CreateProfile(context.Background(), p))
	assert.True(t, ts.Equal(p.UpdatedAt))

	name := "Carol"
	mock.ExpectQuery(`(?s)UPDATE\s+profiles\s+SET.*COALESCE\(\$3,\s*now\(\)\).*WHERE\s+id\s*=\s*\$4\s+RETURNING\s+updated_at`).
		WithArgs("Carol", nil, ts.Add(time.Hour), id).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(ts.Add(time.Hour)))

	p.DisplayName = &name
	p.UpdatedAt = ts.Add(time.Hour)
	require.NoError(t, repo.UpdateProfile(context.Background(), p))
	assert.True(t, ts.Add(time.Hour).Equal(p.UpdatedAt))

	mock.ExpectQuery(`UPDATE\s+profiles`).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))
	assert.ErrorIs(t, repo.UpdateProfile(context.Background(), &models.Profile{ID: uuid.New()}), models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProfile(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT\s+id,\s*display_name,\s*avatar_url,\s*updated_at\s+FROM\s+profiles`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "avatar_url", "updated_at"}).
			AddRow(id.String(), "Dana", nil, time.Now()))

	p, err := repo.GetProfile(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p.DisplayName)
	assert.Equal(t, "Dana", *p.DisplayName)
	assert.Nil(t, p.AvatarURL)
}

func TestCreateJob(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	owner := uuid.New()
	j := &models.Job{ID: uuid.New(), UserID: owner, Company: "Acme", Position: "Engineer", Status: models.StatusApplying}

	mock.ExpectExec(`(?s)INSERT\s+INTO\s+jobs\s*\(id, user_id, company, position, status, url, salary, description, note, created_at, updated_at\)`).
		WithArgs(j.ID, owner, "Acme", "Engineer", "Applying", nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.CreateJob(context.Background(), j))
	assert.Equal(t, j.CreatedAt, j.UpdatedAt)

	// unknown owner surfaces as not found
	mock.ExpectExec(`INSERT\s+INTO\s+jobs`).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	err := repo.CreateJob(context.Background(), &models.Job{ID: uuid.New(), UserID: uuid.New(), Company: "A", Position: "B", Status: models.StatusApplied})
	assert.ErrorIs(t, err, models.ErrNotFound)

	// status never reaches the database when invalid
	err = repo.CreateJob(context.Background(), &models.Job{ID: uuid.New(), Status: "Ghosted"})
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetJob_OwnerScoped(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id, owner := uuid.New(), uuid.New()
	now := time.Now().UTC()

	q := `(?s)SELECT\s+id, user_id.*FROM\s+jobs\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`
	mock.ExpectQuery(q).WithArgs(id, owner).
		WillReturnRows(sqlmock.NewRows(jobCols).
			AddRow(id.String(), owner.String(), "Acme", "Engineer", "Offer", "https://acme.test/jobs/1", nil, nil, "call back", now, now))

	got, err := repo.GetJob(context.Background(), id, owner)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOffer, got.Status)
	assert.Equal(t, "https://acme.test/jobs/1", *got.URL)
	assert.Nil(t, got.Salary)
	assert.Equal(t, "call back", *got.Note)

	other := uuid.New()
	mock.ExpectQuery(q).WithArgs(id, other).WillReturnRows(sqlmock.NewRows(jobCols))
	_, err = repo.GetJob(context.Background(), id, other)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetJob_CorruptStatus(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM\s+jobs`).
		WillReturnRows(sqlmock.NewRows(jobCols).
			AddRow(id.String(), owner.String(), "Acme", "Engineer", "Ghosted", nil, nil, nil, nil, time.Now(), time.Now()))

	_, err := repo.GetJob(context.Background(), id, owner)
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
}

func TestListJobs(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	owner := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(jobCols).
		AddRow(uuid.NewString(), owner.String(), "Acme", "Engineer", "Applied", nil, nil, nil, nil, now, now).
		AddRow(uuid.NewString(), owner.String(), "Globex", "SRE", "Hired", nil, "$1", nil, nil, now, now)
	mock.ExpectQuery(`(?s)FROM\s+jobs\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at,\s*id`).
		WithArgs(owner).
		WillReturnRows(rows)

	got, err := repo.ListJobs(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Globex", got[1].Company)
	assert.Equal(t, "$1", *got[1].Salary)

	mock.ExpectQuery(`FROM\s+jobs`).WithArgs(owner).WillReturnError(errors.New("db down"))
	_, err = repo.ListJobs(context.Background(), owner)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}

	mock.ExpectQuery(`FROM\s+jobs`).WithArgs(owner).WillReturnRows(sqlmock.NewRows(jobCols))
	empty, err := repo.ListJobs(context.Background(), owner)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestUpdateJob(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)
	j := &models.Job{ID: uuid.New(), UserID: uuid.New(), Company: "Acme", Position: "Engineer", Status: models.StatusInterviewing}

	q := `(?s)UPDATE\s+jobs\s+SET.*updated_at\s*=\s*COALESCE\(\$8,\s*now\(\)\).*WHERE\s+id\s*=\s*\$9\s+AND\s+user_id\s*=\s*\$10\s+RETURNING\s+created_at,\s*updated_at`
	// zero UpdatedAt leaves the timestamp to the database
	mock.ExpectQuery(q).
		WithArgs("Acme", "Engineer", "Interviewing", nil, nil, nil, nil, nil, j.ID, j.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, updated))

	require.NoError(t, repo.UpdateJob(context.Background(), j))
	assert.True(t, created.Equal(j.CreatedAt))
	assert.True(t, updated.Equal(j.UpdatedAt))

	stamped := updated.Add(time.Hour)
	j.UpdatedAt = stamped
	mock.ExpectQuery(q).
		WithArgs("Acme", "Engineer", "Interviewing", nil, nil, nil, nil, stamped, j.ID, j.UserID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, stamped))
	require.NoError(t, repo.UpdateJob(context.Background(), j))
	assert.True(t, stamped.Equal(j.UpdatedAt))

	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))
	assert.ErrorIs(t, repo.UpdateJob(context.Background(), j), models.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteJob(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id, owner := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE\s+FROM\s+jobs\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs(id, owner).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteJob(context.Background(), id, owner))

	mock.ExpectExec(`DELETE\s+FROM\s+jobs`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteJob(context.Background(), id, owner), models.ErrNotFound)
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT\s+INTO\s+accounts`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT\s+INTO\s+profiles`).WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	err := repo.WithTx(context.Background(), func(ctx context.Context, tx repository.Repos) error {
		if err := tx.CreateAccount(ctx, &models.Account{ID: id, Email: "t@example.com", PasswordHash: "h"}); err != nil {
			return err
		}
		return tx.CreateProfile(ctx, &models.Profile{ID: id})
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT\s+INTO\s+accounts`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err = repo.WithTx(context.Background(), func(ctx context.Context, tx repository.Repos) error {
		return tx.CreateAccount(ctx, &models.Account{ID: id, Email: "t@example.com", PasswordHash: "h"})
	})
	assert.ErrorIs(t, err, repository.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPing(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectPing().WillReturnError(errors.New("unreachable"))
	repo := New(db.Wrap(conn, db.DriverPostgres), nil)
	assert.Error(t, repo.Ping(context.Background()))
}
