package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/google/uuid"
)

const jobColumns = `id, user_id, company, position, status, url, salary, description, note, created_at, updated_at`

func (r *PostgresRepo) CreateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}
	if !j.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(j.Status))
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}
	j.UpdatedAt = j.CreatedAt

	query :=
		`INSERT INTO jobs (` + jobColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

	_, err := r.q.ExecContext(ctx, query,
		j.ID, j.UserID, j.Company, j.Position, j.Status,
		nullable(j.URL), nullable(j.Salary), nullable(j.Description), nullable(j.Note),
		j.CreatedAt)
	if err != nil {
		return dbErr(err)
	}

	return nil
}

func (r *PostgresRepo) GetJob(ctx context.Context, id, ownerID uuid.UUID) (*models.Job, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND user_id = $2`, id, ownerID)
	j, err := scanJob(row)
	if err != nil {
		return nil, dbErr(err)
	}

	return j, nil
}

func (r *PostgresRepo) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE user_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	out := []models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, dbErr(err)
		}
		out = append(out, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}

	return out, nil
}

func (r *PostgresRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}
	if !j.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(j.Status))
	}

	query :=
		`UPDATE jobs
		 SET company = $1, position = $2, status = $3, url = $4, salary = $5, description = $6, note = $7, updated_at = COALESCE($8, now())
		 WHERE id = $9 AND user_id = $10
		 RETURNING created_at, updated_at`

	err := r.q.QueryRowContext(ctx, query,
		j.Company, j.Position, j.Status,
		nullable(j.URL), nullable(j.Salary), nullable(j.Description), nullable(j.Note),
		nullableTime(j.UpdatedAt), j.ID, j.UserID).Scan(&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return dbErr(err)
	}
	j.CreatedAt = j.CreatedAt.UTC()
	j.UpdatedAt = j.UpdatedAt.UTC()

	return nil
}

func (r *PostgresRepo) DeleteJob(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return dbErr(err)
	}

	return affected(res)
}

func scanJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	var url, salary, desc, note sql.NullString
	if err := row.Scan(&j.ID, &j.UserID, &j.Company, &j.Position, &j.Status,
		&url, &salary, &desc, &note, &j.CreatedAt, &j.UpdatedAt); err != nil {
		return nil, err
	}

	j.URL = ptr(url)
	j.Salary = ptr(salary)
	j.Description = ptr(desc)
	j.Note = ptr(note)
	j.CreatedAt = j.CreatedAt.UTC()
	j.UpdatedAt = j.UpdatedAt.UTC()

	return &j, nil
}
