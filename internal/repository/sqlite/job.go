package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/google/uuid"
)

const jobColumns = `id, user_id, company, position, status, url, salary, description, note, created_at, updated_at`

func (r *SQLiteRepo) CreateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}
	if !j.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(j.Status))
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now()
	}
	j.UpdatedAt = j.CreatedAt

	_, err := r.q.ExecContext(ctx, `INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.UserID, j.Company, j.Position, j.Status,
		nullable(j.URL), nullable(j.Salary), nullable(j.Description), nullable(j.Note),
		toMillis(j.CreatedAt), toMillis(j.UpdatedAt))
	if err != nil {
		return dbErr(err)
	}

	return nil
}

func (r *SQLiteRepo) GetJob(ctx context.Context, id, ownerID uuid.UUID) (*models.Job, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = ? AND user_id = ?`, id, ownerID)
	j, err := scanJob(row)
	if err != nil {
		return nil, dbErr(err)
	}

	return j, nil
}

// ListJobs returns every job of ownerID in insertion order. Presentation
// ordering is applied by the caller.
func (r *SQLiteRepo) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE user_id = ? ORDER BY created_at, id`, ownerID)
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

func (r *SQLiteRepo) UpdateJob(ctx context.Context, j *models.Job) error {
	if j == nil {
		return fmt.Errorf("job is nil")
	}
	if !j.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(j.Status))
	}

	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = now()
	}
	res, err := r.q.ExecContext(ctx, `UPDATE jobs SET company = ?, position = ?, status = ?, url = ?, salary = ?, description = ?, note = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		j.Company, j.Position, j.Status,
		nullable(j.URL), nullable(j.Salary), nullable(j.Description), nullable(j.Note),
		toMillis(j.UpdatedAt), j.ID, j.UserID)
	if err != nil {
		return dbErr(err)
	}

	return affected(res)
}

func (r *SQLiteRepo) DeleteJob(ctx context.Context, id, ownerID uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM jobs WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return dbErr(err)
	}

	return affected(res)
}

func scanJob(row rowScanner) (*models.Job, error) {
	var j models.Job
	var url, salary, desc, note sql.NullString
	var created, updated int64
	if err := row.Scan(&j.ID, &j.UserID, &j.Company, &j.Position, &j.Status,
		&url, &salary, &desc, &note, &created, &updated); err != nil {
		return nil, err
	}

	j.URL = ptr(url)
	j.Salary = ptr(salary)
	j.Description = ptr(desc)
	j.Note = ptr(note)
	j.CreatedAt = fromMillis(created)
	j.UpdatedAt = fromMillis(updated)

	return &j, nil
}
