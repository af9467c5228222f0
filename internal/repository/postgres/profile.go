package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/google/uuid"
)

func (r *PostgresRepo) CreateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	query :=
		`INSERT INTO profiles (id, display_name, avatar_url, updated_at)
		 VALUES ($1, $2, $3, now())
		 RETURNING updated_at`

	if err := r.q.QueryRowContext(ctx, query, p.ID, nullable(p.DisplayName), nullable(p.AvatarURL)).Scan(&p.UpdatedAt); err != nil {
		return dbErr(err)
	}

	return nil
}

func (r *PostgresRepo) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, display_name, avatar_url, updated_at FROM profiles WHERE id = $1`, id)

	var p models.Profile
	var name, avatar sql.NullString
	if err := row.Scan(&p.ID, &name, &avatar, &p.UpdatedAt); err != nil {
		return nil, dbErr(err)
	}
	p.DisplayName = ptr(name)
	p.AvatarURL = ptr(avatar)

	return &p, nil
}

func (r *PostgresRepo) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	query :=
		`UPDATE profiles SET display_name = $1, avatar_url = $2, updated_at = COALESCE($3, now())
		 WHERE id = $4
		 RETURNING updated_at`

	if err := r.q.QueryRowContext(ctx, query, nullable(p.DisplayName), nullable(p.AvatarURL), nullableTime(p.UpdatedAt), p.ID).Scan(&p.UpdatedAt); err != nil {
		return dbErr(err)
	}

	return nil
}
