package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/google/uuid"
)

func (r *SQLiteRepo) CreateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	p.UpdatedAt = now()
	_, err := r.q.ExecContext(ctx, `INSERT INTO profiles (id, display_name, avatar_url, updated_at) VALUES (?, ?, ?, ?)`,
		p.ID, nullable(p.DisplayName), nullable(p.AvatarURL), toMillis(p.UpdatedAt))
	if err != nil {
		return dbErr(err)
	}

	return nil
}

func (r *SQLiteRepo) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, display_name, avatar_url, updated_at FROM profiles WHERE id = ?`, id)

	var p models.Profile
	var name, avatar sql.NullString
	var updated int64
	if err := row.Scan(&p.ID, &name, &avatar, &updated); err != nil {
		return nil, dbErr(err)
	}
	p.DisplayName = ptr(name)
	p.AvatarURL = ptr(avatar)
	p.UpdatedAt = fromMillis(updated)

	return &p, nil
}

func (r *SQLiteRepo) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if p == nil {
		return fmt.Errorf("profile is nil")
	}

	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now()
	}
	res, err := r.q.ExecContext(ctx, `UPDATE profiles SET display_name = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
		nullable(p.DisplayName), nullable(p.AvatarURL), toMillis(p.UpdatedAt), p.ID)
	if err != nil {
		return dbErr(err)
	}

	return affected(res)
}
