package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
	"github.com/google/uuid"
)

// ProfilePatch follows the JobPatch rules: nil keeps, blank clears.
type ProfilePatch struct {
	DisplayName *string
	AvatarURL   *string
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, storeErr("get profile", err)
	}
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*models.Profile, error) {
	if patch.DisplayName == nil && patch.AvatarURL == nil {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}

	var avatar *string
	if patch.AvatarURL != nil {
		var err error
		if avatar, err = optionalURL("avatar_url", patch.AvatarURL); err != nil {
			return nil, err
		}
	}

	stamp := s.timestamp()
	var updated models.Profile
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		p, err := tx.GetProfile(ctx, id)
		if err != nil {
			return err
		}

		if patch.DisplayName != nil {
			p.DisplayName = optionalText(patch.DisplayName)
		}
		if patch.AvatarURL != nil {
			p.AvatarURL = avatar
		}
		p.UpdatedAt = stamp

		if err := tx.UpdateProfile(ctx, p); err != nil {
			return err
		}
		updated = *p
		return nil
	})
	if err != nil {
		return nil, storeErr("update profile", err)
	}

	s.logger.Info("profile updated", slog.String("profile_id", id.String()))

	return &updated, nil
}
