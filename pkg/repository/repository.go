package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/google/uuid"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Lookups of missing rows return models.ErrNotFound. Job lookups are always
// scoped by owner: a job owned by someone else is reported as not found.

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("conflict")

type AccountRepo interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type ProfileRepo interface {
	CreateProfile(ctx context.Context, p *models.Profile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	// UpdateProfile writes p.UpdatedAt as given; a zero value means now.
	UpdateProfile(ctx context.Context, p *models.Profile) error
}

type JobRepo interface {
	CreateJob(ctx context.Context, j *models.Job) error
	GetJob(ctx context.Context, id, ownerID uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error)
	// UpdateJob rewrites the mutable columns of j, matched on j.ID and j.UserID.
	// j.UpdatedAt is written as given; a zero value means now.
	UpdateJob(ctx context.Context, j *models.Job) error
	DeleteJob(ctx context.Context, id, ownerID uuid.UUID) error
}

// Repos groups the per-entity repositories bound to one handle.
type Repos interface {
	AccountRepo
	ProfileRepo
	JobRepo
}

// Store is a Repos bound to a connection that can open transactions.
type Store interface {
	Repos
	// WithTx runs fn with repositories bound to a single transaction,
	// committing when fn returns nil.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repos) error) error
	Ping(ctx context.Context) error
}
