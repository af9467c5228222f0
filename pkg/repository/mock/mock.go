// Package mock provides an in-memory repository.Store for handler and service
// tests. It enforces the same ownership, uniqueness and cascade rules as the
// SQL schemas but has no transactions: WithTx runs fn directly.
package mock

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
	"github.com/google/uuid"
)

// Store is safe for concurrent use. Set Err to make every call fail, or
// PingErr to fail only Ping.
type Store struct {
	Err     error
	PingErr error

	mu       sync.Mutex
	accounts map[uuid.UUID]models.Account
	profiles map[uuid.UUID]models.Profile
	jobs     map[uuid.UUID]models.Job
	// insertion order of jobs
	order []uuid.UUID
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]models.Account),
		profiles: make(map[uuid.UUID]models.Profile),
		jobs:     make(map[uuid.UUID]models.Job),
	}
}

func (m *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Repos) error) error {
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx, m)
}

func (m *Store) Ping(ctx context.Context) error {
	if m.PingErr != nil {
		return m.PingErr
	}
	return m.Err
}

func (m *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(a.Email)
	for _, existing := range m.accounts {
		if existing.Email == email {
			return fmt.Errorf("%w: email %s", repository.ErrConflict, email)
		}
	}
	if _, ok := m.accounts[a.ID]; ok {
		return fmt.Errorf("%w: account %s", repository.ErrConflict, a.ID)
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = now()
	}
	stored := *a
	stored.Email = email
	m.accounts[a.ID] = stored
	return nil
}

func (m *Store) GetAccountByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &a, nil
}

func (m *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	email = strings.ToLower(email)
	for _, a := range m.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, models.ErrNotFound
}

// DeleteAccount cascades to the profile and every job it owns.
func (m *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.accounts, id)
	delete(m.profiles, id)
	for jid, j := range m.jobs {
		if j.UserID == id {
			delete(m.jobs, jid)
		}
	}
	m.order = slices.DeleteFunc(m.order, func(jid uuid.UUID) bool {
		_, ok := m.jobs[jid]
		return !ok
	})
	return nil
}

func (m *Store) CreateProfile(ctx context.Context, p *models.Profile) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[p.ID]; !ok {
		return fmt.Errorf("%w: referenced row does not exist", models.ErrNotFound)
	}
	if _, ok := m.profiles[p.ID]; ok {
		return fmt.Errorf("%w: profile %s", repository.ErrConflict, p.ID)
	}

	p.UpdatedAt = now()
	m.profiles[p.ID] = cloneProfile(*p)
	return nil
}

func (m *Store) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	p = cloneProfile(p)
	return &p, nil
}

func (m *Store) UpdateProfile(ctx context.Context, p *models.Profile) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[p.ID]; !ok {
		return models.ErrNotFound
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now()
	}
	m.profiles[p.ID] = cloneProfile(*p)
	return nil
}

func (m *Store) CreateJob(ctx context.Context, j *models.Job) error {
	if m.Err != nil {
		return m.Err
	}
	if !j.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(j.Status))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[j.UserID]; !ok {
		return fmt.Errorf("%w: referenced row does not exist", models.ErrNotFound)
	}
	if _, ok := m.jobs[j.ID]; ok {
		return fmt.Errorf("%w: job %s", repository.ErrConflict, j.ID)
	}

	if j.CreatedAt.IsZero() {
		j.CreatedAt = now()
	}
	j.UpdatedAt = j.CreatedAt
	m.jobs[j.ID] = cloneJob(*j)
	m.order = append(m.order, j.ID)
	return nil
}

func (m *Store) GetJob(ctx context.Context, id, ownerID uuid.UUID) (*models.Job, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok || j.UserID != ownerID {
		return nil, models.ErrNotFound
	}
	j = cloneJob(j)
	return &j, nil
}

// ListJobs returns ownerID's jobs ordered by creation time, then insertion.
func (m *Store) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]models.Job, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []models.Job{}
	for _, id := range m.order {
		if j := m.jobs[id]; j.UserID == ownerID {
			out = append(out, cloneJob(j))
		}
	}
	slices.SortStableFunc(out, func(a, b models.Job) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (m *Store) UpdateJob(ctx context.Context, j *models.Job) error {
	if m.Err != nil {
		return m.Err
	}
	if !j.Status.Valid() {
		return fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(j.Status))
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.jobs[j.ID]
	if !ok || current.UserID != j.UserID {
		return models.ErrNotFound
	}

	j.CreatedAt = current.CreatedAt
	if j.UpdatedAt.IsZero() {
		j.UpdatedAt = now()
	}
	m.jobs[j.ID] = cloneJob(*j)
	return nil
}

func (m *Store) DeleteJob(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok || j.UserID != ownerID {
		return models.ErrNotFound
	}
	delete(m.jobs, id)
	m.order = slices.DeleteFunc(m.order, func(jid uuid.UUID) bool { return jid == id })
	return nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneProfile(p models.Profile) models.Profile {
	p.DisplayName = clonePtr(p.DisplayName)
	p.AvatarURL = clonePtr(p.AvatarURL)
	return p
}

func cloneJob(j models.Job) models.Job {
	j.URL = clonePtr(j.URL)
	j.Salary = clonePtr(j.Salary)
	j.Description = clonePtr(j.Description)
	j.Note = clonePtr(j.Note)
	return j
}
