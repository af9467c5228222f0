package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/garnizeh/jobtracker/internal/views"
	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
	"github.com/google/uuid"
)

// NewJob is the Quick Add input. An empty Status means the default status.
type NewJob struct {
	Company     string
	Position    string
	Status      models.Status
	URL         *string
	Salary      *string
	Description *string
	Note        *string
}

// JobPatch updates the free-form fields of a job. Nil leaves a field alone,
// a blank string clears it.
type JobPatch struct {
	URL         *string
	Salary      *string
	Description *string
	Note        *string
}

func (p JobPatch) empty() bool {
	return p.URL == nil && p.Salary == nil && p.Description == nil && p.Note == nil
}

type ListOptions struct {
	Sort views.Sort
	// Limit <= 0 returns every job from Offset on.
	Limit  int
	Offset int
}

// Page is one window of the table view.
type Page struct {
	Items  []models.Job
	Total  int
	Limit  int
	Offset int
	Sort   views.Sort
}

func (s *Service) CreateJob(ctx context.Context, ownerID uuid.UUID, in NewJob) (*models.Job, error) {
	company := strings.TrimSpace(in.Company)
	position := strings.TrimSpace(in.Position)
	if company == "" {
		return nil, fmt.Errorf("%w: company is required", models.ErrValidation)
	}
	if position == "" {
		return nil, fmt.Errorf("%w: position is required", models.ErrValidation)
	}

	status := in.Status
	if status == "" {
		status = models.DefaultStatus
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(status))
	}

	link, err := optionalURL("url", in.URL)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		ID:          s.newID(),
		UserID:      ownerID,
		Company:     company,
		Position:    position,
		Status:      status,
		URL:         link,
		Salary:      optionalText(in.Salary),
		Description: verbatimText(in.Description),
		Note:        verbatimText(in.Note),
		CreatedAt:   s.timestamp(),
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, storeErr("create job", err)
	}

	s.logger.Info("job created",
		slog.String("job_id", job.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.String("status", string(job.Status)),
	)

	return job, nil
}

// UpdateStatus moves a job to status. Jobs owned by someone else are
// reported as not found.
func (s *Service) UpdateStatus(ctx context.Context, jobID uuid.UUID, status models.Status, requesterID uuid.UUID) (*models.Job, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStatus, string(status))
	}

	stamp := s.timestamp()
	var updated models.Job
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		current, err := tx.GetJob(ctx, jobID, requesterID)
		if err != nil {
			return err
		}

		next, err := models.ChangeStatus(*current, status)
		if err != nil {
			return err
		}
		next.UpdatedAt = stamp
		if err := tx.UpdateJob(ctx, &next); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return nil, storeErr("update status", err)
	}

	s.logger.Info("job status changed",
		slog.String("job_id", jobID.String()),
		slog.String("status", string(status)),
	)

	return &updated, nil
}

func (s *Service) UpdateDetails(ctx context.Context, jobID, requesterID uuid.UUID, patch JobPatch) (*models.Job, error) {
	if patch.empty() {
		return nil, fmt.Errorf("%w: nothing to update", models.ErrValidation)
	}

	var link *string
	if patch.URL != nil {
		var err error
		if link, err = optionalURL("url", patch.URL); err != nil {
			return nil, err
		}
	}

	stamp := s.timestamp()
	var updated models.Job
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repository.Repos) error {
		j, err := tx.GetJob(ctx, jobID, requesterID)
		if err != nil {
			return err
		}

		if patch.URL != nil {
			j.URL = link
		}
		if patch.Salary != nil {
			j.Salary = optionalText(patch.Salary)
		}
		if patch.Description != nil {
			j.Description = verbatimText(patch.Description)
		}
		if patch.Note != nil {
			j.Note = verbatimText(patch.Note)
		}
		j.UpdatedAt = stamp

		if err := tx.UpdateJob(ctx, j); err != nil {
			return err
		}
		updated = *j
		return nil
	})
	if err != nil {
		return nil, storeErr("update job", err)
	}

	s.logger.Info("job updated", slog.String("job_id", jobID.String()))

	return &updated, nil
}

func (s *Service) DeleteJob(ctx context.Context, jobID, requesterID uuid.UUID) error {
	if err := s.store.DeleteJob(ctx, jobID, requesterID); err != nil {
		return storeErr("delete job", err)
	}

	s.logger.Info("job deleted", slog.String("job_id", jobID.String()))
	return nil
}

func (s *Service) GetJob(ctx context.Context, jobID, requesterID uuid.UUID) (*models.Job, error) {
	j, err := s.store.GetJob(ctx, jobID, requesterID)
	if err != nil {
		return nil, storeErr("get job", err)
	}
	return j, nil
}

// ListJobs returns the owner's table view: every job sorted by opts.Sort,
// then windowed by Offset and Limit.
func (s *Service) ListJobs(ctx context.Context, ownerID uuid.UUID, opts ListOptions) (Page, error) {
	sort := opts.Sort
	if sort == (views.Sort{}) {
		sort = views.DefaultSort
	}
	if _, err := views.ParseSortField(string(sort.Field)); err != nil {
		return Page{}, err
	}
	if _, err := views.ParseDirection(string(sort.Direction)); err != nil {
		return Page{}, err
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return Page{}, fmt.Errorf("%w: limit and offset must not be negative", models.ErrValidation)
	}

	jobs, err := s.store.ListJobs(ctx, ownerID)
	if err != nil {
		return Page{}, storeErr("list jobs", err)
	}

	sorted := views.SortJobs(jobs, sort)
	total := len(sorted)

	start := min(opts.Offset, total)
	end := total
	if opts.Limit > 0 {
		end = start + min(opts.Limit, total-start)
	}

	return Page{
		Items:  sorted[start:end],
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
		Sort:   sort,
	}, nil
}

// Board groups the owner's jobs into kanban columns.
func (s *Service) Board(ctx context.Context, ownerID uuid.UUID) (views.Board, error) {
	jobs, err := s.store.ListJobs(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list jobs", err)
	}

	return views.GroupByStatus(jobs)
}
