package views

import (
	"fmt"

	"github.com/garnizeh/jobtracker/pkg/models"
)

// Board maps every pipeline status to the jobs holding it. All eleven keys
// are always present.
type Board map[models.Status][]models.Job

// Column is one rendered board column.
type Column struct {
	Status models.Status `json:"status"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
	Count  int           `json:"count"`
	Jobs   []models.Job  `json:"jobs"`
}

// GroupByStatus partitions jobs into one bucket per status, keeping input
// order within a bucket. A job with a status outside the pipeline fails the
// whole grouping with models.ErrUnknownStatus instead of being dropped.
func GroupByStatus(jobs []models.Job) (Board, error) {
	b := make(Board, len(models.AllStatuses()))
	for _, s := range models.AllStatuses() {
		b[s] = []models.Job{}
	}

	for _, j := range jobs {
		bucket, ok := b[j.Status]
		if !ok {
			return nil, fmt.Errorf("%w: job %s has status %q", models.ErrUnknownStatus, j.ID, string(j.Status))
		}
		b[j.Status] = append(bucket, j)
	}

	return b, nil
}

// Columns lists the buckets in pipeline order with their display metadata.
func (b Board) Columns() []Column {
	statuses := models.AllStatuses()
	out := make([]Column, 0, len(statuses))
	for _, s := range statuses {
		meta, _ := s.Meta()
		jobs := b[s]
		if jobs == nil {
			jobs = []models.Job{}
		}
		out = append(out, Column{
			Status: s,
			Label:  meta.Label,
			Color:  meta.Color,
			Count:  len(jobs),
			Jobs:   jobs,
		})
	}
	return out
}

// Total is the number of jobs across all buckets.
func (b Board) Total() int {
	n := 0
	for _, jobs := range b {
		n += len(jobs)
	}
	return n
}
