// Package views derives the table and kanban presentations of a job
// collection. Every function is pure: inputs are never modified.
package views

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/garnizeh/jobtracker/pkg/models"
	"golang.org/x/text/cases"
)

// SortField names a sortable table column.
type SortField string

const (
	SortCompany   SortField = "company"
	SortPosition  SortField = "position"
	SortStatus    SortField = "status"
	SortCreatedAt SortField = "created_at"
)

// Direction is the sort direction of a table column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort is the table sort state.
type Sort struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// DefaultSort orders a table by creation time, oldest first.
var DefaultSort = Sort{Field: SortCreatedAt, Direction: Asc}

// ParseSortField accepts the column names of the table; "createdAt" is an
// alias for created_at.
func ParseSortField(v string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "company":
		return SortCompany, nil
	case "position":
		return SortPosition, nil
	case "status":
		return SortStatus, nil
	case "created_at", "createdat":
		return SortCreatedAt, nil
	}
	return "", fmt.Errorf("%w: unknown sort field %q", models.ErrValidation, v)
}

func ParseDirection(v string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	}
	return "", fmt.Errorf("%w: unknown sort direction %q", models.ErrValidation, v)
}

// Toggle returns the state after the user picks field: the same field flips
// direction, a different field starts ascending.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field {
		if s.Direction == Asc {
			return Sort{Field: field, Direction: Desc}
		}
		return Sort{Field: field, Direction: Asc}
	}
	return Sort{Field: field, Direction: Asc}
}

type sortKey struct {
	text    string
	at      time.Time
	missing bool
}

// SortJobs returns a stably sorted copy of jobs. Records with no value for
// the field go last in either direction. Text fields compare case-folded,
// status compares by its display label and created_at by instant.
func SortJobs(jobs []models.Job, s Sort) []models.Job {
	type keyed struct {
		job models.Job
		key sortKey
	}

	fold := cases.Fold()
	rows := make([]keyed, len(jobs))
	for i, j := range jobs {
		rows[i] = keyed{job: j, key: keyOf(j, s.Field, fold)}
	}

	slices.SortStableFunc(rows, func(a, b keyed) int {
		switch {
		case a.key.missing && b.key.missing:
			return 0
		case a.key.missing:
			return 1
		case b.key.missing:
			return -1
		}

		var c int
		if s.Field == SortCreatedAt {
			c = a.key.at.Compare(b.key.at)
		} else {
			c = strings.Compare(a.key.text, b.key.text)
		}
		if s.Direction == Desc {
			c = -c
		}
		return c
	})

	out := make([]models.Job, len(rows))
	for i, r := range rows {
		out[i] = r.job
	}
	return out
}

func keyOf(j models.Job, field SortField, fold cases.Caser) sortKey {
	var text string
	switch field {
	case SortCreatedAt:
		return sortKey{at: j.CreatedAt, missing: j.CreatedAt.IsZero()}
	case SortCompany:
		text = j.Company
	case SortPosition:
		text = j.Position
	case SortStatus:
		label, err := models.LabelOf(j.Status)
		if err != nil {
			return sortKey{missing: true}
		}
		text = label
	default:
		return sortKey{missing: true}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return sortKey{missing: true}
	}
	return sortKey{text: fold.String(text)}
}
