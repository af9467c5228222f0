package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Status is a pipeline stage. The set is closed: every value outside the
// constants below is rejected at the JSON and database boundaries.
type Status string

const (
	StatusApplying     Status = "Applying"
	StatusApplied      Status = "Applied"
	StatusForInterview Status = "ForInterview"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusNegotiating  Status = "Negotiating"
	StatusHired        Status = "Hired"
	StatusOnHold       Status = "OnHold"
	StatusRejected     Status = "Rejected"
	StatusNoResponse   Status = "NoResponse"
	StatusWithdraw     Status = "Withdraw"
)

// DefaultStatus is assigned to jobs created without an explicit status.
const DefaultStatus = StatusApplying

// StatusMeta is the display metadata of a status.
type StatusMeta struct {
	Label string
	Color string
}

// canonical column order of the board
var pipeline = [...]Status{
	StatusApplying,
	StatusApplied,
	StatusForInterview,
	StatusInterviewing,
	StatusOffer,
	StatusNegotiating,
	StatusHired,
	StatusOnHold,
	StatusRejected,
	StatusNoResponse,
	StatusWithdraw,
}

var statusMeta = map[Status]StatusMeta{
	StatusApplying:     {Label: "Applying", Color: "#64748b"},
	StatusApplied:      {Label: "Applied", Color: "#3b82f6"},
	StatusForInterview: {Label: "For Interview", Color: "#8b5cf6"},
	StatusInterviewing: {Label: "Interviewing", Color: "#a855f7"},
	StatusOffer:        {Label: "Offer", Color: "#22c55e"},
	StatusNegotiating:  {Label: "Negotiating", Color: "#14b8a6"},
	StatusHired:        {Label: "Hired", Color: "#16a34a"},
	StatusOnHold:       {Label: "On Hold", Color: "#f59e0b"},
	StatusRejected:     {Label: "Rejected", Color: "#ef4444"},
	StatusNoResponse:   {Label: "No Response", Color: "#9ca3af"},
	StatusWithdraw:     {Label: "Withdraw", Color: "#6b7280"},
}

// AllStatuses returns the eleven statuses in board order. The order is a
// presentation contract, not a progression constraint.
func AllStatuses() []Status {
	out := make([]Status, len(pipeline))
	copy(out, pipeline[:])
	return out
}

// Valid reports whether s belongs to the pipeline.
func (s Status) Valid() bool {
	_, ok := statusMeta[s]
	return ok
}

func (s Status) String() string { return string(s) }

// Meta returns the display metadata of s.
func (s Status) Meta() (StatusMeta, error) {
	m, ok := statusMeta[s]
	if !ok {
		return StatusMeta{}, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return m, nil
}

// LabelOf returns the display label of s.
func LabelOf(s Status) (string, error) {
	m, err := s.Meta()
	if err != nil {
		return "", err
	}
	return m.Label, nil
}

// ColorOf returns the presentation color of s.
func ColorOf(s Status) (string, error) {
	m, err := s.Meta()
	if err != nil {
		return "", err
	}
	return m.Color, nil
}

// ParseStatus accepts either the identifier ("ForInterview") or, ignoring
// case and surrounding space, the display label ("for interview").
func ParseStatus(v string) (Status, error) {
	if s := Status(v); s.Valid() {
		return s, nil
	}

	want := strings.TrimSpace(v)
	for _, s := range pipeline {
		if strings.EqualFold(want, string(s)) || strings.EqualFold(want, statusMeta[s].Label) {
			return s, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, v)
}

// ChangeStatus moves job to s. Every transition between valid statuses is
// allowed; the returned copy is not persisted.
func ChangeStatus(job Job, s Status) (Job, error) {
	if !s.Valid() {
		return job, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	job.Status = s
	return job, nil
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return []byte(s), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Scan implements sql.Scanner. Persisted values are identifiers only.
func (s *Status) Scan(src any) error {
	var v string
	switch t := src.(type) {
	case string:
		v = t
	case []byte:
		v = string(t)
	case nil:
		return fmt.Errorf("%w: NULL", ErrUnknownStatus)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrUnknownStatus, src)
	}

	if !Status(v).Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, v)
	}
	*s = Status(v)
	return nil
}

// Value implements driver.Valuer.
func (s Status) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, string(s))
	}
	return string(s), nil
}
