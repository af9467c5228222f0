// Package tracker is the only writer of job and profile data. It validates
// input, scopes every job operation to its owner and translates requests into
// single transactional store writes.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/garnizeh/jobtracker/pkg/repository"
	"github.com/google/uuid"
)

type Options struct {
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID defaults to uuid.New.
	NewID func() uuid.UUID
}

type Service struct {
	store  repository.Store
	logger *slog.Logger
	now    func() time.Time
	newID  func() uuid.UUID
}

func New(store repository.Store, opts Options) *Service {
	s := &Service{store: store, logger: opts.Logger, now: opts.Now, newID: opts.NewID}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.New
	}
	return s
}

// timestamp is the service clock in UTC at the millisecond precision both
// stores keep.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// storeErr passes domain errors through and wraps everything else as
// models.ErrStore, keeping the original message.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrUnknownStatus):
		return err
	}
	return fmt.Errorf("%w: %s: %v", models.ErrStore, op, err)
}

// optionalText trims v; blank values become absent.
func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}

// verbatimText keeps v as written unless it is blank.
func verbatimText(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	t := *v
	return &t
}

func optionalURL(field string, v *string) (*string, error) {
	u := optionalText(v)
	if u == nil {
		return nil, nil
	}

	parsed, err := url.Parse(*u)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %s must be an absolute http(s) URL", models.ErrValidation, field)
	}

	return u, nil
}
