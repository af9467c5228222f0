package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/garnizeh/jobtracker/internal/tracker"
	"github.com/garnizeh/jobtracker/internal/views"
	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Tracker is the query/mutation surface the handlers call.
type Tracker interface {
	CreateJob(ctx context.Context, ownerID uuid.UUID, in tracker.NewJob) (*models.Job, error)
	UpdateStatus(ctx context.Context, jobID uuid.UUID, status models.Status, requesterID uuid.UUID) (*models.Job, error)
	UpdateDetails(ctx context.Context, jobID, requesterID uuid.UUID, patch tracker.JobPatch) (*models.Job, error)
	DeleteJob(ctx context.Context, jobID, requesterID uuid.UUID) error
	GetJob(ctx context.Context, jobID, requesterID uuid.UUID) (*models.Job, error)
	ListJobs(ctx context.Context, ownerID uuid.UUID, opts tracker.ListOptions) (tracker.Page, error)
	Board(ctx context.Context, ownerID uuid.UUID) (views.Board, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch tracker.ProfilePatch) (*models.Profile, error)
}

var _ Tracker = (*tracker.Service)(nil)

type JobsHandler struct {
	svc       Tracker
	validator BodyValidator
}

func NewJobsHandler(svc Tracker, v BodyValidator) *JobsHandler {
	return &JobsHandler{svc: svc, validator: v}
}

type createJobRequest struct {
	Company     string  `json:"company"`
	Position    string  `json:"position"`
	Status      *string `json:"status"`
	URL         *string `json:"url"`
	Salary      *string `json:"salary"`
	Description *string `json:"description"`
	Note        *string `json:"note"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateJobRequest struct {
	URL         *string `json:"url"`
	Salary      *string `json:"salary"`
	Description *string `json:"description"`
	Note        *string `json:"note"`
}

type listJobsResponse struct {
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
	Sort   views.SortField `json:"sort"`
	Dir    views.Direction `json:"dir"`
	Items  []models.Job    `json:"items"`
}

type boardResponse struct {
	Total   int            `json:"total"`
	Columns []views.Column `json:"columns"`
}

func (h *JobsHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	owner, ok := AccountID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	var req createJobRequest
	if err := decodeBody(w, r, h.validator, "create_job", &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := tracker.NewJob{
		Company:     req.Company,
		Position:    req.Position,
		URL:         req.URL,
		Salary:      req.Salary,
		Description: req.Description,
		Note:        req.Note,
	}
	if req.Status != nil {
		s, err := models.ParseStatus(*req.Status)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.Status = s
	}

	job, err := h.svc.CreateJob(r.Context(), owner, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	owner, ok := AccountID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	opts, err := parseListOptions(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.svc.ListJobs(r.Context(), owner, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listJobsResponse{
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
		Sort:   page.Sort.Field,
		Dir:    page.Sort.Direction,
		Items:  page.Items,
	})
}

func (h *JobsHandler) Board(w http.ResponseWriter, r *http.Request) {
	owner, ok := AccountID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	board, err := h.svc.Board(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, boardResponse{Total: board.Total(), Columns: board.Columns()})
}

func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	owner, jobID, ok := h.jobRequest(w, r)
	if !ok {
		return
	}

	job, err := h.svc.GetJob(r.Context(), jobID, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (h *JobsHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	owner, jobID, ok := h.jobRequest(w, r)
	if !ok {
		return
	}

	var req updateJobRequest
	if err := decodeBody(w, r, h.validator, "update_job", &req); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.svc.UpdateDetails(r.Context(), jobID, owner, tracker.JobPatch{
		URL:         req.URL,
		Salary:      req.Salary,
		Description: req.Description,
		Note:        req.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (h *JobsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	owner, jobID, ok := h.jobRequest(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := decodeBody(w, r, h.validator, "update_status", &req); err != nil {
		writeError(w, r, err)
		return
	}

	status, err := models.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.svc.UpdateStatus(r.Context(), jobID, status, owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (h *JobsHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	owner, jobID, ok := h.jobRequest(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteJob(r.Context(), jobID, owner); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// jobRequest resolves the caller and the {id} path variable, writing the
// error response itself when either is missing.
func (h *JobsHandler) jobRequest(w http.ResponseWriter, r *http.Request) (owner, jobID uuid.UUID, ok bool) {
	owner, ok = AccountID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return uuid.Nil, uuid.Nil, false
	}

	jobID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid job id", models.ErrValidation))
		return uuid.Nil, uuid.Nil, false
	}

	return owner, jobID, true
}

func parseListOptions(r *http.Request) (tracker.ListOptions, error) {
	q := r.URL.Query()
	opts := tracker.ListOptions{Sort: views.DefaultSort}

	if v := q.Get("sort"); v != "" {
		field, err := views.ParseSortField(v)
		if err != nil {
			return opts, err
		}
		opts.Sort = views.Sort{Field: field, Direction: views.Asc}
	}
	if v := q.Get("dir"); v != "" {
		dir, err := views.ParseDirection(v)
		if err != nil {
			return opts, err
		}
		opts.Sort.Direction = dir
	}

	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		return opts, fmt.Errorf("%w: limit: %v", models.ErrValidation, err)
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		return opts, fmt.Errorf("%w: offset: %v", models.ErrValidation, err)
	}

	return opts, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
