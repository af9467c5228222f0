package api

import (
	"net/http"

	"github.com/garnizeh/jobtracker/internal/tracker"
)

type ProfileHandler struct {
	svc       Tracker
	validator BodyValidator
}

func NewProfileHandler(svc Tracker, v BodyValidator) *ProfileHandler {
	return &ProfileHandler{svc: svc, validator: v}
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := AccountID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	p, err := h.svc.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := AccountID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	var req updateProfileRequest
	if err := decodeBody(w, r, h.validator, "update_profile", &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.svc.UpdateProfile(r.Context(), id, tracker.ProfilePatch{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, p)
}
