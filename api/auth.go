package api

import (
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobtracker/internal/identity"
)

type AuthHandler struct {
	provider  identity.Provider
	validator BodyValidator
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(p identity.Provider, v BodyValidator) *AuthHandler {
	return &AuthHandler{provider: p, validator: v}
}

type signupRequest struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	DisplayName *string `json:"display_name"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(w, r, h.validator, "signup", &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.provider.SignUp(r.Context(), identity.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeBody(w, r, h.validator, "signin", &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Signout revokes the caller's token when the provider keeps revocations;
// otherwise the client just discards it.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if err := h.provider.SignOut(r.Context(), tokenFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}

// DeleteAccount removes the caller's account, profile and jobs.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := AccountID(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthenticated"})
		return
	}

	if err := h.provider.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.provider.SignOut(r.Context(), tokenFrom(r.Context())); err != nil {
		logger.Warn("revoke token of deleted account", slog.String("account_id", id.String()), slog.Any("err", err))
	}

	w.WriteHeader(http.StatusNoContent)
}
