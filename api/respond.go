package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/garnizeh/jobtracker/pkg/models"
)

const maxBodyBytes = 1 << 20

// BodyValidator checks a raw request body against a named JSON schema.
type BodyValidator interface {
	Validate(ctx context.Context, name string, data []byte) error
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

// writeError maps the error kinds onto HTTP statuses. Anything unclassified
// is logged and answered with a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrUnknownStatus):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrAuth):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("err", err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeBody reads at most maxBodyBytes, validates them against schema when
// v is set and unmarshals into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, v BodyValidator, schema string, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", models.ErrValidation, err)
	}

	if v != nil {
		if err := v.Validate(r.Context(), schema, data); err != nil {
			return err
		}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", models.ErrValidation, err)
	}

	return nil
}
