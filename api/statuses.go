package api

import (
	"net/http"

	"github.com/garnizeh/jobtracker/pkg/models"
)

type statusResponse struct {
	Status models.Status `json:"status"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
}

// ListStatuses returns the pipeline in canonical order with display metadata.
func ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses := models.AllStatuses()
	out := make([]statusResponse, 0, len(statuses))
	for _, s := range statuses {
		meta, _ := s.Meta()
		out = append(out, statusResponse{Status: s, Label: meta.Label, Color: meta.Color})
	}

	writeJSON(w, http.StatusOK, out)
}
