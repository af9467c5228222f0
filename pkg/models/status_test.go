package models_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllStatuses_CanonicalOrder(t *testing.T) {
	want := []models.Status{
		"Applying", "Applied", "ForInterview", "Interviewing", "Offer", "Negotiating",
		"Hired", "OnHold", "Rejected", "NoResponse", "Withdraw",
	}
	assert.Equal(t, want, models.AllStatuses())

	// callers get their own copy
	got := models.AllStatuses()
	got[0] = "mutated"
	assert.Equal(t, models.StatusApplying, models.AllStatuses()[0])
}

func TestLabelOf_DefinedForEveryStatus(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range models.AllStatuses() {
		label, err := models.LabelOf(s)
		require.NoError(t, err, "status %s", s)
		assert.NotEmpty(t, label)
		assert.False(t, seen[label], "duplicate label %q", label)
		seen[label] = true

		color, err := models.ColorOf(s)
		require.NoError(t, err)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, color)
	}
	assert.Len(t, seen, 11)
}

func TestLabelOf_Unknown(t *testing.T) {
	_, err := models.LabelOf("Ghosted")
	assert.ErrorIs(t, err, models.ErrUnknownStatus)

	_, err = models.ColorOf("")
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    models.Status
		wantErr bool
	}{
		{in: "ForInterview", want: models.StatusForInterview},
		{in: "For Interview", want: models.StatusForInterview},
		{in: "  no response ", want: models.StatusNoResponse},
		{in: "onhold", want: models.StatusOnHold},
		{in: "Offer", want: models.StatusOffer},
		{in: "", wantErr: true},
		{in: "To Apply", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := models.ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChangeStatus_AnyToAny(t *testing.T) {
	for _, from := range models.AllStatuses() {
		for _, to := range models.AllStatuses() {
			job := models.Job{Company: "Acme", Position: "Engineer", Status: from}
			got, err := models.ChangeStatus(job, to)
			require.NoError(t, err)
			assert.Equal(t, to, got.Status)
			assert.Equal(t, from, job.Status, "input must not change")
		}
	}
}

func TestChangeStatus_Invalid(t *testing.T) {
	job := models.Job{Status: models.StatusApplied}
	got, err := models.ChangeStatus(job, "Ghosted")
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
	assert.Equal(t, models.StatusApplied, got.Status)
}

func TestStatus_JSONBoundary(t *testing.T) {
	var body struct {
		Status models.Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"On Hold"}`), &body))
	assert.Equal(t, models.StatusOnHold, body.Status)

	err := json.Unmarshal([]byte(`{"status":"Ghosted"}`), &body)
	assert.True(t, errors.Is(err, models.ErrUnknownStatus), "got %v", err)

	b, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OnHold"}`, string(b))
}

func TestStatus_DatabaseBoundary(t *testing.T) {
	var s models.Status
	require.NoError(t, s.Scan("Hired"))
	assert.Equal(t, models.StatusHired, s)

	require.NoError(t, s.Scan([]byte("Rejected")))
	assert.Equal(t, models.StatusRejected, s)

	// labels are display-only, never persisted
	assert.ErrorIs(t, s.Scan("No Response"), models.ErrUnknownStatus)
	assert.ErrorIs(t, s.Scan(nil), models.ErrUnknownStatus)
	assert.ErrorIs(t, s.Scan(42), models.ErrUnknownStatus)

	v, err := models.StatusOffer.Value()
	require.NoError(t, err)
	assert.Equal(t, "Offer", v)

	_, err = models.Status("bogus").Value()
	assert.ErrorIs(t, err, models.ErrUnknownStatus)
}
