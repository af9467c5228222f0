package validation_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/garnizeh/jobtracker/db"
	"github.com/garnizeh/jobtracker/internal/validation"
	"github.com/garnizeh/jobtracker/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validation.Validator {
	t.Helper()
	v, err := validation.NewValidator(db.Schemas, "schemas")
	require.NoError(t, err)
	return v
}

func TestNewValidator_LoadsEmbeddedSchemas(t *testing.T) {
	v := newValidator(t)
	assert.Equal(t, []string{
		"create_job", "signin", "signup", "update_job", "update_profile", "update_status",
	}, v.Names())
}

func TestNewValidator_Errors(t *testing.T) {
	_, err := validation.NewValidator(fstest.MapFS{}, "missing")
	assert.Error(t, err)

	bad := fstest.MapFS{"s/broken.json": {Data: []byte(`{"type":`)}}
	_, err = validation.NewValidator(bad, "s")
	assert.ErrorContains(t, err, "broken.json")
}

func TestNewValidator_SkipsNonJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"s/a.json":    {Data: []byte(`{"type":"object"}`)},
		"s/README.md": {Data: []byte("docs")},
	}
	v, err := validation.NewValidator(fsys, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v.Names())
}

func TestValidate(t *testing.T) {
	v := newValidator(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		schema  string
		body    string
		wantErr bool
	}{
		{"create minimal", "create_job", `{"company":"Acme","position":"Engineer"}`, false},
		{"create full", "create_job", `{"company":"Acme","position":"Engineer","status":"Applied","url":"https://acme.test","salary":"100k","description":"d","note":"n"}`, false},
		{"create missing position", "create_job", `{"company":"Acme"}`, true},
		{"create wrong type", "create_job", `{"company":1,"position":"Engineer"}`, true},
		{"create unknown field", "create_job", `{"company":"Acme","position":"Engineer","owner":"x"}`, true},
		{"status ok", "update_status", `{"status":"Offer"}`, false},
		{"status empty", "update_status", `{"status":""}`, true},
		{"status missing", "update_status", `{}`, true},
		{"update job empty", "update_job", `{}`, true},
		{"update job note", "update_job", `{"note":"call back"}`, false},
		{"profile name", "update_profile", `{"display_name":"Ann"}`, false},
		{"signup ok", "signup", `{"email":"a@b.test","password":"password1"}`, false},
		{"signup no password", "signup", `{"email":"a@b.test"}`, true},
		{"signin ok", "signin", `{"email":"a@b.test","password":"password1"}`, false},
		{"malformed", "signin", `{"email":`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.schema, []byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	v := newValidator(t)
	err := v.Validate(context.Background(), "nope", []byte(`{}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrValidation)
}
