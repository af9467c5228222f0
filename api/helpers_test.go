package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/garnizeh/jobtracker/api"
	"github.com/garnizeh/jobtracker/db"
	"github.com/garnizeh/jobtracker/internal/health"
	"github.com/garnizeh/jobtracker/internal/identity"
	"github.com/garnizeh/jobtracker/internal/tracker"
	"github.com/garnizeh/jobtracker/internal/validation"
	"github.com/garnizeh/jobtracker/pkg/repository/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	t      *testing.T
	store  *mock.Store
	router http.Handler
}

type memRevocations struct {
	mu  sync.Mutex
	ids map[string]bool
}

func (m *memRevocations) Revoke(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ids == nil {
		m.ids = make(map[string]bool)
	}
	m.ids[jti] = true
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids[jti], nil
}

// newTestAPI wires the real router, identity provider, tracker and schema
// validator over an in-memory store.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := mock.NewStore()

	idp, err := identity.NewLocal(store, identity.Options{
		Secret:      "testsecret",
		Issuer:      "jobtracker-test",
		TTL:         time.Hour,
		Revocations: &memRevocations{},
		Cost:        bcrypt.MinCost,
	})
	require.NoError(t, err)

	v, err := validation.NewValidator(db.Schemas, "schemas")
	require.NoError(t, err)

	router := api.SetupRoutes(api.Deps{
		Version:   "1.2.3",
		BuildTime: "2025-08-24T00:00:00Z",
		Identity:  idp,
		Tracker:   tracker.New(store, tracker.Options{}),
		Validator: v,
		Readiness: health.NewService(health.NewPingChecker("database", store)),
	})

	return &testAPI{t: t, store: store, router: router}
}

// do sends body as-is when it is a string and JSON-encoded otherwise.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) signup(email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{"email": email, "password": "password1"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	var s struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &s))
	require.NotEmpty(a.t, s.Token)
	return s.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
