package api

import (
	"net/http"

	"github.com/garnizeh/jobtracker/internal/identity"
	"github.com/gorilla/mux"
)

// Deps are the collaborators the router wires into its handlers.
type Deps struct {
	Version   string
	BuildTime string
	Identity  identity.Provider
	Tracker   Tracker
	Validator BodyValidator
	Readiness Readiness
}

func SetupRoutes(d Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := NewSystemHandler(d.Readiness)
	authHandler := NewAuthHandler(d.Identity, d.Validator)
	profileHandler := NewProfileHandler(d.Tracker, d.Validator)
	jobsHandler := NewJobsHandler(d.Tracker, d.Validator)

	// Preflight for any path. A matcher func rather than Methods() so other
	// methods on unknown paths still get 404 instead of 405. The no-op handler
	// is never reached: CORSMiddleware answers OPTIONS itself.
	r.MatcherFunc(isPreflight).HandlerFunc(func(http.ResponseWriter, *http.Request) {})
	r.MethodNotAllowedHandler = CORSMiddleware(http.HandlerFunc(methodNotAllowed))

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(d.Version, d.BuildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/ready", systemHandler.ReadyHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")
	r.HandleFunc("/v1/statuses", ListStatuses).Methods("GET")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(AuthMiddleware(d.Identity))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Profile endpoints
	apiV1.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")
	apiV1.HandleFunc("/profile", profileHandler.UpdateProfile).Methods("PATCH")
	apiV1.HandleFunc("/profile", authHandler.DeleteAccount).Methods("DELETE")

	// Jobs endpoints; /board before /{id}
	apiV1.HandleFunc("/jobs", jobsHandler.ListJobs).Methods("GET")
	apiV1.HandleFunc("/jobs", jobsHandler.CreateJob).Methods("POST")
	apiV1.HandleFunc("/jobs/board", jobsHandler.Board).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.GetJob).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.UpdateJob).Methods("PATCH")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.DeleteJob).Methods("DELETE")
	apiV1.HandleFunc("/jobs/{id}/status", jobsHandler.UpdateStatus).Methods("PATCH")

	return r
}

func isPreflight(r *http.Request, _ *mux.RouteMatch) bool {
	return r.Method == http.MethodOptions
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}
