package http

import (
	"net/http"

	"healthsure/internal/delivery/http/handler"
	"healthsure/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router         *mux.Router
	patientHandler *handler.PatientHandler
	policyHandler  *handler.PolicyHandler
	statsHandler   *handler.StatsHandler
	corsMiddleware *middleware.CORSMiddleware
	uploadDir      string
	staticDir      string
}

func NewRouter(
	patientHandler *handler.PatientHandler,
	policyHandler *handler.PolicyHandler,
	statsHandler *handler.StatsHandler,
	corsMiddleware *middleware.CORSMiddleware,
	uploadDir string,
	staticDir string,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		patientHandler: patientHandler,
		policyHandler:  policyHandler,
		statsHandler:   statsHandler,
		corsMiddleware: corsMiddleware,
		uploadDir:      uploadDir,
		staticDir:      staticDir,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Patients
	api.HandleFunc("/patients", r.patientHandler.GetPatients).Methods(http.MethodGet)
	api.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	api.HandleFunc("/patients/{patientId}/policies", r.policyHandler.GetPoliciesByPatient).Methods(http.MethodGet)

	// Policies
	api.HandleFunc("/policies", r.policyHandler.CreatePolicy).Methods(http.MethodPost)
	api.HandleFunc("/policies/{policyNo}/renew", r.policyHandler.RenewPolicy).Methods(http.MethodPut)
	api.HandleFunc("/policies/{policyNo}/cancel", r.policyHandler.CancelPolicy).Methods(http.MethodPut)
	api.HandleFunc("/policies/{policyNo}/events", r.policyHandler.GetPolicyEvents).Methods(http.MethodGet)

	// Dashboard
	api.HandleFunc("/policy-stats", r.statsHandler.GetPolicyStats).Methods(http.MethodGet)

	// Uploaded patient photos
	r.router.PathPrefix("/uploads/patients/").Handler(
		http.StripPrefix("/uploads/patients/", http.FileServer(http.Dir(r.uploadDir))))

	// Static frontend
	r.router.PathPrefix("/").Handler(http.FileServer(http.Dir(r.staticDir)))

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
