package http

import (
	"database/sql"
	"net/http"

	"github.com/classdesk/organization-service/internal/auth"
	"github.com/classdesk/organization-service/internal/grade"
	"github.com/classdesk/organization-service/internal/messaging"
	"github.com/classdesk/organization-service/internal/organization"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// SetupRouter initializes all routes for the application
func SetupRouter(db *sql.DB, verifier *auth.Verifier, publisher messaging.PublisherInterface, metrics auth.MetricsRecorder) *mux.Router {
	orgRepo := organization.NewRepository(db)
	orgService := organization.NewService(orgRepo, publisher)
	orgHandler := organization.NewHandler(orgService)

	gradeRepo := grade.NewRepository(db)
	gradeService := grade.NewService(gradeRepo, orgService, publisher)
	gradeHandler := grade.NewHandler(gradeService)

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("organization-service"))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"organization-service"}`))
	}).Methods("GET")

	authenticated := auth.MiddlewareWithMetrics(verifier, metrics)

	// Organization routes. Every authorization decision beyond "is there a
	// valid token" is membership-based and lives in the organization service.
	r.Handle("/organizations", authenticated(http.HandlerFunc(orgHandler.CreateMainOrganization))).Methods("POST")
	r.Handle("/organizations", authenticated(http.HandlerFunc(orgHandler.ListOrganizations))).Methods("GET")
	r.Handle("/organizations/children", authenticated(http.HandlerFunc(orgHandler.CreateChildOrganization))).Methods("POST")
	r.Handle("/organizations/primary", authenticated(http.HandlerFunc(orgHandler.GetPrimaryOrganization))).Methods("GET")
	r.Handle("/organizations/{id}/permissions", authenticated(http.HandlerFunc(orgHandler.GetPermissions))).Methods("GET")
	r.Handle("/organizations/{id}/members", authenticated(http.HandlerFunc(orgHandler.AddMember))).Methods("POST")
	r.Handle("/organizations/{id}/members/{memberId}", authenticated(http.HandlerFunc(orgHandler.UpdateMemberRole))).Methods("PATCH")
	r.Handle("/organizations/{id}/members/{memberId}", authenticated(http.HandlerFunc(orgHandler.RemoveMember))).Methods("DELETE")
	r.Handle("/organizations/{id}", authenticated(http.HandlerFunc(orgHandler.DeleteOrganization))).Methods("DELETE")

	// Grade master-data routes
	r.Handle("/grades", authenticated(http.HandlerFunc(gradeHandler.CreateGrade))).Methods("POST")
	r.Handle("/grades", authenticated(http.HandlerFunc(gradeHandler.ListGrades))).Methods("GET")
	r.Handle("/grades/{id}", authenticated(http.HandlerFunc(gradeHandler.GetGrade))).Methods("GET")
	r.Handle("/grades/{id}", authenticated(http.HandlerFunc(gradeHandler.UpdateGrade))).Methods("PUT")
	r.Handle("/grades/{id}", authenticated(http.HandlerFunc(gradeHandler.DeleteGrade))).Methods("DELETE")

	return r
}
