package organization

import (
	"encoding/json"
	"net/http"

	"github.com/classdesk/organization-service/internal/auth"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type OrganizationResponse struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message,omitempty"`
	Organization *OrganizationDetail `json:"organization,omitempty"`
}

type MemberResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Member  *Member `json:"member,omitempty"`
}

type PrimaryOrgResponse struct {
	Success bool                 `json:"success"`
	Primary *PrimaryOrganization `json:"primary"`
}

// CreateMainOrganization handles POST /organizations
func (h *Handler) CreateMainOrganization(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	org, err := h.service.CreateMainOrganization(r.Context(), principal.UserID, req)
	if err != nil {
		respondServiceError(w, err, "creation_failed")
		return
	}

	respondJSON(w, http.StatusCreated, OrganizationResponse{
		Success:      true,
		Message:      "Main organization created successfully",
		Organization: org,
	})
}

// CreateChildOrganization handles POST /organizations/children
func (h *Handler) CreateChildOrganization(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req CreateOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	org, err := h.service.CreateChildOrganization(r.Context(), principal.UserID, req)
	if err != nil {
		respondServiceError(w, err, "creation_failed")
		return
	}

	respondJSON(w, http.StatusCreated, OrganizationResponse{
		Success:      true,
		Message:      "Child organization created successfully",
		Organization: org,
	})
}

// ListOrganizations handles GET /organizations
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.FromContext(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	dir, err := h.service.ListOrganizations(r.Context())
	if err != nil {
		respondServiceError(w, err, "fetch_failed")
		return
	}

	respondJSON(w, http.StatusOK, dir)
}

// GetPrimaryOrganization handles GET /organizations/primary
func (h *Handler) GetPrimaryOrganization(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	primary, err := h.service.ResolvePrimaryOrganization(r.Context(), principal.UserID)
	if err != nil {
		respondServiceError(w, err, "fetch_failed")
		return
	}

	respondJSON(w, http.StatusOK, PrimaryOrgResponse{Success: true, Primary: primary})
}

// GetPermissions handles GET /organizations/{id}/permissions
func (h *Handler) GetPermissions(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	orgID := mux.Vars(r)["id"]
	perms, err := h.service.Permissions(r.Context(), orgID, principal.UserID)
	if err != nil {
		respondServiceError(w, err, "fetch_failed")
		return
	}

	respondJSON(w, http.StatusOK, perms)
}

// AddMember handles POST /organizations/{id}/members
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if req.UserID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "User ID is required")
		return
	}

	orgID := mux.Vars(r)["id"]
	member, err := h.service.AddMember(r.Context(), principal.UserID, orgID, req)
	if err != nil {
		respondServiceError(w, err, "add_member_failed")
		return
	}

	respondJSON(w, http.StatusCreated, MemberResponse{
		Success: true,
		Message: "Member added successfully",
		Member:  member,
	})
}

// UpdateMemberRole handles PATCH /organizations/{id}/members/{memberId}
func (h *Handler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req UpdateMemberRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}

	vars := mux.Vars(r)
	err := h.service.UpdateMemberRole(r.Context(), principal.UserID, vars["id"], vars["memberId"], req)
	if err != nil {
		respondServiceError(w, err, "update_member_failed")
		return
	}

	respondJSON(w, http.StatusOK, MemberResponse{Success: true, Message: "Member role updated successfully"})
}

// RemoveMember handles DELETE /organizations/{id}/members/{memberId}
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	vars := mux.Vars(r)
	err := h.service.RemoveMember(r.Context(), principal.UserID, vars["id"], vars["memberId"])
	if err != nil {
		respondServiceError(w, err, "remove_member_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteOrganization handles DELETE /organizations/{id}
func (h *Handler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	orgID := mux.Vars(r)["id"]
	if err := h.service.DeleteOrganization(r.Context(), principal.UserID, orgID); err != nil {
		respondServiceError(w, err, "deletion_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: errorType, Message: message})
}

// respondServiceError maps the error taxonomy onto HTTP status codes:
// validation 400, forbidden 403, not-found 404, conflict 409, everything
// else 500.
func respondServiceError(w http.ResponseWriter, err error, fallbackType string) {
	switch {
	case IsValidation(err):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case IsForbidden(err):
		respondError(w, http.StatusForbidden, "forbidden", err.Error())
	case IsNotFound(err):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case IsConflict(err):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, fallbackType, err.Error())
	}
}
