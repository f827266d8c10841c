package organization

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/classdesk/organization-service/internal/auth"
	"github.com/gorilla/mux"
)

// mockService implements ServiceInterface with overridable function fields
type mockService struct {
	isAdminFunc            func(ctx context.Context, orgID, userID string) (bool, error)
	isMainOrgAdminFunc     func(ctx context.Context, userID string) (bool, error)
	canManageFunc          func(ctx context.Context, orgID, userID string) (bool, error)
	canAddMembersFunc      func(ctx context.Context, orgID, userID string) (bool, error)
	permissionsFunc        func(ctx context.Context, orgID, userID string) (*Permissions, error)
	resolvePrimaryFunc     func(ctx context.Context, userID string) (*PrimaryOrganization, error)
	createMainOrgFunc      func(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error)
	createChildOrgFunc     func(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error)
	listOrganizationsFunc  func(ctx context.Context) (*Directory, error)
	addMemberFunc          func(ctx context.Context, actorID, orgID string, req AddMemberRequest) (*Member, error)
	removeMemberFunc       func(ctx context.Context, actorID, orgID, memberID string) error
	updateMemberRoleFunc   func(ctx context.Context, actorID, orgID, memberID string, req UpdateMemberRoleRequest) error
	deleteOrganizationFunc func(ctx context.Context, actorID, orgID string) error
}

func (m *mockService) IsAdmin(ctx context.Context, orgID, userID string) (bool, error) {
	return m.isAdminFunc(ctx, orgID, userID)
}

func (m *mockService) IsMainOrgAdmin(ctx context.Context, userID string) (bool, error) {
	return m.isMainOrgAdminFunc(ctx, userID)
}

func (m *mockService) CanManage(ctx context.Context, orgID, userID string) (bool, error) {
	return m.canManageFunc(ctx, orgID, userID)
}

func (m *mockService) CanAddMembers(ctx context.Context, orgID, userID string) (bool, error) {
	return m.canAddMembersFunc(ctx, orgID, userID)
}

func (m *mockService) Permissions(ctx context.Context, orgID, userID string) (*Permissions, error) {
	return m.permissionsFunc(ctx, orgID, userID)
}

func (m *mockService) ResolvePrimaryOrganization(ctx context.Context, userID string) (*PrimaryOrganization, error) {
	return m.resolvePrimaryFunc(ctx, userID)
}

func (m *mockService) CreateMainOrganization(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error) {
	return m.createMainOrgFunc(ctx, actorID, req)
}

func (m *mockService) CreateChildOrganization(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error) {
	return m.createChildOrgFunc(ctx, actorID, req)
}

func (m *mockService) ListOrganizations(ctx context.Context) (*Directory, error) {
	return m.listOrganizationsFunc(ctx)
}

func (m *mockService) AddMember(ctx context.Context, actorID, orgID string, req AddMemberRequest) (*Member, error) {
	return m.addMemberFunc(ctx, actorID, orgID, req)
}

func (m *mockService) RemoveMember(ctx context.Context, actorID, orgID, memberID string) error {
	return m.removeMemberFunc(ctx, actorID, orgID, memberID)
}

func (m *mockService) UpdateMemberRole(ctx context.Context, actorID, orgID, memberID string, req UpdateMemberRoleRequest) error {
	return m.updateMemberRoleFunc(ctx, actorID, orgID, memberID, req)
}

func (m *mockService) DeleteOrganization(ctx context.Context, actorID, orgID string) error {
	return m.deleteOrganizationFunc(ctx, actorID, orgID)
}

var _ ServiceInterface = (*mockService)(nil)

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := auth.ContextWithPrincipal(req.Context(), &auth.Principal{UserID: userID})
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp
}

func TestCreateMainOrganizationHandler_Success(t *testing.T) {
	service := &mockService{
		createMainOrgFunc: func(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error) {
			if actorID != "user-a" {
				t.Errorf("Expected actor user-a, got %s", actorID)
			}
			return &OrganizationDetail{
				Organization: Organization{ID: "org-1", Name: req.Name, Slug: Slugify(req.Name)},
			}, nil
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(CreateOrganizationRequest{Name: "Acme Corp"})
	req := authedRequest(http.MethodPost, "/organizations", body, "user-a")
	rec := httptest.NewRecorder()

	handler.CreateMainOrganization(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}
	var resp OrganizationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success || resp.Organization == nil || resp.Organization.ID != "org-1" {
		t.Errorf("Unexpected response: %+v", resp)
	}
}

func TestCreateMainOrganizationHandler_Unauthenticated(t *testing.T) {
	handler := NewHandler(&mockService{})

	body, _ := json.Marshal(CreateOrganizationRequest{Name: "Acme"})
	req := httptest.NewRequest(http.MethodPost, "/organizations", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.CreateMainOrganization(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "unauthenticated" {
		t.Errorf("Expected error 'unauthenticated', got '%s'", resp.Error)
	}
}

func TestCreateMainOrganizationHandler_InvalidJSON(t *testing.T) {
	handler := NewHandler(&mockService{})

	req := authedRequest(http.MethodPost, "/organizations", []byte("{not json"), "user-a")
	rec := httptest.NewRecorder()

	handler.CreateMainOrganization(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateMainOrganizationHandler_Conflict(t *testing.T) {
	service := &mockService{
		createMainOrgFunc: func(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error) {
			return nil, ErrMainOrgExists
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(CreateOrganizationRequest{Name: "Acme"})
	req := authedRequest(http.MethodPost, "/organizations", body, "user-a")
	rec := httptest.NewRecorder()

	handler.CreateMainOrganization(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "conflict" {
		t.Errorf("Expected error 'conflict', got '%s'", resp.Error)
	}
}

func TestCreateChildOrganizationHandler_Forbidden(t *testing.T) {
	service := &mockService{
		createChildOrgFunc: func(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error) {
			return nil, ErrNotMainOrgAdmin
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(CreateOrganizationRequest{Name: "East"})
	req := authedRequest(http.MethodPost, "/organizations/children", body, "user-b")
	rec := httptest.NewRecorder()

	handler.CreateChildOrganization(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Error != "forbidden" {
		t.Errorf("Expected error 'forbidden', got '%s'", resp.Error)
	}
}

func TestCreateChildOrganizationHandler_NoMainOrg(t *testing.T) {
	service := &mockService{
		createChildOrgFunc: func(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error) {
			return nil, ErrMainOrgMissing
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(CreateOrganizationRequest{Name: "East"})
	req := authedRequest(http.MethodPost, "/organizations/children", body, "user-a")
	rec := httptest.NewRecorder()

	handler.CreateChildOrganization(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestListOrganizationsHandler(t *testing.T) {
	service := &mockService{
		listOrganizationsFunc: func(ctx context.Context) (*Directory, error) {
			return &Directory{
				MainOrg: &OrganizationDetail{Organization: Organization{ID: "org-1", Name: "Acme"}},
				ChildOrgs: []OrganizationDetail{
					{Organization: Organization{ID: "org-2", Name: "East"}},
				},
			}, nil
		},
	}
	handler := NewHandler(service)

	req := authedRequest(http.MethodGet, "/organizations", nil, "user-a")
	rec := httptest.NewRecorder()

	handler.ListOrganizations(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	var dir Directory
	if err := json.NewDecoder(rec.Body).Decode(&dir); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if dir.MainOrg == nil || len(dir.ChildOrgs) != 1 {
		t.Errorf("Unexpected directory: %+v", dir)
	}
}

func TestGetPrimaryOrganizationHandler_NoMemberships(t *testing.T) {
	service := &mockService{
		resolvePrimaryFunc: func(ctx context.Context, userID string) (*PrimaryOrganization, error) {
			return nil, nil
		},
	}
	handler := NewHandler(service)

	req := authedRequest(http.MethodGet, "/organizations/primary", nil, "user-a")
	rec := httptest.NewRecorder()

	handler.GetPrimaryOrganization(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	var resp PrimaryOrgResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Primary != nil {
		t.Errorf("Expected null primary, got %+v", resp.Primary)
	}
}

func TestGetPermissionsHandler(t *testing.T) {
	service := &mockService{
		permissionsFunc: func(ctx context.Context, orgID, userID string) (*Permissions, error) {
			if orgID != "org-7" {
				t.Errorf("Expected org-7, got %s", orgID)
			}
			return &Permissions{IsAdmin: true, CanManage: true, CanAddMembers: true}, nil
		},
	}
	handler := NewHandler(service)

	req := authedRequest(http.MethodGet, "/organizations/org-7/permissions", nil, "user-a")
	req = mux.SetURLVars(req, map[string]string{"id": "org-7"})
	rec := httptest.NewRecorder()

	handler.GetPermissions(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}
	var perms Permissions
	if err := json.NewDecoder(rec.Body).Decode(&perms); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !perms.IsAdmin {
		t.Errorf("Unexpected permissions: %+v", perms)
	}
}

func TestAddMemberHandler_Success(t *testing.T) {
	service := &mockService{
		addMemberFunc: func(ctx context.Context, actorID, orgID string, req AddMemberRequest) (*Member, error) {
			return &Member{ID: "mem-1", OrganizationID: orgID, UserID: req.UserID, Role: req.Role}, nil
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(AddMemberRequest{UserID: "user-x", Role: RoleMember})
	req := authedRequest(http.MethodPost, "/organizations/org-1/members", body, "admin")
	req = mux.SetURLVars(req, map[string]string{"id": "org-1"})
	rec := httptest.NewRecorder()

	handler.AddMember(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}
}

func TestAddMemberHandler_MissingUserID(t *testing.T) {
	handler := NewHandler(&mockService{})

	body, _ := json.Marshal(AddMemberRequest{Role: RoleMember})
	req := authedRequest(http.MethodPost, "/organizations/org-1/members", body, "admin")
	req = mux.SetURLVars(req, map[string]string{"id": "org-1"})
	rec := httptest.NewRecorder()

	handler.AddMember(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAddMemberHandler_Duplicate(t *testing.T) {
	service := &mockService{
		addMemberFunc: func(ctx context.Context, actorID, orgID string, req AddMemberRequest) (*Member, error) {
			return nil, ErrAlreadyMember
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(AddMemberRequest{UserID: "user-x", Role: RoleMember})
	req := authedRequest(http.MethodPost, "/organizations/org-1/members", body, "admin")
	req = mux.SetURLVars(req, map[string]string{"id": "org-1"})
	rec := httptest.NewRecorder()

	handler.AddMember(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestUpdateMemberRoleHandler_LastAdminDemotion(t *testing.T) {
	service := &mockService{
		updateMemberRoleFunc: func(ctx context.Context, actorID, orgID, memberID string, req UpdateMemberRoleRequest) error {
			return ErrLastAdminDemotion
		},
	}
	handler := NewHandler(service)

	body, _ := json.Marshal(UpdateMemberRoleRequest{Role: RoleMember})
	req := authedRequest(http.MethodPatch, "/organizations/org-1/members/mem-1", body, "admin")
	req = mux.SetURLVars(req, map[string]string{"id": "org-1", "memberId": "mem-1"})
	rec := httptest.NewRecorder()

	handler.UpdateMemberRole(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestRemoveMemberHandler_Success(t *testing.T) {
	var gotOrgID, gotMemberID string
	service := &mockService{
		removeMemberFunc: func(ctx context.Context, actorID, orgID, memberID string) error {
			gotOrgID, gotMemberID = orgID, memberID
			return nil
		},
	}
	handler := NewHandler(service)

	req := authedRequest(http.MethodDelete, "/organizations/org-1/members/mem-2", nil, "admin")
	req = mux.SetURLVars(req, map[string]string{"id": "org-1", "memberId": "mem-2"})
	rec := httptest.NewRecorder()

	handler.RemoveMember(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if gotOrgID != "org-1" || gotMemberID != "mem-2" {
		t.Errorf("Expected org-1/mem-2, got %s/%s", gotOrgID, gotMemberID)
	}
}

func TestRemoveMemberHandler_NotFound(t *testing.T) {
	service := &mockService{
		removeMemberFunc: func(ctx context.Context, actorID, orgID, memberID string) error {
			return ErrMemberNotFound
		},
	}
	handler := NewHandler(service)

	req := authedRequest(http.MethodDelete, "/organizations/org-1/members/mem-9", nil, "admin")
	req = mux.SetURLVars(req, map[string]string{"id": "org-1", "memberId": "mem-9"})
	rec := httptest.NewRecorder()

	handler.RemoveMember(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestDeleteOrganizationHandler_Success(t *testing.T) {
	service := &mockService{
		deleteOrganizationFunc: func(ctx context.Context, actorID, orgID string) error {
			return nil
		},
	}
	handler := NewHandler(service)

	req := authedRequest(http.MethodDelete, "/organizations/org-2", nil, "admin")
	req = mux.SetURLVars(req, map[string]string{"id": "org-2"})
	rec := httptest.NewRecorder()

	handler.DeleteOrganization(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestDeleteOrganizationHandler_HasChildren(t *testing.T) {
	service := &mockService{
		deleteOrganizationFunc: func(ctx context.Context, actorID, orgID string) error {
			return ErrHasChildOrgs
		},
	}
	handler := NewHandler(service)

	req := authedRequest(http.MethodDelete, "/organizations/org-1", nil, "admin")
	req = mux.SetURLVars(req, map[string]string{"id": "org-1"})
	rec := httptest.NewRecorder()

	handler.DeleteOrganization(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}
