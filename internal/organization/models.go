package organization

import (
	"strings"
	"time"
)

// Role is the membership role within an organization.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is one of the two supported roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Organization is a node in the two-level hierarchy. The single organization
// with a nil ParentOrgID is the main organization; every other organization
// has the main organization as its parent.
type Organization struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	ParentOrgID *string   `json:"parent_org_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsMain reports whether the organization is the hierarchy root.
func (o *Organization) IsMain() bool {
	return o.ParentOrgID == nil
}

// Member associates one user with one organization and a role.
type Member struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrganizationDetail is an organization together with its member list.
type OrganizationDetail struct {
	Organization
	Members []Member `json:"members"`
}

// Directory is the full organization tree: the main organization (if any)
// and all child organizations, each with their members.
type Directory struct {
	MainOrg   *OrganizationDetail  `json:"main_org"`
	ChildOrgs []OrganizationDetail `json:"child_orgs"`
}

// PrimaryOrganization is the single organization selected as a user's
// default context when they hold several memberships.
type PrimaryOrganization struct {
	Organization OrganizationDetail `json:"organization"`
	Role         Role               `json:"role"`
	IsMainOrg    bool               `json:"is_main_org"`
	IsChildOrg   bool               `json:"is_child_org"`
}

// Permissions reports what the acting user may do with one organization.
type Permissions struct {
	IsAdmin       bool `json:"is_admin"`
	CanManage     bool `json:"can_manage"`
	CanAddMembers bool `json:"can_add_members"`
}

// CreateOrganizationRequest is the payload for creating an organization.
type CreateOrganizationRequest struct {
	Name string `json:"name"`
}

// AddMemberRequest is the payload for adding a member to an organization.
type AddMemberRequest struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// UpdateMemberRoleRequest is the payload for changing a member's role.
type UpdateMemberRoleRequest struct {
	Role Role `json:"role"`
}

// Slugify derives a URL-safe slug from an organization name: lowercase,
// runs of whitespace collapsed to single hyphens. Slugs are display
// identifiers and are not required to be unique.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
