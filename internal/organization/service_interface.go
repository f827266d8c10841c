package organization

import "context"

// ServiceInterface defines the contract for organization business logic
type ServiceInterface interface {
	IsAdmin(ctx context.Context, orgID, userID string) (bool, error)
	IsMainOrgAdmin(ctx context.Context, userID string) (bool, error)
	CanManage(ctx context.Context, orgID, userID string) (bool, error)
	CanAddMembers(ctx context.Context, orgID, userID string) (bool, error)
	Permissions(ctx context.Context, orgID, userID string) (*Permissions, error)
	ResolvePrimaryOrganization(ctx context.Context, userID string) (*PrimaryOrganization, error)
	CreateMainOrganization(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error)
	CreateChildOrganization(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error)
	ListOrganizations(ctx context.Context) (*Directory, error)
	AddMember(ctx context.Context, actorID, orgID string, req AddMemberRequest) (*Member, error)
	RemoveMember(ctx context.Context, actorID, orgID, memberID string) error
	UpdateMemberRole(ctx context.Context, actorID, orgID, memberID string, req UpdateMemberRoleRequest) error
	DeleteOrganization(ctx context.Context, actorID, orgID string) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
