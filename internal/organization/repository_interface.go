package organization

import "context"

// RepositoryInterface defines the contract for organization data access
type RepositoryInterface interface {
	CreateOrganization(ctx context.Context, name, slug string, parentOrgID *string, creatorUserID string) (*Organization, *Member, error)
	GetOrganization(ctx context.Context, id string) (*Organization, error)
	GetMainOrganization(ctx context.Context) (*Organization, error)
	ListChildOrganizations(ctx context.Context, parentID string) ([]Organization, error)
	CountChildOrganizations(ctx context.Context, parentID string) (int, error)
	ListOrganizationMembers(ctx context.Context, orgID string) ([]Member, error)
	GetMembership(ctx context.Context, orgID, userID string) (*Member, error)
	GetMember(ctx context.Context, memberID string) (*Member, error)
	ListUserMemberships(ctx context.Context, userID string) ([]Member, error)
	CountAdmins(ctx context.Context, orgID string) (int, error)
	InsertMember(ctx context.Context, orgID, userID string, role Role) (*Member, error)
	UpdateMemberRole(ctx context.Context, memberID string, role Role) error
	DeleteMember(ctx context.Context, memberID string) error
	DeleteOrganizationCascade(ctx context.Context, orgID string) (int, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
