package organization

import (
	"context"
	"fmt"
	"log"

	"github.com/classdesk/organization-service/internal/messaging"
)

// Service encodes the organization hierarchy semantics: who may manage an
// organization, who may add members, and which organization is a user's
// primary context. The acting user is always an explicit parameter; nothing
// here reads ambient identity.
type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface) *Service {
	return &Service{repo: repo, publisher: publisher}
}

// IsAdmin reports whether userID holds an ADMIN membership in orgID.
// This is the atomic primitive every other check composes.
func (s *Service) IsAdmin(ctx context.Context, orgID, userID string) (bool, error) {
	m, err := s.repo.GetMembership(ctx, orgID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check admin membership: %w", err)
	}
	return m != nil && m.Role == RoleAdmin, nil
}

// IsMainOrgAdmin reports whether userID is an admin of the main organization.
// False when no main organization exists.
func (s *Service) IsMainOrgAdmin(ctx context.Context, userID string) (bool, error) {
	mainOrg, err := s.repo.GetMainOrganization(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to look up main organization: %w", err)
	}
	if mainOrg == nil {
		return false, nil
	}
	return s.IsAdmin(ctx, mainOrg.ID, userID)
}

// CanManage reports whether userID may manage orgID: direct admin of the
// organization, or admin of the main organization. Main-org admins have
// implicit rights over every child.
func (s *Service) CanManage(ctx context.Context, orgID, userID string) (bool, error) {
	direct, err := s.IsAdmin(ctx, orgID, userID)
	if err != nil {
		return false, err
	}
	if direct {
		return true, nil
	}
	return s.IsMainOrgAdmin(ctx, userID)
}

// CanAddMembers reports whether userID may add members to orgID. For a child
// organization this is the same escalation as CanManage. For the main
// organization only its own admins qualify; there is nothing above it to
// inherit from.
func (s *Service) CanAddMembers(ctx context.Context, orgID, userID string) (bool, error) {
	org, err := s.repo.GetOrganization(ctx, orgID)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	if org.IsMain() {
		return s.IsAdmin(ctx, orgID, userID)
	}
	return s.CanManage(ctx, orgID, userID)
}

// Permissions evaluates all three checks for one organization at once, for
// the UI to decide which controls to show.
func (s *Service) Permissions(ctx context.Context, orgID, userID string) (*Permissions, error) {
	isAdmin, err := s.IsAdmin(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	canManage, err := s.CanManage(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	canAdd, err := s.CanAddMembers(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	return &Permissions{IsAdmin: isAdmin, CanManage: canManage, CanAddMembers: canAdd}, nil
}

// ResolvePrimaryOrganization selects the single organization presented as the
// user's default context, or nil when the user has no memberships.
//
// Precedence, first match wins:
//  1. admin of the main organization
//  2. member of the main organization
//  3. admin of a child organization
//  4. any membership in a child organization
//  5. the first remaining membership
//
// Memberships are evaluated in organization-id order, so ties among several
// child organizations resolve deterministically.
func (s *Service) ResolvePrimaryOrganization(ctx context.Context, userID string) (*PrimaryOrganization, error) {
	memberships, err := s.repo.ListUserMemberships(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return nil, nil
	}

	type candidate struct {
		org  *Organization
		role Role
	}
	var candidates []candidate
	for _, m := range memberships {
		org, err := s.repo.GetOrganization(ctx, m.OrganizationID)
		if err != nil {
			if IsNotFound(err) {
				// Dangling membership; the cleanup job sweeps these.
				continue
			}
			return nil, err
		}
		candidates = append(candidates, candidate{org: org, role: m.Role})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	pick := func(match func(candidate) bool) *candidate {
		for i := range candidates {
			if match(candidates[i]) {
				return &candidates[i]
			}
		}
		return nil
	}

	chosen := pick(func(c candidate) bool { return c.org.IsMain() && c.role == RoleAdmin })
	if chosen == nil {
		chosen = pick(func(c candidate) bool { return c.org.IsMain() && c.role == RoleMember })
	}
	if chosen == nil {
		chosen = pick(func(c candidate) bool { return !c.org.IsMain() && c.role == RoleAdmin })
	}
	if chosen == nil {
		chosen = pick(func(c candidate) bool { return !c.org.IsMain() })
	}
	if chosen == nil {
		chosen = &candidates[0]
	}

	members, err := s.repo.ListOrganizationMembers(ctx, chosen.org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization members: %w", err)
	}

	return &PrimaryOrganization{
		Organization: OrganizationDetail{Organization: *chosen.org, Members: members},
		Role:         chosen.role,
		IsMainOrg:    chosen.org.IsMain(),
		IsChildOrg:   !chosen.org.IsMain(),
	}, nil
}

// CreateMainOrganization creates the hierarchy root and makes the actor its
// first admin. Fails with ErrMainOrgExists when a root already exists; the
// partial unique index backs this check against concurrent creation.
func (s *Service) CreateMainOrganization(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}

	existing, err := s.repo.GetMainOrganization(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up main organization: %w", err)
	}
	if existing != nil {
		return nil, ErrMainOrgExists
	}

	org, member, err := s.repo.CreateOrganization(ctx, req.Name, Slugify(req.Name), nil, actorID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.EventOrganizationCreated, messaging.NewOrganizationCreatedEvent(org.ID, org.Name, org.Slug, nil, actorID))

	return &OrganizationDetail{Organization: *org, Members: []Member{*member}}, nil
}

// CreateChildOrganization creates an organization under the main organization.
// Only main-org admins may do this, and a main organization must exist.
func (s *Service) CreateChildOrganization(ctx context.Context, actorID string, req CreateOrganizationRequest) (*OrganizationDetail, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}

	mainOrg, err := s.repo.GetMainOrganization(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up main organization: %w", err)
	}
	if mainOrg == nil {
		return nil, ErrMainOrgMissing
	}

	isAdmin, err := s.IsAdmin(ctx, mainOrg.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		return nil, ErrNotMainOrgAdmin
	}

	org, member, err := s.repo.CreateOrganization(ctx, req.Name, Slugify(req.Name), &mainOrg.ID, actorID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.EventOrganizationCreated, messaging.NewOrganizationCreatedEvent(org.ID, org.Name, org.Slug, org.ParentOrgID, actorID))

	return &OrganizationDetail{Organization: *org, Members: []Member{*member}}, nil
}

// ListOrganizations returns the directory: the main organization and all
// children, each with its members.
func (s *Service) ListOrganizations(ctx context.Context) (*Directory, error) {
	dir := &Directory{ChildOrgs: []OrganizationDetail{}}

	mainOrg, err := s.repo.GetMainOrganization(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to look up main organization: %w", err)
	}
	if mainOrg == nil {
		return dir, nil
	}

	members, err := s.repo.ListOrganizationMembers(ctx, mainOrg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	dir.MainOrg = &OrganizationDetail{Organization: *mainOrg, Members: members}

	children, err := s.repo.ListChildOrganizations(ctx, mainOrg.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child organizations: %w", err)
	}
	for _, child := range children {
		members, err := s.repo.ListOrganizationMembers(ctx, child.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list members: %w", err)
		}
		dir.ChildOrgs = append(dir.ChildOrgs, OrganizationDetail{Organization: child, Members: members})
	}
	return dir, nil
}

// AddMember adds userID to an organization with the requested role. The actor
// must pass CanAddMembers; a duplicate membership is a conflict.
func (s *Service) AddMember(ctx context.Context, actorID, orgID string, req AddMemberRequest) (*Member, error) {
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if _, err := s.repo.GetOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	allowed, err := s.CanAddMembers(ctx, orgID, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrCannotAddMembers
	}

	existing, err := s.repo.GetMembership(ctx, orgID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	member, err := s.repo.InsertMember(ctx, orgID, req.UserID, req.Role)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.EventMemberAdded, messaging.NewMemberEvent(messaging.EventMemberAdded, member.ID, orgID, member.UserID, string(member.Role), actorID))

	return member, nil
}

// RemoveMember removes a membership from an organization. The actor must pass
// CanManage and the membership must belong to the stated organization. An
// actor removing their own membership is rejected when they are the sole
// admin; a different admin removing that same sole admin is not blocked.
func (s *Service) RemoveMember(ctx context.Context, actorID, orgID, memberID string) error {
	allowed, err := s.CanManage(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrCannotManageMembers
	}

	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to look up member: %w", err)
	}
	if member == nil || member.OrganizationID != orgID {
		return ErrMemberNotFound
	}

	if member.UserID == actorID && member.Role == RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx, orgID)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins == 1 {
			return ErrLastAdminRemoval
		}
	}

	if err := s.repo.DeleteMember(ctx, memberID); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventMemberRemoved, messaging.NewMemberEvent(messaging.EventMemberRemoved, memberID, orgID, member.UserID, string(member.Role), actorID))

	return nil
}

// UpdateMemberRole changes a member's role. Same actor and ownership checks
// as RemoveMember; an actor demoting themself from ADMIN while they are the
// sole admin is rejected.
func (s *Service) UpdateMemberRole(ctx context.Context, actorID, orgID, memberID string, req UpdateMemberRoleRequest) error {
	if !req.Role.Valid() {
		return ErrInvalidRole
	}

	allowed, err := s.CanManage(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrCannotManageMembers
	}

	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return fmt.Errorf("failed to look up member: %w", err)
	}
	if member == nil || member.OrganizationID != orgID {
		return ErrMemberNotFound
	}

	if member.UserID == actorID && member.Role == RoleAdmin && req.Role == RoleMember {
		admins, err := s.repo.CountAdmins(ctx, orgID)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins == 1 {
			return ErrLastAdminDemotion
		}
	}

	if err := s.repo.UpdateMemberRole(ctx, memberID, req.Role); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventMemberRoleChanged, messaging.NewMemberRoleChangedEvent(memberID, orgID, member.UserID, string(member.Role), string(req.Role), actorID))

	return nil
}

// DeleteOrganization removes an organization and all its memberships. The
// main organization can only be deleted by its own admins and only while it
// has no children; a child organization requires CanManage.
func (s *Service) DeleteOrganization(ctx context.Context, actorID, orgID string) error {
	org, err := s.repo.GetOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	if org.IsMain() {
		isAdmin, err := s.IsAdmin(ctx, orgID, actorID)
		if err != nil {
			return err
		}
		if !isAdmin {
			return ErrCannotDeleteMainOrg
		}
		children, err := s.repo.CountChildOrganizations(ctx, orgID)
		if err != nil {
			return fmt.Errorf("failed to count child organizations: %w", err)
		}
		if children > 0 {
			return ErrHasChildOrgs
		}
	} else {
		allowed, err := s.CanManage(ctx, orgID, actorID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrCannotDeleteOrg
		}
	}

	memberCount, err := s.repo.DeleteOrganizationCascade(ctx, orgID)
	if err != nil {
		return err
	}

	s.publish(ctx, messaging.EventOrganizationDeleted, messaging.NewOrganizationDeletedEvent(org.ID, org.Name, memberCount, actorID))

	return nil
}

func (s *Service) publish(ctx context.Context, routingKey string, event interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, event); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
