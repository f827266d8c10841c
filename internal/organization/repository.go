package organization

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Unique index names from migrations/001_init.sql. The partial index on
// parent_org_id IS NULL is what makes main-org creation race-free; the
// compound index does the same for duplicate memberships.
const (
	constraintOneMainOrg    = "organizations_one_main_idx"
	constraintMemberOrgUser = "members_org_user_idx"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const orgColumns = "id, name, slug, parent_org_id, created_at"

func scanOrganization(row interface{ Scan(...interface{}) error }) (*Organization, error) {
	var org Organization
	var parent sql.NullString
	if err := row.Scan(&org.ID, &org.Name, &org.Slug, &parent, &org.CreatedAt); err != nil {
		return nil, err
	}
	if parent.Valid {
		org.ParentOrgID = &parent.String
	}
	return &org, nil
}

// CreateOrganization inserts an organization and an ADMIN membership for the
// creator in a single transaction, so an organization can never exist without
// at least one admin.
func (r *Repository) CreateOrganization(ctx context.Context, name, slug string, parentOrgID *string, creatorUserID string) (*Organization, *Member, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	org := &Organization{
		ID:          uuid.New().String(),
		Name:        name,
		Slug:        slug,
		ParentOrgID: parentOrgID,
		CreatedAt:   now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO classdesk.organizations (id, name, slug, parent_org_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, org.ID, org.Name, org.Slug, org.ParentOrgID, org.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == constraintOneMainOrg {
			return nil, nil, ErrMainOrgExists
		}
		return nil, nil, fmt.Errorf("failed to insert organization: %w", err)
	}

	member := &Member{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		UserID:         creatorUserID,
		Role:           RoleAdmin,
		CreatedAt:      now,
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO classdesk.members (id, organization_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, member.ID, member.OrganizationID, member.UserID, member.Role, member.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return org, member, nil
}

// GetOrganization returns the organization or ErrOrgNotFound.
func (r *Repository) GetOrganization(ctx context.Context, id string) (*Organization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orgColumns+` FROM classdesk.organizations WHERE id = $1
	`, id)
	org, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return nil, ErrOrgNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query organization: %w", err)
	}
	return org, nil
}

// GetMainOrganization returns the organization with no parent, or (nil, nil)
// when none exists yet.
func (r *Repository) GetMainOrganization(ctx context.Context) (*Organization, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+orgColumns+` FROM classdesk.organizations WHERE parent_org_id IS NULL
	`)
	org, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query main organization: %w", err)
	}
	return org, nil
}

// ListChildOrganizations returns all organizations whose parent is parentID,
// ordered by id for stable output.
func (r *Repository) ListChildOrganizations(ctx context.Context, parentID string) ([]Organization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+orgColumns+` FROM classdesk.organizations
		WHERE parent_org_id = $1
		ORDER BY id
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query child organizations: %w", err)
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, *org)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}
	return orgs, nil
}

// CountChildOrganizations returns the number of children of parentID.
func (r *Repository) CountChildOrganizations(ctx context.Context, parentID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM classdesk.organizations WHERE parent_org_id = $1
	`, parentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count child organizations: %w", err)
	}
	return count, nil
}

const memberColumns = "id, organization_id, user_id, role, created_at"

func scanMember(row interface{ Scan(...interface{}) error }) (*Member, error) {
	var m Member
	if err := row.Scan(&m.ID, &m.OrganizationID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListOrganizationMembers returns all memberships of an organization.
func (r *Repository) ListOrganizationMembers(ctx context.Context, orgID string) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM classdesk.members
		WHERE organization_id = $1
		ORDER BY created_at
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}

// GetMembership returns the membership of userID in orgID, or (nil, nil)
// when the user does not belong to the organization.
func (r *Repository) GetMembership(ctx context.Context, orgID, userID string) (*Member, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+memberColumns+` FROM classdesk.members
		WHERE organization_id = $1 AND user_id = $2
	`, orgID, userID)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query membership: %w", err)
	}
	return m, nil
}

// GetMember returns a membership by id, or (nil, nil) when absent.
func (r *Repository) GetMember(ctx context.Context, memberID string) (*Member, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+memberColumns+` FROM classdesk.members WHERE id = $1
	`, memberID)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query member: %w", err)
	}
	return m, nil
}

// ListUserMemberships returns all memberships of a user across organizations,
// ordered by organization id so primary-organization resolution is stable.
func (r *Repository) ListUserMemberships(ctx context.Context, userID string) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+memberColumns+` FROM classdesk.members
		WHERE user_id = $1
		ORDER BY organization_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user memberships: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, *m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}
	return members, nil
}

// CountAdmins returns the number of ADMIN memberships in an organization.
func (r *Repository) CountAdmins(ctx context.Context, orgID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM classdesk.members
		WHERE organization_id = $1 AND role = 'ADMIN'
	`, orgID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

// InsertMember adds a membership. Returns ErrAlreadyMember on the unique
// (organization_id, user_id) index.
func (r *Repository) InsertMember(ctx context.Context, orgID, userID string, role Role) (*Member, error) {
	m := &Member{
		ID:             uuid.New().String(),
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		CreatedAt:      time.Now(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO classdesk.members (id, organization_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.OrganizationID, m.UserID, m.Role, m.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" && pqErr.Constraint == constraintMemberOrgUser {
			return nil, ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}
	return m, nil
}

// UpdateMemberRole patches a membership's role.
func (r *Repository) UpdateMemberRole(ctx context.Context, memberID string, role Role) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE classdesk.members SET role = $1 WHERE id = $2
	`, role, memberID)
	if err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// DeleteMember removes a membership.
func (r *Repository) DeleteMember(ctx context.Context, memberID string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM classdesk.members WHERE id = $1
	`, memberID)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// DeleteOrganizationCascade deletes all memberships of an organization and
// then the organization itself, in one transaction. Returns the number of
// memberships removed.
func (r *Repository) DeleteOrganizationCascade(ctx context.Context, orgID string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM classdesk.members WHERE organization_id = $1
	`, orgID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete members: %w", err)
	}
	memberCount, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	result, err = tx.ExecContext(ctx, `
		DELETE FROM classdesk.organizations WHERE id = $1
	`, orgID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete organization: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return 0, ErrOrgNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(memberCount), nil
}
