//go:build integration

package organization

import (
	"context"
	"errors"
	"testing"

	"github.com/classdesk/organization-service/internal/testutil"
)

// These tests run against a real Postgres with migrations applied, so the
// unique indexes actually fire. Guarded by TEST_DATABASE_URL.

func TestIntegrationMainOrganizationUniqueness(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db)
	ctx := context.Background()

	if _, _, err := repo.CreateOrganization(ctx, "Acme", "acme", nil, "user-a"); err != nil {
		t.Fatalf("First main organization failed: %v", err)
	}

	_, _, err := repo.CreateOrganization(ctx, "Other", "other", nil, "user-b")
	if !errors.Is(err, ErrMainOrgExists) {
		t.Errorf("Expected ErrMainOrgExists from the partial unique index, got %v", err)
	}
}

func TestIntegrationMembershipUniqueness(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db)
	ctx := context.Background()

	org, _, err := repo.CreateOrganization(ctx, "Acme", "acme", nil, "user-a")
	if err != nil {
		t.Fatalf("Organization creation failed: %v", err)
	}

	if _, err := repo.InsertMember(ctx, org.ID, "user-x", RoleMember); err != nil {
		t.Fatalf("First membership failed: %v", err)
	}
	_, err = repo.InsertMember(ctx, org.ID, "user-x", RoleAdmin)
	if !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("Expected ErrAlreadyMember from the unique index, got %v", err)
	}
}

func TestIntegrationCascadeDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db)
	ctx := context.Background()

	mainOrg, _, err := repo.CreateOrganization(ctx, "Acme", "acme", nil, "user-a")
	if err != nil {
		t.Fatalf("Main organization creation failed: %v", err)
	}
	child, _, err := repo.CreateOrganization(ctx, "East", "east", &mainOrg.ID, "user-a")
	if err != nil {
		t.Fatalf("Child organization creation failed: %v", err)
	}
	if _, err := repo.InsertMember(ctx, child.ID, "user-x", RoleMember); err != nil {
		t.Fatalf("Membership creation failed: %v", err)
	}

	removed, err := repo.DeleteOrganizationCascade(ctx, child.ID)
	if err != nil {
		t.Fatalf("Cascade delete failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 memberships removed, got %d", removed)
	}

	if _, err := repo.GetOrganization(ctx, child.ID); !errors.Is(err, ErrOrgNotFound) {
		t.Errorf("Expected organization to be gone, got %v", err)
	}
	members, err := repo.ListOrganizationMembers(ctx, child.ID)
	if err != nil {
		t.Fatalf("ListOrganizationMembers failed: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("Expected no memberships left, got %d", len(members))
	}
}
