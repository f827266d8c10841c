package organization

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// CleanupService removes orphaned membership rows: memberships whose
// organization no longer exists. Cascade deletion is transactional, so
// orphans only appear from data imported before the schema constraints
// existed or from manual intervention; the sweep keeps primary-organization
// resolution from carrying dead candidates.
type CleanupService struct {
	db *sql.DB
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(db *sql.DB) *CleanupService {
	return &CleanupService{db: db}
}

// CountOrphanedMemberships returns how many memberships reference a missing
// organization.
func (s *CleanupService) CountOrphanedMemberships(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM classdesk.members m
		WHERE NOT EXISTS (
			SELECT 1 FROM classdesk.organizations o WHERE o.id = m.organization_id
		)
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orphaned memberships: %w", err)
	}
	return count, nil
}

// CleanupOrphanedMemberships deletes memberships whose organization is gone
// and returns the number removed.
func (s *CleanupService) CleanupOrphanedMemberships(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM classdesk.members m
		WHERE NOT EXISTS (
			SELECT 1 FROM classdesk.organizations o WHERE o.id = m.organization_id
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned memberships: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows > 0 {
		log.Printf("Removed %d orphaned memberships", rows)
	}
	return int(rows), nil
}
