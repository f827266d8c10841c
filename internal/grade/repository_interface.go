package grade

import "context"

// RepositoryInterface defines the contract for grade data access
type RepositoryInterface interface {
	CreateGrade(ctx context.Context, req CreateGradeRequest) (*Grade, error)
	GetGrade(ctx context.Context, id string) (*Grade, error)
	ListGradesWithPagination(ctx context.Context, limit, offset int, search string) ([]Grade, int, error)
	UpdateGrade(ctx context.Context, id string, req UpdateGradeRequest) (*Grade, error)
	DeleteGrade(ctx context.Context, id string) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
