package grade

import (
	"context"

	"github.com/classdesk/organization-service/internal/pagination"
)

// ServiceInterface defines the contract for grade business logic
type ServiceInterface interface {
	CreateGrade(ctx context.Context, actorID string, req CreateGradeRequest) (*Grade, error)
	GetGrade(ctx context.Context, id string) (*Grade, error)
	ListGrades(ctx context.Context, params pagination.Params) (*PaginatedListResponse, error)
	UpdateGrade(ctx context.Context, actorID, id string, req UpdateGradeRequest) (*Grade, error)
	DeleteGrade(ctx context.Context, actorID, id string) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
