package grade

import (
	"time"

	"github.com/classdesk/organization-service/internal/pagination"
)

// Grade is a master-data record, global to all organizations.
type Grade struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateGradeRequest is the payload for creating a grade.
type CreateGradeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateGradeRequest carries optional field updates; nil means unchanged.
type UpdateGradeRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// PaginatedListResponse is the paginated grade listing.
type PaginatedListResponse struct {
	Success    bool            `json:"success"`
	Grades     []Grade         `json:"grades"`
	Pagination pagination.Meta `json:"pagination"`
}
