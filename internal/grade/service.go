package grade

import (
	"context"
	"fmt"
	"log"

	"github.com/classdesk/organization-service/internal/messaging"
	"github.com/classdesk/organization-service/internal/pagination"
)

// AdminChecker answers whether a user administers the main organization.
// Satisfied by the organization service.
type AdminChecker interface {
	IsMainOrgAdmin(ctx context.Context, userID string) (bool, error)
}

// Service implements grade master-data CRUD. Reads are open to any
// authenticated user; writes require main-org admin rights.
type Service struct {
	repo      RepositoryInterface
	admins    AdminChecker
	publisher messaging.PublisherInterface
}

func NewService(repo RepositoryInterface, admins AdminChecker, publisher messaging.PublisherInterface) *Service {
	return &Service{repo: repo, admins: admins, publisher: publisher}
}

func (s *Service) CreateGrade(ctx context.Context, actorID string, req CreateGradeRequest) (*Grade, error) {
	if req.Name == "" {
		return nil, ErrMissingName
	}
	if err := s.requireMainOrgAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	g, err := s.repo.CreateGrade(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create grade: %w", err)
	}

	s.publish(ctx, messaging.EventGradeCreated, messaging.NewGradeEvent(messaging.EventGradeCreated, g.ID, g.Name, actorID))
	return g, nil
}

func (s *Service) GetGrade(ctx context.Context, id string) (*Grade, error) {
	return s.repo.GetGrade(ctx, id)
}

func (s *Service) ListGrades(ctx context.Context, params pagination.Params) (*PaginatedListResponse, error) {
	params.Validate()

	grades, totalCount, err := s.repo.ListGradesWithPagination(ctx, params.Limit, params.CalculateOffset(), params.Search)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	return &PaginatedListResponse{
		Success:    true,
		Grades:     grades,
		Pagination: params.CalculateMeta(totalCount),
	}, nil
}

func (s *Service) UpdateGrade(ctx context.Context, actorID, id string, req UpdateGradeRequest) (*Grade, error) {
	if err := s.requireMainOrgAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	g, err := s.repo.UpdateGrade(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.EventGradeUpdated, messaging.NewGradeEvent(messaging.EventGradeUpdated, g.ID, g.Name, actorID))
	return g, nil
}

func (s *Service) DeleteGrade(ctx context.Context, actorID, id string) error {
	if err := s.requireMainOrgAdmin(ctx, actorID); err != nil {
		return err
	}

	g, err := s.repo.GetGrade(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteGrade(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventGradeDeleted, messaging.NewGradeEvent(messaging.EventGradeDeleted, g.ID, g.Name, actorID))
	return nil
}

func (s *Service) requireMainOrgAdmin(ctx context.Context, actorID string) error {
	isAdmin, err := s.admins.IsMainOrgAdmin(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to check main organization admin: %w", err)
	}
	if !isAdmin {
		return ErrForbidden
	}
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
