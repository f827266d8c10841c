package grade

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateGrade(ctx context.Context, req CreateGradeRequest) (*Grade, error) {
	now := time.Now()
	g := &Grade{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO classdesk.grades (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, g.ID, g.Name, g.Description, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert grade: %w", err)
	}
	return g, nil
}

func (r *Repository) GetGrade(ctx context.Context, id string) (*Grade, error) {
	var g Grade
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM classdesk.grades WHERE id = $1
	`, id).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrGradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query grade: %w", err)
	}
	return &g, nil
}

// ListGradesWithPagination retrieves grades with optional name search.
func (r *Repository) ListGradesWithPagination(ctx context.Context, limit, offset int, search string) ([]Grade, int, error) {
	whereClause := ""
	countArgs := []interface{}{}
	args := []interface{}{limit, offset}

	if search != "" {
		whereClause = "WHERE name ILIKE $3"
		args = append(args, "%"+search+"%")
		countArgs = append(countArgs, "%"+search+"%")
	}

	var totalCount int
	countWhere := strings.Replace(whereClause, "$3", "$1", 1)
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM classdesk.grades %s`, countWhere)
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count grades: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at
		FROM classdesk.grades
		%s
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query grades: %w", err)
	}
	defer rows.Close()

	var grades []Grade
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, g)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating grades: %w", err)
	}

	return grades, totalCount, nil
}

func (r *Repository) UpdateGrade(ctx context.Context, id string, req UpdateGradeRequest) (*Grade, error) {
	var updates []string
	var args []interface{}
	argIndex := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *req.Name)
		argIndex++
	}
	if req.Description != nil {
		updates = append(updates, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *req.Description)
		argIndex++
	}

	if len(updates) == 0 {
		return nil, ErrNoFields
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE classdesk.grades
		SET %s
		WHERE id = $%d
		RETURNING id, name, description, created_at, updated_at
	`, strings.Join(updates, ", "), argIndex)

	var g Grade
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrGradeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update grade: %w", err)
	}
	return &g, nil
}

func (r *Repository) DeleteGrade(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM classdesk.grades WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrGradeNotFound
	}
	return nil
}
