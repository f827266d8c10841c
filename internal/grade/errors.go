package grade

import "errors"

var (
	ErrMissingName   = errors.New("grade name is required")
	ErrNoFields      = errors.New("no fields to update")
	ErrGradeNotFound = errors.New("grade not found")
	ErrForbidden     = errors.New("only main organization admins can manage grades")
)
