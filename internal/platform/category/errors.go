package category

import apperr "github.com/kislikjeka/warungku/internal/shared/errors"

var (
	ErrMissingName       = apperr.Validation("category name is required")
	ErrNameTooLong       = apperr.Validation("category name exceeds 100 characters")
	ErrInvalidType       = apperr.Validation("category type must be INCOME or EXPENSE")
	ErrCategoryNotFound  = apperr.NotFound("category")
	ErrDuplicateCategory = apperr.Conflict("category already exists")
)
