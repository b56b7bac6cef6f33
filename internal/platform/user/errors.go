package user

import apperr "github.com/kislikjeka/warungku/internal/shared/errors"

// User validation errors
var (
	ErrInvalidUsername     = apperr.Validation("username must be 3 to 50 characters (letters, digits, . _ -)")
	ErrPasswordTooShort    = apperr.Validation("password must be at least 6 characters")
	ErrInvalidPasswordHash = apperr.Validation("invalid password hash")
	ErrInvalidRole         = apperr.Validation("role must be ADMIN or KASIR")
	ErrCannotDeleteSelf    = apperr.Validation("cannot delete your own account")
	ErrUserNotFound        = apperr.NotFound("user")
	ErrUserAlreadyExists   = apperr.Conflict("username already exists")
	ErrInvalidCredentials  = apperr.Unauthorized("invalid credentials")
)
