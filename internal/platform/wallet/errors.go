package wallet

import apperr "github.com/kislikjeka/warungku/internal/shared/errors"

var (
	// Validation errors
	ErrInvalidWalletID   = apperr.Validation("invalid wallet ID")
	ErrMissingWalletName = apperr.Validation("wallet name is required")
	ErrWalletNameTooLong = apperr.Validation("wallet name exceeds 100 characters")
	ErrInvalidKind       = apperr.Validation("wallet kind must be PHYSICAL or DIGITAL")
	ErrWalletInactive    = apperr.Validation("wallet is inactive")

	// Conflict errors
	ErrDuplicateWalletName = apperr.Conflict("wallet name already exists")

	// Repository errors
	ErrWalletNotFound = apperr.NotFound("wallet")
)
